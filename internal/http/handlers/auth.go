package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/mail"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/spendlite/spendlite-be/internal/auth"
	"github.com/spendlite/spendlite-be/internal/http/respond"
	"github.com/spendlite/spendlite-be/internal/middleware"
	"github.com/spendlite/spendlite-be/internal/models"
	"github.com/spendlite/spendlite-be/internal/models/dto"
	"github.com/spendlite/spendlite-be/internal/storage"
)

// AuthHandler owns register/login/refresh and the profile endpoints.
type AuthHandler struct {
	store  storage.Store
	tokens *auth.TokenManager
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.Store, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens}
}

// Register attaches the public auth routes.
func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Post("/refresh", h.handleRefresh)
}

// RegisterProtected attaches routes that require an access token.
func (h *AuthHandler) RegisterProtected(r chi.Router) {
	r.Get("/profile", h.handleProfile)
	r.Put("/profile", h.handleUpdateProfile)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	if fields := validateRegistration(req); len(fields) > 0 {
		respond.FieldErrors(w, http.StatusBadRequest, fields)
		return
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: passwordHash,
	}
	created, err := h.store.CreateUser(r.Context(), user, models.DefaultCategories)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			respond.FieldErrors(w, http.StatusBadRequest, map[string]string{
				"email": "a user with this email already exists",
			})
		default:
			log.Printf("create user error: %v", err)
			respond.Error(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	pair, err := h.tokens.GeneratePair(created)
	if err != nil {
		log.Printf("generate token pair error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to generate tokens")
		return
	}
	respond.JSON(w, http.StatusCreated, "user registered", dto.AuthResponse{
		User:    created,
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	// Unknown email and wrong password produce the identical response so
	// the endpoint does not leak account existence.
	user, err := h.store.FindUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		log.Printf("login failed: error fetching user: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respond.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	pair, err := h.tokens.GeneratePair(user)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to generate tokens")
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", dto.AuthResponse{
		User:    user,
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

func (h *AuthHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Refresh) == "" {
		respond.Error(w, http.StatusBadRequest, "refresh token is required")
		return
	}

	userID, err := h.tokens.ParseRefresh(strings.TrimSpace(req.Refresh))
	if err != nil {
		respond.Error(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}
	user, err := h.store.FindUserByID(r.Context(), userID)
	if err != nil {
		respond.Error(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	access, err := h.tokens.GenerateAccess(user)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, "token refreshed", dto.RefreshResponse{Access: access})
}

func (h *AuthHandler) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing access token")
		return
	}
	user, err := h.store.FindUserByID(r.Context(), userID)
	if err != nil {
		respond.Error(w, http.StatusNotFound, "user not found")
		return
	}
	respond.JSON(w, http.StatusOK, "profile", user)
}

func (h *AuthHandler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing access token")
		return
	}
	var req dto.ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	fields := map[string]string{}
	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)
	if email == "" {
		fields["email"] = "email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "enter a valid email address"
	}
	if username == "" {
		fields["username"] = "username is required"
	}
	if len(fields) > 0 {
		respond.FieldErrors(w, http.StatusBadRequest, fields)
		return
	}

	updated, err := h.store.UpdateUser(r.Context(), models.User{ID: userID, Email: email, Username: username})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			respond.FieldErrors(w, http.StatusBadRequest, map[string]string{
				"email": "a user with this email already exists",
			})
		case errors.Is(err, storage.ErrNotFound):
			respond.Error(w, http.StatusNotFound, "user not found")
		default:
			log.Printf("update profile error: %v", err)
			respond.Error(w, http.StatusInternalServerError, "failed to update profile")
		}
		return
	}
	respond.JSON(w, http.StatusOK, "profile updated", updated)
}

func validateRegistration(req dto.RegisterRequest) map[string]string {
	fields := map[string]string{}
	if req.Email == "" {
		fields["email"] = "email is required"
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		fields["email"] = "enter a valid email address"
	}
	if req.Username == "" {
		fields["username"] = "username is required"
	}
	if msg := checkPasswordPolicy(req.Password); msg != "" {
		fields["password"] = msg
	}
	return fields
}

// checkPasswordPolicy mirrors the minimum-complexity rules: at least eight
// characters, not entirely numeric, and within bcrypt's 72-byte input limit.
func checkPasswordPolicy(password string) string {
	if len(password) < 8 {
		return "password must be at least 8 characters"
	}
	if len(password) > 72 {
		return "password must be at most 72 bytes"
	}
	allDigits := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return "password cannot be entirely numeric"
	}
	return ""
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
