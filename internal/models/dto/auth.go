package dto

import "github.com/spendlite/spendlite-be/internal/models"

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// AuthResponse carries the user plus a fresh token pair, returned by both
// register and login.
type AuthResponse struct {
	User    models.User `json:"user"`
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
}

type RefreshResponse struct {
	Access string `json:"access"`
}

type ProfileUpdateRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}
