package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spendlite/spendlite-be/internal/models"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// ErrInvalidToken covers every verification failure: bad signature, wrong
// issuer, expiry, or presenting a refresh token where an access token is
// expected (and vice versa).
var ErrInvalidToken = errors.New("invalid token")

// Claims extends the registered JWT claims with a token-type discriminator
// so refresh tokens cannot authorize API requests.
type Claims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies signed JWT pairs for authenticated users.
type TokenManager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// Pair is an access/refresh token couple returned at register and login.
type Pair struct {
	Access  string
	Refresh string
}

// NewTokenManager creates a manager with the provided secret, issuer, and
// lifetimes.
func NewTokenManager(secret, issuer string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GeneratePair issues a fresh access/refresh pair for the user.
func (t *TokenManager) GeneratePair(user models.User) (Pair, error) {
	access, err := t.GenerateAccess(user)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := t.sign(user, tokenTypeRefresh, t.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// GenerateAccess issues a signed short-lived access token for the user.
func (t *TokenManager) GenerateAccess(user models.User) (string, error) {
	return t.sign(user, tokenTypeAccess, t.accessTTL)
}

func (t *TokenManager) sign(user models.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// ParseAccess verifies an access token and returns the user ID it carries.
func (t *TokenManager) ParseAccess(token string) (int64, error) {
	return t.parse(token, tokenTypeAccess)
}

// ParseRefresh verifies a refresh token and returns the user ID it carries.
func (t *TokenManager) ParseRefresh(token string) (int64, error) {
	return t.parse(token, tokenTypeRefresh)
}

func (t *TokenManager) parse(token, wantType string) (int64, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(t.issuer))
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
