// Package jwt implements token issuance and verification for caller
// identities using HS256-signed JWTs.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crackube/qna-backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails verification:
// malformed, wrong signature, wrong key, expired, or carrying an unknown
// role. Callers cannot distinguish the cases.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the signed claim payload: the registered claims plus the
// identity attributes. Subject holds the user id.
type Claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Config for the authenticator. The secret key is injected, never read
// from process globals, so tests can substitute a fixed key.
type Config struct {
	SecretKey     string
	TokenDuration time.Duration
}

// Authenticator signs identities into bearer tokens and verifies them back.
type Authenticator struct {
	secret        []byte
	tokenDuration time.Duration
}

// NewAuthenticator creates an Authenticator from config.
func NewAuthenticator(cfg Config) *Authenticator {
	return &Authenticator{
		secret:        []byte(cfg.SecretKey),
		tokenDuration: cfg.TokenDuration,
	}
}

// IssueToken signs the identity claim into an opaque bearer token.
// Tokens expire after the configured duration.
func (a *Authenticator) IssueToken(identity domain.Identity) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenDuration)),
		},
		Name:  identity.Name,
		Email: identity.Email,
		Role:  string(identity.Role),
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken validates the signature and expiry and reconstructs the
// identity claim. No store access happens here; the identity is derived
// entirely from the token.
func (a *Authenticator) VerifyToken(_ context.Context, tokenString string) (domain.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return domain.Identity{}, ErrInvalidToken
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Identity{}, ErrInvalidToken
	}

	return domain.Identity{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  role,
	}, nil
}
