// Package identity provides user registration, authentication, and user
// management.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/crackube/qna-backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const (
	minNameLength     = 3
	minPasswordLength = 8
)

// TokenIssuer signs an identity claim into a bearer token.
type TokenIssuer interface {
	IssueToken(identity domain.Identity) (string, error)
}

// Service implements identity business logic.
type Service struct {
	repo   Repository
	tokens TokenIssuer
}

// NewService creates a new identity service.
func NewService(repo Repository, tokens TokenIssuer) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
	}
}

// RegisterInput contains registration data. Passwords arrive in plaintext
// and are stored as one-way bcrypt hashes only.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new user with the default role. Fails with
// ErrEmailExists when the email is already taken; no record is created in
// that case.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if len(input.Name) < minNameLength {
		return nil, ErrNameTooShort
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	email := normalizeEmail(input.Email)

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:     input.Name,
		Email:    email,
		Password: string(hash),
		Role:     domain.RoleUser,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login authenticates by email and password and returns the user together
// with a signed bearer token. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(domain.IdentityFromUser(user))
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// GetUserByID returns a single user.
func (s *Service) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// ListUsers returns every user. An empty slice is a success.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListUsers(ctx)
}

// UpdateInput contains the optional fields of an update. Empty means
// unchanged.
type UpdateInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UpdateUser applies an update to the user with the given id. Admins may
// change any field including role and email; everyone else may change only
// their own name and password.
func (s *Service) UpdateUser(ctx context.Context, actor domain.Identity, id string, input UpdateInput) (*domain.User, error) {
	if input.Name != "" && len(input.Name) < minNameLength {
		return nil, ErrNameTooShort
	}
	if input.Password != "" && len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	var role domain.Role
	if input.Role != "" {
		parsed, err := domain.ParseRole(input.Role)
		if err != nil {
			return nil, ErrInvalidRole
		}
		role = parsed
	}

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.Role.IsAdmin() {
		if actor.ID != id {
			return nil, ErrNotAllowed
		}
		// Non-admins cannot touch email or role, even their own.
		if input.Email != "" || input.Role != "" {
			return nil, ErrNotAllowed
		}
	}

	if input.Email != "" {
		email := normalizeEmail(input.Email)
		if email != user.Email {
			existing, err := s.repo.GetUserByEmail(ctx, email)
			if err != nil && !errors.Is(err, ErrUserNotFound) {
				return nil, fmt.Errorf("check existing email: %w", err)
			}
			if existing != nil {
				return nil, ErrEmailExists
			}
			user.Email = email
		}
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = string(hash)
	}
	if role != "" {
		user.Role = role
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes a user. Admin gating happens at the route level.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.DeleteUser(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
