package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imtiaz478/Sellora-full/internal/models"
	"github.com/imtiaz478/Sellora-full/internal/storage"
)

var (
	// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned by Authenticate for a missing, invalid, expired or revoked token.
	ErrUnauthorized = errors.New("unauthorized")
)

// Revoker tracks tokens that were logged out before they expired.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// NoopRevoker never revokes anything; logout then relies on the client discarding its token.
type NoopRevoker struct{}

func (NoopRevoker) Revoke(context.Context, string, time.Time) error { return nil }

func (NoopRevoker) IsRevoked(context.Context, string) (bool, error) { return false, nil }

// Service registers users, logs them in and resolves bearer tokens.
type Service struct {
	users   storage.UserStore
	tokens  *TokenManager
	revoker Revoker
}

// NewService wires the service. A nil revoker disables revocation.
func NewService(users storage.UserStore, tokens *TokenManager, revoker Revoker) *Service {
	if revoker == nil {
		revoker = NoopRevoker{}
	}
	return &Service{users: users, tokens: tokens, revoker: revoker}
}

// Register stores a new user with a hashed password.
// A taken username or email yields storage.ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, username, email, password string) (models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.users.CreateUser(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Login verifies the credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (IssuedToken, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return IssuedToken{}, ErrInvalidCredentials
		}
		return IssuedToken{}, fmt.Errorf("find user: %w", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return IssuedToken{}, ErrInvalidCredentials
	}
	return s.tokens.Generate(user)
}

// Authenticate resolves a raw bearer token to the caller's identity.
func (s *Service) Authenticate(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrUnauthorized
	}
	id, err := s.tokens.Parse(token)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	revoked, err := s.revoker.IsRevoked(ctx, id.TokenID)
	if err != nil {
		return Identity{}, err
	}
	if revoked {
		return Identity{}, fmt.Errorf("%w: token revoked", ErrUnauthorized)
	}
	return id, nil
}

// Logout revokes the token the caller authenticated with.
func (s *Service) Logout(ctx context.Context, id Identity) error {
	return s.revoker.Revoke(ctx, id.TokenID, id.ExpiresAt)
}
