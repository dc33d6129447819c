// Package auth owns the credential lifecycle: secrets at rest, login, and the
// bearer tokens that gate profile access.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hongminglow/vault-auth/internal/models"
	"github.com/hongminglow/vault-auth/internal/storage"
)

// TokenIssuer signs and verifies identity tokens.
type TokenIssuer interface {
	Generate(username string) (string, error)
	Verify(token string) (models.Identity, error)
}

// Service orchestrates register, login, token verification and profile lookup.
// It keeps no mutable state of its own; the store is the only shared state.
type Service struct {
	store  storage.UserStore
	hasher PasswordHasher
	tokens TokenIssuer
	logger *slog.Logger

	// dummyHash is verified against when the username is unknown so a miss
	// costs the same as a wrong password.
	dummyHash string
}

// NewService wires the service with its collaborators.
func NewService(store storage.UserStore, hasher PasswordHasher, tokens TokenIssuer, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	seed := make([]byte, 16)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("generate dummy secret: %w", err)
	}
	dummy, err := hasher.Hash(hex.EncodeToString(seed))
	if err != nil {
		return nil, fmt.Errorf("hash dummy secret: %w", err)
	}

	return &Service{
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		dummyHash: dummy,
	}, nil
}

// Register creates a user with independently hashed login and withdrawal
// secrets. A taken username yields ErrDuplicateUser whether it is caught by
// the lookup or by the store's unique constraint.
func (s *Service) Register(ctx context.Context, username, loginPassword, withdrawPassword string) (models.Profile, error) {
	username = strings.TrimSpace(username)
	if err := validateRegistration(username, loginPassword, withdrawPassword); err != nil {
		return models.Profile{}, err
	}

	_, err := s.store.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return models.Profile{}, ErrDuplicateUser
	case !errors.Is(err, storage.ErrNotFound):
		return models.Profile{}, s.serverError(ctx, "lookup user", err)
	}

	loginHash, err := s.hasher.Hash(loginPassword)
	if err != nil {
		return models.Profile{}, s.serverError(ctx, "hash login password", err)
	}
	withdrawHash, err := s.hasher.Hash(withdrawPassword)
	if err != nil {
		return models.Profile{}, s.serverError(ctx, "hash withdraw password", err)
	}
	if err := ctx.Err(); err != nil {
		return models.Profile{}, s.serverError(ctx, "register", err)
	}

	created, err := s.store.CreateUser(ctx, models.User{
		Username:             username,
		LoginPasswordHash:    loginHash,
		WithdrawPasswordHash: withdrawHash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.Profile{}, ErrDuplicateUser
		}
		return models.Profile{}, s.serverError(ctx, "create user", err)
	}

	s.logger.InfoContext(ctx, "user registered", "username", created.Username)
	return created.Profile(), nil
}

// Login checks password against the login secret only and returns a signed
// token. Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			_, _ = s.hasher.Verify(password, s.dummyHash)
			return "", ErrInvalidCredentials
		}
		return "", s.serverError(ctx, "lookup user", err)
	}

	ok, err := s.hasher.Verify(password, user.LoginPasswordHash)
	if err != nil {
		return "", s.serverError(ctx, "verify password", err)
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.Username)
	if err != nil {
		return "", s.serverError(ctx, "generate token", err)
	}
	return token, nil
}

// VerifyToken returns the identity bound to token.
func (s *Service) VerifyToken(token string) (models.Identity, error) {
	return s.tokens.Verify(token)
}

// Profile loads the public view of a verified user.
func (s *Service) Profile(ctx context.Context, username string) (models.Profile, error) {
	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Profile{}, ErrUserNotFound
		}
		return models.Profile{}, s.serverError(ctx, "lookup user", err)
	}
	return user.Profile(), nil
}

// Ready reports whether the store is reachable.
func (s *Service) Ready(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrServer, err)
	}
	return nil
}

func (s *Service) serverError(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "auth operation failed", "op", op, "error", err)
	return fmt.Errorf("%w: %s: %w", ErrServer, op, err)
}

func validateRegistration(username, loginPassword, withdrawPassword string) error {
	if username == "" || strings.TrimSpace(loginPassword) == "" || strings.TrimSpace(withdrawPassword) == "" {
		return fmt.Errorf("%w: username, loginPassword and withdrawPassword are required", ErrValidation)
	}
	if len(loginPassword) > maxPasswordBytes || len(withdrawPassword) > maxPasswordBytes {
		return fmt.Errorf("%w: passwords must be at most %d bytes", ErrValidation, maxPasswordBytes)
	}
	return nil
}
