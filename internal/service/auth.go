package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/storeapi/backend/internal/db"
	"github.com/storeapi/backend/internal/logger"
	"github.com/storeapi/backend/internal/model"
	"github.com/storeapi/backend/internal/password"
	"github.com/storeapi/backend/internal/token"
)

type UserRepo interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, username, email, passwordHash string) (*model.User, error)
	ConfirmUser(ctx context.Context, email string) error
}

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

type TokenManager interface {
	Issue(subject string, kind token.Kind) (string, error)
	Verify(tokenStr string, expected token.Kind) (string, error)
}

type AuthService struct {
	repo   UserRepo
	hasher PasswordHasher
	tokens TokenManager
	logger *logger.Logger

	// dummyHash is verified against when the email is unknown so both
	// failure paths pay for one hash comparison.
	dummyHash string
}

func NewAuthService(repo UserRepo, hasher PasswordHasher, tokens TokenManager, logger *logger.Logger) *AuthService {
	dummyHash, err := hasher.Hash("storeapi-unknown-user")
	if err != nil {
		logger.Warn("failed to precompute dummy password hash", "error", err)
	}
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		dummyHash: dummyHash,
	}
}

// normalizeEmail is applied wherever an email enters from a client.
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// Authenticate returns the confirmed user owning email/password. Unknown
// email and wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, plaintext string) (*model.User, error) {
	email = normalizeEmail(email)
	s.logger.Debug("authenticating user", "email", email)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.hasher.Verify(plaintext, s.dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !user.Confirmed {
		return nil, ErrUserNotConfirmed
	}
	return user, nil
}

// Login authenticates and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (string, error) {
	user, err := s.Authenticate(ctx, email, plaintext)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(user.Email, token.KindAccess)
}

// ResolveCurrentUser maps a bearer access token to its user. Token errors
// are returned unchanged so callers can tell them apart.
func (s *AuthService) ResolveCurrentUser(ctx context.Context, bearer string) (*model.User, error) {
	email, err := s.tokens.Verify(bearer, token.KindAccess)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Register creates an unconfirmed user and returns its confirmation token.
func (s *AuthService) Register(ctx context.Context, username, email, plaintext string) (string, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || plaintext == "" {
		return "", ErrInvalidInput
	}

	// Advisory only; the users_email_key constraint decides under races.
	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return "", ErrEmailAlreadyRegistered
	} else if !errors.Is(err, db.ErrNotFound) {
		return "", fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		if errors.Is(err, password.ErrPasswordTooLong) {
			return "", ErrInvalidInput
		}
		return "", err
	}

	if _, err := s.repo.CreateUser(ctx, username, email, hash); err != nil {
		switch {
		case errors.Is(err, db.ErrDuplicateEmail):
			return "", ErrEmailAlreadyRegistered
		case errors.Is(err, db.ErrDuplicateUsername):
			return "", ErrUsernameTaken
		default:
			return "", err
		}
	}
	s.logger.Info("user registered", "email", email)

	return s.tokens.Issue(email, token.KindConfirmation)
}

// Confirm marks the token's subject as confirmed. Already confirmed users
// are confirmed again without error.
func (s *AuthService) Confirm(ctx context.Context, confirmationToken string) error {
	email, err := s.tokens.Verify(confirmationToken, token.KindConfirmation)
	if err != nil {
		return err
	}

	email = normalizeEmail(email)
	if err := s.repo.ConfirmUser(ctx, email); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	s.logger.Info("user confirmed", "email", email)
	return nil
}
