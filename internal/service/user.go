// Package service contains the business logic layer: handlers parse HTTP
// and delegate here, repositories persist, and everything in between
// (uniqueness rules, credential checks, pagination clamping, cascade
// orchestration) is this package's job. Services accept primitives and
// models, never HTTP types, and return taxonomy errors from apperror.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/catalog-service/internal/apperror"
	"github.com/sakif/catalog-service/internal/auth"
	"github.com/sakif/catalog-service/internal/model"
	"github.com/sakif/catalog-service/internal/repository"
)

// UserService handles signup and authentication.
type UserService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewUserService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Signup registers a new account and returns an access token, so a fresh
// signup is immediately authenticated without a second round trip.
//
// The duplicate-email check happens before the insert; the check and the
// insert are not one transaction, so two simultaneous signups for the same
// email can race past it. The UNIQUE constraint on the email column stops
// the second insert, which then surfaces as an internal error rather than
// the friendly duplicate message. Accepted as a known gap.
func (s *UserService) Signup(ctx context.Context, email, password string) (string, error) {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return "", apperror.EmailAlreadyExists()
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return "", fmt.Errorf("service: checking email %s: %w", email, err)
	}

	salt, err := auth.GenerateSalt()
	if err != nil {
		return "", fmt.Errorf("service: %w", err)
	}

	user := &model.User{
		Email:          email,
		Salt:           salt,
		HashedPassword: s.passwords.Hash(password, salt),
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("service: creating user: %w", err)
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("service: issuing token for user %s: %w", user.ID, err)
	}
	return token, nil
}

// Authenticate verifies credentials and returns a fresh access token.
// An unknown email and a wrong password produce the same error: nothing in
// the response says whether the account exists.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.InvalidEmailOrPassword()
		}
		return "", fmt.Errorf("service: fetching user %s: %w", email, err)
	}

	if !s.passwords.Verify(user.HashedPassword, password, user.Salt) {
		return "", apperror.InvalidEmailOrPassword()
	}

	s.logger.Info("user authenticated", slog.String("userID", user.ID))

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("service: issuing token for user %s: %w", user.ID, err)
	}
	return token, nil
}
