package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cinelist/internal/auth"
	"cinelist/internal/models"
	"cinelist/internal/repository"

	"github.com/sirupsen/logrus"
)

// TokenIssuer signs access tokens for a user.
type TokenIssuer interface {
	GenerateToken(userID int64) (string, error)
}

type AuthResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

type UserService struct {
	repo   repository.UserRepository
	tokens TokenIssuer
	logger *logrus.Logger
}

func NewUserService(repo repository.UserRepository, tokens TokenIssuer, logger *logrus.Logger) *UserService {
	if logger == nil {
		logger = logrus.New()
	}
	return &UserService{repo: repo, tokens: tokens, logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the account and logs it in.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}

	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to check if user exists: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Username: username, Email: email, PasswordHash: hash}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("A user has been created...")

	return s.issue(user)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.WithField("user_id", user.ID).Info("Login rejected")
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: token, TokenType: "bearer", User: user}, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListOthers returns every user except id, ordered by username.
func (s *UserService) ListOthers(ctx context.Context, id int64) ([]models.UserPublic, error) {
	return s.repo.ListExcept(ctx, id)
}
