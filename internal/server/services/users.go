package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/daydash-app/daydash/internal/common"
	"github.com/daydash-app/daydash/internal/model"
	serverauth "github.com/daydash-app/daydash/internal/server/auth"
	"github.com/daydash-app/daydash/internal/server/models"
	"github.com/daydash-app/daydash/internal/server/repositories/users"
)

// UserService handles account registration and login, minting access tokens
// for authenticated sessions.
type UserService struct {
	repo          users.Repository
	secretKey     string
	tokenValidity time.Duration
}

func NewUserService(repo users.Repository, secretKey string, tokenValidity time.Duration) *UserService {
	return &UserService{repo: repo, secretKey: secretKey, tokenValidity: tokenValidity}
}

// Register creates a new account and returns an access token for it.
func (s *UserService) Register(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", fmt.Errorf("username and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	user := &models.User{
		ID:           model.NewID(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return "", err
	}
	return serverauth.GenerateToken(user.ID, []byte(s.secretKey), s.tokenValidity)
}

// Login verifies credentials and returns a fresh access token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrAuthRequired
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", common.ErrAuthRequired
	}
	return serverauth.GenerateToken(user.ID, []byte(s.secretKey), s.tokenValidity)
}
