// Package users provides user account persistence for the row service.
package users

import (
	"context"

	"github.com/daydash-app/daydash/internal/server/models"
)

// Repository is the user persistence surface.
type Repository interface {
	// Create stores a new user. A duplicate username fails with
	// common.ErrAlreadyExists.
	Create(ctx context.Context, u *models.User) error
	// GetByUsername returns the user or common.ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
