package users

import (
	"context"

	"github.com/akuznecov/skyvault/internal/models"
)

// Repository describes account persistence for the auth provider.
type Repository interface {
	// Create inserts a new user and returns it with the store-assigned ID.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the user with the given email, or common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
