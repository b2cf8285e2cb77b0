package sessions

import (
	"context"
	"time"

	"github.com/akuznecov/skyvault/internal/models"
)

// Repository manages server-stored rotating refresh tokens.
type Repository interface {
	// Create inserts a refresh token for userID expiring at now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns the token row, or common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a token. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteByUser revokes every token belonging to userID (sign-out).
	DeleteByUser(ctx context.Context, userID string) error
}
