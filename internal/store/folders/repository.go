package folders

import (
	"context"

	"github.com/akuznecov/skyvault/internal/models"
)

// Repository describes folder metadata persistence. Every operation is scoped
// by the owning user; cross-user access is never possible through this layer.
type Repository interface {
	// List returns the user's folders newest-first, flat (unfiltered by parent).
	// Zero matches yield an empty slice, never an error.
	List(ctx context.Context, userID string) ([]models.FolderRecord, error)

	// Insert creates a folder and returns it with store-assigned fields.
	Insert(ctx context.Context, userID, name string, parentID *string) (*models.FolderRecord, error)

	// Delete removes exactly one folder owned by userID;
	// common.ErrorNotFound otherwise.
	Delete(ctx context.Context, userID, id string) error
}
