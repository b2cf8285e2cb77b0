package files

import (
	"context"

	"github.com/akuznecov/skyvault/internal/models"
)

// Repository describes file metadata persistence. Every operation is scoped
// by the owning user.
type Repository interface {
	// List returns the user's files newest-first. A nil folderID filters to
	// top-level files only (folder_id IS NULL), not recursively; a non-nil
	// folderID filters by exact folder match. Zero matches yield an empty
	// slice, never an error.
	List(ctx context.Context, userID string, folderID *string) ([]models.FileRecord, error)

	// Insert creates a record and returns it with store-assigned ID/CreatedAt.
	Insert(ctx context.Context, record *models.FileRecord) (*models.FileRecord, error)

	// Get returns one record owned by userID, or common.ErrorNotFound.
	Get(ctx context.Context, userID, id string) (*models.FileRecord, error)

	// Delete removes exactly one record owned by userID;
	// common.ErrorNotFound otherwise.
	Delete(ctx context.Context, userID, id string) error

	// DeleteByFolder bulk-deletes every record in the folder. Used only as the
	// best-effort cascade step of folder deletion.
	DeleteByFolder(ctx context.Context, userID, folderID string) error
}
