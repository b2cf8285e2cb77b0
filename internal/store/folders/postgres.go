// Package folders provides a PostgreSQL-backed repository for folder records.
package folders

import (
	"context"
	"fmt"

	"github.com/akuznecov/skyvault/internal/common"
	"github.com/akuznecov/skyvault/internal/dbx"
	"github.com/akuznecov/skyvault/internal/models"
)

// PostgresRepository implements Repository over a dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]models.FolderRecord, error) {
	query := `
		SELECT id, name, user_id, parent_folder_id, created_at, updated_at
		FROM folders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select folders: %w", err)
	}
	defer rows.Close()

	result := make([]models.FolderRecord, 0)
	for rows.Next() {
		var item models.FolderRecord
		if err := rows.Scan(&item.ID, &item.Name, &item.UserID, &item.ParentFolderID,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, userID, name string, parentID *string) (*models.FolderRecord, error) {
	query := `
		INSERT INTO folders (name, user_id, parent_folder_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	folder := &models.FolderRecord{Name: name, UserID: userID, ParentFolderID: parentID}
	err := r.db.QueryRowContext(ctx, query, name, userID, parentID).
		Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return folder, nil
}

// Delete removes exactly one folder. Zero affected rows means the folder does
// not exist or is not owned by userID.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM folders WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return common.ErrorNotFound
	}
	return nil
}
