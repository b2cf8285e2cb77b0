// Package files provides a PostgreSQL-backed repository for file records.
package files

import (
	"context"
	"database/sql"
	"errors"
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

// List filters by folder. "IS NOT DISTINCT FROM" gives IS NULL semantics for
// a nil folderID and an equality match otherwise in a single statement.
func (r *PostgresRepository) List(ctx context.Context, userID string, folderID *string) ([]models.FileRecord, error) {
	query := `
		SELECT id, name, original_name, file_type, file_size, storage_path, user_id, folder_id, created_at
		FROM files
		WHERE user_id = $1 AND folder_id IS NOT DISTINCT FROM $2
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	result := make([]models.FileRecord, 0)
	for rows.Next() {
		var item models.FileRecord
		if err := rows.Scan(&item.ID, &item.Name, &item.OriginalName, &item.FileType,
			&item.FileSize, &item.StoragePath, &item.UserID, &item.FolderID, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, record *models.FileRecord) (*models.FileRecord, error) {
	query := `
		INSERT INTO files (name, original_name, file_type, file_size, storage_path, user_id, folder_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		record.Name, record.OriginalName, record.FileType, record.FileSize,
		record.StoragePath, record.UserID, record.FolderID).
		Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return record, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.FileRecord, error) {
	query := `
		SELECT id, name, original_name, file_type, file_size, storage_path, user_id, folder_id, created_at
		FROM files
		WHERE id = $1 AND user_id = $2
	`
	record := &models.FileRecord{}
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&record.ID, &record.Name, &record.OriginalName, &record.FileType,
			&record.FileSize, &record.StoragePath, &record.UserID, &record.FolderID, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return record, nil
}

// Delete removes exactly one record. Zero affected rows means the record does
// not exist or is not owned by userID.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM files WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
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

// DeleteByFolder may affect zero rows; an empty folder is not an error.
func (r *PostgresRepository) DeleteByFolder(ctx context.Context, userID, folderID string) error {
	query := `DELETE FROM files WHERE folder_id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, folderID, userID); err != nil {
		return fmt.Errorf("failed to delete folder files: %w", err)
	}
	return nil
}
