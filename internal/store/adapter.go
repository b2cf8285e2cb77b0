// Package store exposes the metadata-store adapter: owner-scoped CRUD over
// the file and folder collections, backed by the PostgreSQL repositories.
package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/akuznecov/skyvault/internal/common"
	"github.com/akuznecov/skyvault/internal/models"
	"github.com/akuznecov/skyvault/internal/store/repomanager"
)

// Adapter implements the workflow's Metadata interface. Failures are wrapped
// as *common.StoreError with a machine-readable kind.
type Adapter struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewAdapter constructs an Adapter over an open database handle.
func NewAdapter(db *sql.DB, m repomanager.RepositoryManager) *Adapter {
	return &Adapter{db: db, repomanager: m}
}

func (a *Adapter) ListFiles(ctx context.Context, userID string, folderID *string) ([]models.FileRecord, error) {
	listed, err := a.repomanager.Files(a.db).List(ctx, userID, folderID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return listed, nil
}

func (a *Adapter) ListFolders(ctx context.Context, userID string) ([]models.FolderRecord, error) {
	listed, err := a.repomanager.Folders(a.db).List(ctx, userID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return listed, nil
}

func (a *Adapter) InsertFile(ctx context.Context, record *models.FileRecord) (*models.FileRecord, error) {
	inserted, err := a.repomanager.Files(a.db).Insert(ctx, record)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return inserted, nil
}

func (a *Adapter) GetFile(ctx context.Context, userID, id string) (*models.FileRecord, error) {
	record, err := a.repomanager.Files(a.db).Get(ctx, userID, id)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return record, nil
}

func (a *Adapter) DeleteFile(ctx context.Context, userID, id string) error {
	if err := a.repomanager.Files(a.db).Delete(ctx, userID, id); err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func (a *Adapter) DeleteFilesByFolder(ctx context.Context, userID, folderID string) error {
	if err := a.repomanager.Files(a.db).DeleteByFolder(ctx, userID, folderID); err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func (a *Adapter) InsertFolder(ctx context.Context, userID, name string, parentID *string) (*models.FolderRecord, error) {
	folder, err := a.repomanager.Folders(a.db).Insert(ctx, userID, name, parentID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return folder, nil
}

func (a *Adapter) DeleteFolder(ctx context.Context, userID, id string) error {
	if err := a.repomanager.Folders(a.db).Delete(ctx, userID, id); err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func wrapStoreErr(err error) error {
	kind := "connectivity"
	if errors.Is(err, common.ErrorNotFound) {
		kind = "not_found"
	}
	return &common.StoreError{Kind: kind, Err: err}
}
