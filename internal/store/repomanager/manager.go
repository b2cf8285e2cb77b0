package repomanager

import (
	"context"
	"database/sql"

	"github.com/akuznecov/skyvault/internal/dbx"
	"github.com/akuznecov/skyvault/internal/store/files"
	"github.com/akuznecov/skyvault/internal/store/folders"
	"github.com/akuznecov/skyvault/internal/store/sessions"
	"github.com/akuznecov/skyvault/internal/store/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so the
// same repository code runs against *sql.DB or inside a transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Folders(db dbx.DBTX) folders.Repository
	Files(db dbx.DBTX) files.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
