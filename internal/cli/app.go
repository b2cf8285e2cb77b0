// Package cli implements the interactive SkyVault front end: a REPL over the
// file/folder management workflow. Rendering stays here; all orchestration
// lives in the workflow package.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/akuznecov/skyvault/internal/auth"
	"github.com/akuznecov/skyvault/internal/blob"
	"github.com/akuznecov/skyvault/internal/config"
	"github.com/akuznecov/skyvault/internal/logging"
	"github.com/akuznecov/skyvault/internal/store"
	"github.com/akuznecov/skyvault/internal/store/repomanager"
	"github.com/akuznecov/skyvault/internal/workflow"
)

// App wires the configured collaborators to the REPL. All client handles are
// constructed here and owned by the process entry point; nothing is ambient.
type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	provider auth.Provider
	flow     *workflow.Workflow
	reader   *bufio.Reader
}

// NewApp builds the application: database + migrations, S3 blob store, auth
// provider, and the workflow over all three.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	provider := auth.NewService(db, rm, cfg)
	meta := store.NewAdapter(db, rm)
	blobs := blob.NewS3Store(cfg)

	flow := workflow.New(provider, meta, blobs, logger,
		workflow.WithMaxUploadBytes(cfg.MaxUploadBytes),
		workflow.WithSignedURLTTL(cfg.SignedURLTTL),
	)

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		provider: provider,
		flow:     flow,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// Run drives the REPL until the user exits, then releases resources.
func (a *App) Run(ctx context.Context) {
	defer func() {
		a.flow.Close()
		_ = a.db.Close()
	}()

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.flow.CurrentSnapshot().Authenticated
}

func (a *App) status() string {
	snap := a.flow.CurrentSnapshot()
	if !snap.Authenticated {
		return "signed out"
	}
	location := "/"
	if snap.SelectedFolderID != nil {
		for _, f := range snap.Folders {
			if f.ID == *snap.SelectedFolderID {
				location = "/" + f.Name
				break
			}
		}
	}
	return fmt.Sprintf("%s %s", snap.Session.Email, location)
}
