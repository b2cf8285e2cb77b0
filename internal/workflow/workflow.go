// Package workflow implements the file/folder management workflow: the
// session gate, the upload orchestrator with compensating cleanup on partial
// failure, and the folder lifecycle. It is pure orchestration over immutable
// state snapshots; rendering belongs to the caller.
package workflow

import (
	"context"
	"time"

	"github.com/akuznecov/skyvault/internal/auth"
	"github.com/akuznecov/skyvault/internal/blob"
	"github.com/akuznecov/skyvault/internal/logging"
	"github.com/akuznecov/skyvault/internal/models"
)

// Metadata is the metadata-store surface the workflow depends on. Every
// operation is scoped by the owning user.
type Metadata interface {
	ListFiles(ctx context.Context, userID string, folderID *string) ([]models.FileRecord, error)
	ListFolders(ctx context.Context, userID string) ([]models.FolderRecord, error)
	InsertFile(ctx context.Context, record *models.FileRecord) (*models.FileRecord, error)
	GetFile(ctx context.Context, userID, id string) (*models.FileRecord, error)
	DeleteFile(ctx context.Context, userID, id string) error
	DeleteFilesByFolder(ctx context.Context, userID, folderID string) error
	InsertFolder(ctx context.Context, userID, name string, parentID *string) (*models.FolderRecord, error)
	DeleteFolder(ctx context.Context, userID, id string) error
}

// Workflow sequences the auth provider, the metadata store, and the blob
// store in response to user actions.
type Workflow struct {
	provider auth.Provider
	meta     Metadata
	blobs    blob.Store
	logger   logging.Logger
	state    *stateStore

	maxUploadBytes int64
	signedURLTTL   time.Duration
	// dismissDelay is how long a terminal upload task stays visible.
	dismissDelay time.Duration

	unsubscribe auth.Unsubscribe
}

// Option adjusts workflow construction.
type Option func(*Workflow)

// WithDismissDelay overrides the terminal-task dismiss delay (tests).
func WithDismissDelay(d time.Duration) Option {
	return func(w *Workflow) { w.dismissDelay = d }
}

// WithMaxUploadBytes overrides the per-file upload cap.
func WithMaxUploadBytes(n int64) Option {
	return func(w *Workflow) { w.maxUploadBytes = n }
}

// WithSignedURLTTL overrides the preview URL lifetime.
func WithSignedURLTTL(d time.Duration) Option {
	return func(w *Workflow) { w.signedURLTTL = d }
}

// New constructs a Workflow over explicitly passed collaborators. The caller
// owns their lifecycles.
func New(provider auth.Provider, meta Metadata, blobs blob.Store, logger logging.Logger, opts ...Option) *Workflow {
	w := &Workflow{
		provider:       provider,
		meta:           meta,
		blobs:          blobs,
		logger:         logger.With("module", "workflow"),
		state:          newStateStore(),
		maxUploadBytes: 50 * 1024 * 1024,
		signedURLTTL:   15 * time.Minute,
		dismissDelay:   3 * time.Second,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// CurrentSnapshot returns the latest published state.
func (w *Workflow) CurrentSnapshot() Snapshot {
	return w.state.snapshot()
}

// SubscribeState registers fn on the snapshot stream and returns its detach
// function.
func (w *Workflow) SubscribeState(fn func(Snapshot)) func() {
	return w.state.subscribe(fn)
}

// session returns the gate-established session, or nil when unauthenticated.
func (w *Workflow) session() *models.Session {
	snap := w.state.snapshot()
	if !snap.Authenticated {
		return nil
	}
	return snap.Session
}

// refreshFiles reloads the file listing for the currently selected folder.
// A listing failure leaves the prior listing untouched and is logged only.
func (w *Workflow) refreshFiles(ctx context.Context) {
	session := w.session()
	if session == nil {
		return
	}
	selected := w.state.snapshot().SelectedFolderID

	listed, err := w.meta.ListFiles(ctx, session.UserID, selected)
	if err != nil {
		w.logger.Error(ctx, "file listing failed", "error", err.Error())
		return
	}
	w.state.update(func(s *Snapshot) { s.Files = listed })
}

// refreshFolders reloads the folder listing; same failure policy as
// refreshFiles.
func (w *Workflow) refreshFolders(ctx context.Context) {
	session := w.session()
	if session == nil {
		return
	}

	listed, err := w.meta.ListFolders(ctx, session.UserID)
	if err != nil {
		w.logger.Error(ctx, "folder listing failed", "error", err.Error())
		return
	}
	w.state.update(func(s *Snapshot) { s.Folders = listed })
}

// DownloadFile fetches a file's payload by record id.
func (w *Workflow) DownloadFile(ctx context.Context, id string) (*models.FileRecord, []byte, error) {
	session := w.session()
	if session == nil {
		return nil, nil, errNotSignedIn
	}

	record, err := w.meta.GetFile(ctx, session.UserID, id)
	if err != nil {
		w.surface(err)
		return nil, nil, err
	}

	data, err := w.blobs.Download(ctx, record.StoragePath)
	if err != nil {
		w.surface(err)
		return nil, nil, err
	}

	w.clearErr()
	return record, data, nil
}

// DeleteFile removes the metadata record first, then the blob best-effort:
// once the record is gone the file no longer exists to the user, and a
// leftover blob is the same known orphan gap as a failed upload compensation.
func (w *Workflow) DeleteFile(ctx context.Context, id string) error {
	session := w.session()
	if session == nil {
		return errNotSignedIn
	}

	record, err := w.meta.GetFile(ctx, session.UserID, id)
	if err != nil {
		w.surface(err)
		return err
	}

	if err := w.meta.DeleteFile(ctx, session.UserID, id); err != nil {
		w.surface(err)
		return err
	}

	if err := w.blobs.Remove(ctx, []string{record.StoragePath}); err != nil {
		w.logger.Error(ctx, "blob cleanup failed, orphan blob left behind",
			"path", record.StoragePath, "error", err.Error())
	}

	w.clearErr()
	w.refreshFiles(ctx)
	return nil
}

// PreviewURL issues a time-limited read URL for a file. Failures are
// non-fatal to the caller: an empty URL means no preview.
func (w *Workflow) PreviewURL(ctx context.Context, id string) string {
	session := w.session()
	if session == nil {
		return ""
	}

	record, err := w.meta.GetFile(ctx, session.UserID, id)
	if err != nil {
		w.logger.Error(ctx, "preview lookup failed", "id", id, "error", err.Error())
		return ""
	}

	url, err := w.blobs.CreateSignedURL(ctx, record.StoragePath, w.signedURLTTL)
	if err != nil {
		w.logger.Error(ctx, "preview url failed", "path", record.StoragePath, "error", err.Error())
		return ""
	}
	return url
}

// Logout delegates sign-out to the auth provider; the gate's subscription
// turns the resulting signed-out event into state teardown.
func (w *Workflow) Logout(ctx context.Context) error {
	return w.provider.SignOut(ctx)
}

// surface records a user-facing error message on the snapshot.
func (w *Workflow) surface(err error) {
	w.state.update(func(s *Snapshot) { s.Err = err.Error() })
}

func (w *Workflow) clearErr() {
	w.state.update(func(s *Snapshot) { s.Err = "" })
}
