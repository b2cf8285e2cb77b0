package workflow

import (
	"context"
	"strings"

	"github.com/akuznecov/skyvault/internal/common"
)

// CreateFolder trims the name and creates a folder under parentID. An empty
// or whitespace-only name is rejected before the store is called, leaving the
// caller's input intact for retry.
func (w *Workflow) CreateFolder(ctx context.Context, name string, parentID *string) error {
	session := w.session()
	if session == nil {
		return errNotSignedIn
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return common.ErrEmptyFolderName
	}

	if _, err := w.meta.InsertFolder(ctx, session.UserID, name, parentID); err != nil {
		w.surface(err)
		return err
	}

	w.clearErr()
	w.refreshFolders(ctx)
	return nil
}

// SelectFolder is a pure view-state change followed by a file-listing
// refetch. A nil id selects the top level.
func (w *Workflow) SelectFolder(ctx context.Context, id *string) {
	w.state.update(func(s *Snapshot) { s.SelectedFolderID = id })
	w.refreshFiles(ctx)
}

// DeleteFolder removes a folder and its files. The ordering is deliberately
// lenient: the file cascade is best-effort and its failure does not stop the
// folder record deletion, which can strand file records with a dangling
// folder_id. Selection resets to top-level when the deleted folder was
// selected, and both listings are refreshed regardless of intermediate
// failures to reflect best current truth.
//
// Callers are expected to have obtained explicit user confirmation; this is a
// destructive operation.
func (w *Workflow) DeleteFolder(ctx context.Context, id string) error {
	session := w.session()
	if session == nil {
		return errNotSignedIn
	}

	if err := w.meta.DeleteFilesByFolder(ctx, session.UserID, id); err != nil {
		w.logger.Error(ctx, "folder file cascade failed", "folder", id, "error", err.Error())
	}

	deleteErr := w.meta.DeleteFolder(ctx, session.UserID, id)
	if deleteErr != nil {
		w.surface(deleteErr)
	} else {
		w.clearErr()
	}

	if selected := w.state.snapshot().SelectedFolderID; selected != nil && *selected == id {
		w.state.update(func(s *Snapshot) { s.SelectedFolderID = nil })
	}

	w.refreshFolders(ctx)
	w.refreshFiles(ctx)

	return deleteErr
}
