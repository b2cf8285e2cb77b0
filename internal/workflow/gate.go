package workflow

import (
	"context"
	"errors"

	"github.com/akuznecov/skyvault/internal/auth"
	"github.com/akuznecov/skyvault/internal/common"
	"github.com/akuznecov/skyvault/internal/models"
)

// errNotSignedIn guards every action behind the gate.
var errNotSignedIn = errors.New("not signed in")

// Activate is the session gate. It queries the auth provider once; when no
// session exists it returns common.ErrNoSession (the caller redirects to a
// login surface) without touching workflow state. A failed session check is
// treated as unauthenticated and never retried.
//
// On success the session is held for the lifetime of the view, the gate
// subscribes to session-change notifications, and the initial listings are
// loaded. A signed-out event at any later time tears the state down
// immediately.
func (w *Workflow) Activate(ctx context.Context) error {
	session, err := w.provider.CurrentSession(ctx)
	if err != nil {
		return common.ErrNoSession
	}

	w.state.update(func(s *Snapshot) {
		s.Authenticated = true
		s.Session = session
		s.SelectedFolderID = nil
		s.Err = ""
	})

	if w.unsubscribe != nil {
		w.unsubscribe()
	}
	w.unsubscribe = w.provider.Subscribe(func(event auth.Event, _ *models.Session) {
		if event == auth.EventSignedOut {
			w.deactivate()
		}
	})

	w.state.update(func(s *Snapshot) { s.Loading = true })
	w.refreshFolders(ctx)
	w.refreshFiles(ctx)
	w.state.update(func(s *Snapshot) { s.Loading = false })

	return nil
}

// Close tears the gate down and detaches from the notification stream.
func (w *Workflow) Close() {
	if w.unsubscribe != nil {
		w.unsubscribe()
		w.unsubscribe = nil
	}
	w.deactivate()
}

// deactivate clears all view state; the next render sees unauthenticated.
func (w *Workflow) deactivate() {
	w.state.update(func(s *Snapshot) {
		*s = Snapshot{}
	})
}
