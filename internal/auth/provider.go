// Package auth implements the authentication provider: account creation,
// credential verification, token issuance and rotation, and the session-change
// notification stream the workflow's session gate subscribes to.
package auth

import (
	"context"

	"github.com/akuznecov/skyvault/internal/models"
)

// Event describes a session-change notification.
type Event string

const (
	EventSignedIn  Event = "signed_in"
	EventSignedOut Event = "signed_out"
)

// Unsubscribe detaches a subscriber from the notification stream.
type Unsubscribe func()

// Provider is the auth surface consumed by the workflow. The workflow never
// mutates the session it receives; sign-out is always delegated back here.
type Provider interface {
	// CurrentSession returns the active session, or common.ErrNoSession.
	CurrentSession(ctx context.Context) (*models.Session, error)

	// Subscribe registers a callback invoked on every session change. The
	// callback receives a nil session for EventSignedOut.
	Subscribe(fn func(event Event, session *models.Session)) Unsubscribe

	// SignIn verifies credentials and establishes a session.
	SignIn(ctx context.Context, email string, password []byte) (*models.Session, error)

	// SignUp creates a new account. It does not establish a session.
	SignUp(ctx context.Context, email string, password []byte) error

	// SignOut revokes the active session and notifies subscribers.
	SignOut(ctx context.Context) error
}
