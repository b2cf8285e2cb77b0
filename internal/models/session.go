package models

// Session is the authenticated identity context held for the lifetime of a
// workflow view. It is established by the auth provider and read-only to
// every other component.
type Session struct {
	UserID string
	Email  string
	// AccessToken is the opaque bearer token issued at sign-in.
	AccessToken string
	// RefreshToken rotates on every refresh; persisted server-side.
	RefreshToken string
}
