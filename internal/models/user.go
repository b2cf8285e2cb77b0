package models

import "time"

// User is an account row. PasswordHash is an argon2id hash encoded as
// "saltHex$keyHex"; the cleartext never touches the store.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// RefreshToken is a server-stored rotating token granting a new access token.
type RefreshToken struct {
	Token   string
	UserID  string
	Expires time.Time
}
