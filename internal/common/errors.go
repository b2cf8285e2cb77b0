// Package common contains shared constants, sentinel errors, and small
// helpers used across SkyVault components. Callers match sentinel values
// with errors.Is and unwrap the typed families with errors.As.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Generic flow-control errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors.
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrNoSession           = errors.New("no active session")

	// Workflow validation errors.
	ErrFileTooLarge    = errors.New("file exceeds the maximum upload size")
	ErrEmptyFolderName = errors.New("folder name must not be empty")
)

// AuthError wraps a failure of the auth provider with a machine-readable kind.
type AuthError struct {
	Kind string // "credentials", "token", "session", "internal"
	Err  error
}

func (e *AuthError) Error() string { return fmt.Sprintf("auth (%s): %v", e.Kind, e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

// StoreError wraps a metadata-store failure.
type StoreError struct {
	Kind string // "constraint", "not_found", "connectivity"
	Err  error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store (%s): %v", e.Kind, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// BlobError wraps an object-store failure.
type BlobError struct {
	Kind string // "size", "conflict", "connectivity", "absent"
	Err  error
}

func (e *BlobError) Error() string { return fmt.Sprintf("blob (%s): %v", e.Kind, e.Err) }
func (e *BlobError) Unwrap() error { return e.Err }
