// Package models defines the data records persisted by SkyVault and the
// transient types the workflow publishes to its presentation layer.
package models

import "time"

// FileRecord describes one uploaded file's metadata. The binary payload
// itself lives in object storage under StoragePath.
type FileRecord struct {
	// ID is assigned by the metadata store on insert.
	ID string
	// Name is the internally generated storage key (opaque, collision-resistant).
	Name string
	// OriginalName is the user-supplied display name, kept unsanitized.
	OriginalName string
	// FileType is the MIME type; "application/octet-stream" when unknown.
	FileType string
	// FileSize is the payload length in bytes.
	FileSize int64
	// StoragePath is the object-store key. Invariant: StoragePath == Name.
	StoragePath string
	// UserID is the owner. All queries are scoped by it.
	UserID string
	// FolderID references a FolderRecord; nil means top-level.
	FolderID *string
	// CreatedAt is set by the store on insert and immutable thereafter.
	CreatedAt time.Time
}
