package models

import "time"

// FolderRecord is a user-created container for files. ParentFolderID supports
// nesting even though the front end renders a single level.
type FolderRecord struct {
	ID             string
	Name           string
	UserID         string
	ParentFolderID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
