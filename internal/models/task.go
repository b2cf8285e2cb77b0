package models

// UploadStatus is the lifecycle state of one in-flight upload.
type UploadStatus string

const (
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusCompleted UploadStatus = "completed"
	UploadStatusError     UploadStatus = "error"
)

// UploadTask tracks one file's upload for display. It is transient and never
// persisted; terminal tasks are dropped from the visible set after a short
// dismiss delay.
type UploadTask struct {
	ID       string
	FileName string
	// Progress is 0-100, driven by bytes actually read from the payload.
	Progress int
	Status   UploadStatus
	// Detail carries the user-facing message for Status == error.
	Detail string
}
