package common

// DefaultContentType is used when a file's MIME type cannot be determined.
const DefaultContentType = "application/octet-stream"

// MaxUploadBytes is the client-side per-file cap. Operators must keep it in
// sync with the object store's server-side object size limit.
const MaxUploadBytes = 50 * 1024 * 1024
