package storage

import (
	"context"
	"io"
)

// UploadResult describes an object written to the archive bucket.
type UploadResult struct {
	Key         string
	Location    string
	ContentType string
	ETag        string
}

// ObjectUploader writes archive objects and resolves their public URLs.
// Archived brackets are immutable, so objects are only ever written.
type ObjectUploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (*UploadResult, error)
	GetPublicURL(key string) string
}
