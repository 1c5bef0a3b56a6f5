package storage

import (
	"context"
	"io"
)

// ObjectStore is what the file handlers and the expiry sweeper need from the
// backing bucket: durable writes that hand back a public URL, and deletes
// that tolerate already-missing objects.
type ObjectStore interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, objectName string) error
}
