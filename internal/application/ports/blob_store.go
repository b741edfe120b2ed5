package ports

import (
	"context"
	"io"

	"socialmedia-api/internal/domain/media"
)

// BlobStore keeps the bytes of each media under a path derived from its id.
type BlobStore interface {
	Put(ctx context.Context, id media.ID, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, id media.ID) (io.ReadCloser, error)
	// Delete treats an absent blob as already deleted.
	Delete(ctx context.Context, id media.ID) error
	Key(id media.ID) string
}
