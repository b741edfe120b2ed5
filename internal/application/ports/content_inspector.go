package ports

import (
	"io"

	"socialmedia-api/internal/domain/media"
)

type ContentInfo struct {
	Format   media.Format
	MimeType string
	Ext      string
}

type ContentInspector interface {
	// Inspect sniffs r and returns a reader that still yields every byte of r.
	Inspect(r io.Reader) (ContentInfo, io.Reader, error)
}
