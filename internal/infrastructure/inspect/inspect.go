package inspect

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"

	"socialmedia-api/internal/application/ports"
	"socialmedia-api/internal/domain/media"
)

// headerSize matches how much mimetype looks at by default.
const headerSize = 3072

var allowed = []struct {
	mime   string
	format media.Format
}{
	{"image/png", media.FormatImage},
	{"image/jpeg", media.FormatImage},
	{"image/webp", media.FormatImage},
	{"image/gif", media.FormatImage},
	{"audio/mpeg", media.FormatAudio},
	{"audio/ogg", media.FormatAudio},
	{"audio/wav", media.FormatAudio},
	{"audio/flac", media.FormatAudio},
	{"audio/mp4", media.FormatAudio},
	{"audio/x-m4a", media.FormatAudio},
}

type Inspector struct{}

func New() ports.ContentInspector { return Inspector{} }

// Inspect trusts the bytes, not the client's file name or Content-Type.
func (Inspector) Inspect(r io.Reader) (ports.ContentInfo, io.Reader, error) {
	head := make([]byte, headerSize)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return ports.ContentInfo{}, nil, fmt.Errorf("read header: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return ports.ContentInfo{}, nil, media.ErrUnsupportedFormat
	}

	mt := mimetype.Detect(head)
	for _, a := range allowed {
		if mt.Is(a.mime) {
			info := ports.ContentInfo{
				Format:   a.format,
				MimeType: a.mime,
				Ext:      mt.Extension(),
			}
			return info, io.MultiReader(bytes.NewReader(head), r), nil
		}
	}

	return ports.ContentInfo{}, nil, fmt.Errorf("%w: %s", media.ErrUnsupportedFormat, mt.String())
}
