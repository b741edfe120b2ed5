package media

import (
	"time"

	"github.com/google/uuid"

	"socialmedia-api/internal/domain/media"
)

type Upload struct {
	ID        uuid.UUID `json:"id"`
	Format    string    `json:"format"`
	MimeType  string    `json:"mime_type"`
	FileName  string    `json:"file_name"`
	TTL       int64     `json:"ttl"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ToResponseUpload tells the client how long it has to reference the upload.
func ToResponseUpload(m media.Media, ttl time.Duration) Upload {
	created, _ := media.CreatedAt(m.ID)

	return Upload{
		ID:        m.ID,
		Format:    string(m.Format),
		MimeType:  m.MimeType,
		FileName:  m.FileName,
		TTL:       int64(ttl / time.Second),
		ExpiresAt: created.Add(ttl).UTC(),
	}
}
