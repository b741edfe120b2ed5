package media

import (
	"github.com/google/uuid"
)

type (
	Media struct {
		ID         uuid.UUID
		UploadedBy uuid.UUID
		Format     string
		Status     string
		Visibility string

		MimeType  string
		FileName  string
		SizeBytes int64
	}
	MediaList []*Media
)
