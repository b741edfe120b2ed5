package media

import (
	"github.com/google/uuid"
)

type (
	ID         = uuid.UUID
	Format     string
	Status     string
	Visibility string
	OwnerKind  string

	Media struct {
		ID         ID
		UploadedBy uuid.UUID
		Format     Format
		Status     Status
		Visibility Visibility

		MimeType  string
		FileName  string
		SizeBytes int64
	}
	MediaList []*Media

	// Owner describes what is being deleted when its media must go with it.
	// For OwnerPost and OwnerAvatar, Media lists what it held. For OwnerUser,
	// every media uploaded by ID is removed and Media is ignored.
	Owner struct {
		Kind  OwnerKind
		ID    uuid.UUID
		Media []ID
	}
)

const (
	FormatImage Format = "image"
	FormatAudio Format = "audio"

	StatusWaiting  Status = "waiting"
	StatusAssigned Status = "assigned"

	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"

	OwnerPost   OwnerKind = "post"
	OwnerUser   OwnerKind = "user"
	OwnerAvatar OwnerKind = "avatar"
)

func (f Format) Valid() bool {
	return f == FormatImage || f == FormatAudio
}

func (v Visibility) Valid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}

// VisibleTo reports whether viewer may read m. A nil viewer is anonymous.
func (m *Media) VisibleTo(viewer *uuid.UUID) bool {
	if m.Status != StatusAssigned {
		return false
	}
	if m.Visibility == VisibilityPublic {
		return true
	}
	return viewer != nil && *viewer == m.UploadedBy
}

func (ml MediaList) IDs() []ID {
	ids := make([]ID, len(ml))
	for idx, m := range ml {
		ids[idx] = m.ID
	}

	return ids
}
