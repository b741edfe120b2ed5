package post

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"socialmedia-api/internal/domain/media"
)

const (
	MaxTitleLen   = 40
	MaxCaptionLen = 150

	DefaultPageSize = 20
	MaxPageSize     = 255
)

type (
	ID   = uuid.UUID
	Post struct {
		ID         ID
		Author     uuid.UUID
		Title      string
		Caption    string
		Photo      media.ID
		Audio      media.ID
		Visibility media.Visibility

		CreatedAt time.Time
	}
	Posts []*Post

	NewPost struct {
		Title      string
		Caption    string
		Photo      media.ID
		Audio      media.ID
		Visibility media.Visibility
	}

	// ListQuery pages an author's posts newest first, starting at Before.
	ListQuery struct {
		Before         time.Time
		Offset         int
		Limit          int
		IncludePrivate bool
	}
)

// Media returns the attachments a post owns, in claim order.
func (p *Post) Media() []media.ID {
	return []media.ID{p.Photo, p.Audio}
}

// Targets lists what must be claimed for the post to exist.
func (np NewPost) Targets() []media.ClaimTarget {
	return []media.ClaimTarget{
		{ID: np.Photo, Format: media.FormatImage},
		{ID: np.Audio, Format: media.FormatAudio},
	}
}

// Validate returns field -> message for every rule np breaks, or nil.
func (np NewPost) Validate() map[string]string {
	errs := make(map[string]string)

	title := np.Title
	switch {
	case strings.TrimSpace(title) == "":
		errs["title"] = "title is required"
	case strings.TrimSpace(title) != title:
		errs["title"] = "title must not start or end with whitespace"
	case utf8.RuneCountInString(title) > MaxTitleLen:
		errs["title"] = "title is too long"
	}

	if utf8.RuneCountInString(np.Caption) > MaxCaptionLen {
		errs["caption"] = "caption is too long"
	}
	if np.Photo == uuid.Nil {
		errs["photo"] = "photo is required"
	}
	if np.Audio == uuid.Nil {
		errs["audio"] = "audio is required"
	}
	if np.Visibility != "" && !np.Visibility.Valid() {
		errs["visibility"] = "visibility must be private or public"
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}

// Normalize fills the defaults and clamps the page size.
func (q ListQuery) Normalize(now time.Time) ListQuery {
	if q.Before.IsZero() {
		q.Before = now
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	switch {
	case q.Limit <= 0:
		q.Limit = DefaultPageSize
	case q.Limit > MaxPageSize:
		q.Limit = MaxPageSize
	}

	return q
}

// Visibilities lists the visibilities q may return.
func (q ListQuery) Visibilities() []media.Visibility {
	if q.IncludePrivate {
		return []media.Visibility{media.VisibilityPublic, media.VisibilityPrivate}
	}

	return []media.Visibility{media.VisibilityPublic}
}
