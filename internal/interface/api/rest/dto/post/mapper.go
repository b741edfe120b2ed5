package post

import (
	"github.com/google/uuid"

	"socialmedia-api/internal/domain/media"
	"socialmedia-api/internal/domain/post"
)

func ToResponsePost(pDomain post.Post) Post {
	return Post{
		ID:         pDomain.ID,
		Author:     pDomain.Author,
		Title:      pDomain.Title,
		Caption:    pDomain.Caption,
		Photo:      pDomain.Photo,
		Audio:      pDomain.Audio,
		Visibility: string(pDomain.Visibility),
		CreatedAt:  pDomain.CreatedAt,
	}
}

func ToResponsePosts(ps post.Posts) []Post {
	out := make([]Post, 0, len(ps))
	for _, p := range ps {
		out = append(out, ToResponsePost(*p))
	}

	return out
}

func ToDomainListQuery(q ListQuery) post.ListQuery {
	return post.ListQuery{Before: q.Before, Offset: q.Offset, Limit: q.Limit}
}

// ToDomainNewPost parses the media ids; the remaining rules live on
// post.NewPost.Validate.
func ToDomainNewPost(req Request) (post.NewPost, map[string]string) {
	errs := make(map[string]string)

	photo, err := uuid.Parse(req.Photo)
	if err != nil {
		errs["photo"] = "photo must be a valid UUID"
	}
	audio, err := uuid.Parse(req.Audio)
	if err != nil {
		errs["audio"] = "audio must be a valid UUID"
	}
	if len(errs) > 0 {
		return post.NewPost{}, errs
	}

	np := post.NewPost{
		Title:      req.Title,
		Caption:    req.Caption,
		Photo:      photo,
		Audio:      audio,
		Visibility: media.Visibility(req.Visibility),
	}
	if errs = np.Validate(); errs != nil {
		return post.NewPost{}, errs
	}

	return np, nil
}
