package post

import (
	"socialmedia-api/internal/domain/media"
	domain "socialmedia-api/internal/domain/post"
)

func fromDBModel(model *Post) *domain.Post {
	var p = &domain.Post{
		ID:         model.ID,
		Author:     model.Author,
		Title:      model.Title,
		Caption:    model.Caption,
		Photo:      model.Photo,
		Audio:      model.Audio,
		Visibility: media.Visibility(model.Visibility),

		CreatedAt: model.CreatedAt,
	}

	return p
}

func fromDBModels(models Posts) domain.Posts {
	ps := make(domain.Posts, len(models))
	for idx, p := range models {
		ps[idx] = fromDBModel(p)
	}

	return ps
}
