package media

import (
	domain "socialmedia-api/internal/domain/media"
)

func fromDBModel(model *Media) *domain.Media {
	var m = &domain.Media{
		ID:         model.ID,
		UploadedBy: model.UploadedBy,
		Format:     domain.Format(model.Format),
		Status:     domain.Status(model.Status),
		Visibility: domain.Visibility(model.Visibility),

		MimeType:  model.MimeType,
		FileName:  model.FileName,
		SizeBytes: model.SizeBytes,
	}

	return m
}

func fromDBModels(models MediaList) domain.MediaList {
	ml := make(domain.MediaList, len(models))
	for idx, m := range models {
		ml[idx] = fromDBModel(m)
	}

	return ml
}
