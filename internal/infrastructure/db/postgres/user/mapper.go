package user

import (
	domain "socialmedia-api/internal/domain/user"
)

func fromDBModel(model *User) *domain.User {
	var u = &domain.User{
		UUID:         model.UUID,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		Name:         model.Name,
		Avatar:       model.Avatar,

		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}

	return u
}
