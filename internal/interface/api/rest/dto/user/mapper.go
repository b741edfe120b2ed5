package user

import (
	"socialmedia-api/internal/domain/user"
)

func ToResponseUser(uDomain user.User) User {
	return User{
		UUID:      uDomain.UUID,
		Email:     uDomain.Email,
		Name:      uDomain.Name,
		Avatar:    uDomain.Avatar,
		CreatedAt: uDomain.CreatedAt,
	}
}

func ToPublicUser(uDomain user.User) Public {
	return Public{
		UUID:   uDomain.UUID,
		Name:   uDomain.Name,
		Avatar: uDomain.Avatar,
	}
}
