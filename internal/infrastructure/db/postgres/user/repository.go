package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"socialmedia-api/internal/domain/user"
	"socialmedia-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) user.Repository {
	return &Repository{db: db}
}

func scanUser(row pgx.Row) (*User, error) {
	u := new(User)
	err := row.Scan(
		&u.UUID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Avatar,

		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}

func (r *Repository) FetchUserByID(ctx context.Context, uuid user.UUID) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, SelectUserByID, uuid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

func (r *Repository) FetchUserByEmail(ctx context.Context, email string) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, SelectUserByEmail, strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

func (r *Repository) CreateUser(ctx context.Context, req user.User) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(
		ctx,
		InsertUser,
		req.UUID, strings.ToLower(req.Email), req.PasswordHash, req.Name,
	))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, user.ErrEmailAlreadyExists
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

func (r *Repository) SetAvatar(ctx context.Context, id user.UUID, avatar uuid.UUID) (*uuid.UUID, error) {
	var prev *uuid.UUID
	if err := r.db.QueryRow(ctx, UpdateUserAvatar, id, avatar).Scan(&prev); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}

	return prev, nil
}

func (r *Repository) DeleteUser(ctx context.Context, id user.UUID) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, DeleteUserByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u), nil
}
