package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"socialmedia-api/internal/domain/session"
	"socialmedia-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) session.Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateSession(ctx context.Context, req session.Session) (*session.Session, error) {
	s := new(session.Session)
	if err := r.db.QueryRow(ctx, InsertSession, req.ID, req.UserID, req.IP).Scan(
		&s.ID,
		&s.UserID,
		&s.IP,
		&s.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return s, nil
}

func (r *Repository) SessionExists(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, SelectSessionExists, id, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}

	return exists, nil
}

func (r *Repository) DeleteUserSessions(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, DeleteSessionsByUser, userID)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
