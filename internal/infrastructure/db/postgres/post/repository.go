package post

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"socialmedia-api/internal/domain/media"
	"socialmedia-api/internal/domain/post"
	"socialmedia-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) post.Repository {
	return &Repository{db: db}
}

func scanPost(row pgx.Row) (*Post, error) {
	p := new(Post)
	err := row.Scan(
		&p.ID,
		&p.Author,
		&p.Title,
		&p.Caption,
		&p.Photo,
		&p.Audio,
		&p.Visibility,

		&p.CreatedAt,
	)

	return p, err
}

func (r *Repository) CreatePost(ctx context.Context, req *post.Post) (*post.Post, error) {
	p, err := scanPost(r.db.QueryRow(
		ctx,
		InsertPost,
		req.ID,
		req.Author,
		req.Title,
		req.Caption,
		req.Photo,
		req.Audio,
		string(req.Visibility),
		req.CreatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	return fromDBModel(p), nil
}

func (r *Repository) FetchPostByID(ctx context.Context, id post.ID) (*post.Post, error) {
	p, err := scanPost(r.db.QueryRow(ctx, SelectPostByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, post.ErrPostNotFound
		}
		return nil, err
	}

	return fromDBModel(p), nil
}

func (r *Repository) FetchPostsByAuthor(ctx context.Context, author uuid.UUID) (post.Posts, error) {
	rows, err := r.db.Query(ctx, SelectPostsByAuthor, author)
	if err != nil {
		return nil, err
	}

	return scanPosts(rows)
}

func (r *Repository) ListPostsByAuthor(ctx context.Context, author uuid.UUID, q post.ListQuery) (post.Posts, error) {
	visibilities := make([]string, 0, 2)
	for _, v := range q.Visibilities() {
		visibilities = append(visibilities, string(v))
	}

	rows, err := r.db.Query(ctx, SelectPostsPageByAuthor, author, q.Before, visibilities, q.Offset, q.Limit)
	if err != nil {
		return nil, err
	}

	return scanPosts(rows)
}

func scanPosts(rows pgx.Rows) (post.Posts, error) {
	defer rows.Close()

	var ps Posts
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(ps), nil
}

// UpdateVisibility changes the post only when author wrote it.
func (r *Repository) UpdateVisibility(ctx context.Context, id post.ID, author uuid.UUID, v media.Visibility) (*post.Post, error) {
	p, err := scanPost(r.db.QueryRow(ctx, UpdatePostVisibility, string(v), id, author))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, post.ErrPostNotFound
		}
		return nil, err
	}

	return fromDBModel(p), nil
}

// DeletePost removes the post only when author wrote it.
func (r *Repository) DeletePost(ctx context.Context, id post.ID, author uuid.UUID) (*post.Post, error) {
	p, err := scanPost(r.db.QueryRow(ctx, DeletePostByIDAndAuthor, id, author))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, post.ErrPostNotFound
		}
		return nil, err
	}

	return fromDBModel(p), nil
}
