package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"socialmedia-api/internal/domain/media"
	"socialmedia-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) media.Repository {
	return &Repository{db: db}
}

func scanMedia(row pgx.Row) (*Media, error) {
	m := new(Media)
	err := row.Scan(
		&m.ID,
		&m.UploadedBy,
		&m.Format,
		&m.Status,
		&m.Visibility,

		&m.MimeType,
		&m.FileName,
		&m.SizeBytes,
	)

	return m, err
}

func scanIDs(rows pgx.Rows) ([]media.ID, error) {
	defer rows.Close()

	var ids []media.ID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *Repository) CreateMedia(ctx context.Context, req *media.Media) (*media.Media, error) {
	m, err := scanMedia(r.db.QueryRow(
		ctx,
		InsertMedia,
		req.ID,
		req.UploadedBy,
		string(req.Format),
		string(media.StatusWaiting),
		string(media.VisibilityPrivate),
		req.MimeType,
		req.FileName,
		req.SizeBytes,
	))
	if err != nil {
		return nil, fmt.Errorf("insert media: %w", err)
	}

	return fromDBModel(m), nil
}

func (r *Repository) FetchMediaByID(ctx context.Context, id media.ID) (*media.Media, error) {
	m, err := scanMedia(r.db.QueryRow(ctx, SelectMediaByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, media.ErrMediaNotFound
		}
		return nil, err
	}

	return fromDBModel(m), nil
}

func (r *Repository) FetchMediaByUploader(ctx context.Context, uploader uuid.UUID) (media.MediaList, error) {
	rows, err := r.db.Query(ctx, SelectMediaByUploader, uploader)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ml MediaList
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		ml = append(ml, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(ml), nil
}

// Claim moves the one record matching f to assigned in a single statement,
// so two concurrent claimants can never both succeed.
func (r *Repository) Claim(ctx context.Context, f media.ClaimFilter) (*media.Media, error) {
	where, args := compileFilters([]media.ClaimFilter{f}, 1)
	sql := ClaimMedia + where + " RETURNING " + mediaColumns

	m, err := scanMedia(r.db.QueryRow(ctx, sql, append([]any{string(media.StatusAssigned)}, args...)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, media.ErrMediaNotFound
		}
		return nil, fmt.Errorf("claim media: %w", err)
	}

	return fromDBModel(m), nil
}

// ClaimMany claims every record matched by any of fs and returns the ids it
// actually transitioned.
func (r *Repository) ClaimMany(ctx context.Context, fs []media.ClaimFilter) ([]media.ID, error) {
	if len(fs) == 0 {
		return nil, nil
	}
	where, args := compileFilters(fs, 1)
	sql := ClaimMedia + where + " RETURNING id"

	rows, err := r.db.Query(ctx, sql, append([]any{string(media.StatusAssigned)}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("claim media: %w", err)
	}

	return scanIDs(rows)
}

func (r *Repository) Unclaim(ctx context.Context, ids ...media.ID) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.db.Exec(ctx, UnclaimMedia, string(media.StatusWaiting), ids); err != nil {
		return fmt.Errorf("unclaim media: %w", err)
	}

	return nil
}

func (r *Repository) SetVisibility(ctx context.Context, v media.Visibility, ids ...media.ID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, UpdateMediaVisibility, string(v), ids)

	return err
}

func (r *Repository) DeleteMedia(ctx context.Context, id media.ID) error {
	_, err := r.db.Exec(ctx, DeleteMediaByID, id)
	return err
}

func (r *Repository) DeleteMediaByUploader(ctx context.Context, uploader uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, DeleteMediaByUploader, uploader)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (r *Repository) FetchExpiredWaiting(ctx context.Context, after, before media.ID, limit int) ([]media.ID, error) {
	rows, err := r.db.Query(ctx, SelectExpiredWaiting, string(media.StatusWaiting), after, before, limit)
	if err != nil {
		return nil, err
	}

	return scanIDs(rows)
}

// DeleteWaiting removes id only if nobody claimed it in the meantime.
func (r *Repository) DeleteWaiting(ctx context.Context, id media.ID) (bool, error) {
	tag, err := r.db.Exec(ctx, DeleteWaitingByID, id, string(media.StatusWaiting))
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

func (r *Repository) FetchUnreferencedAssigned(ctx context.Context, after, before media.ID, limit int) ([]media.ID, error) {
	rows, err := r.db.Query(ctx, SelectUnreferencedAssigned, string(media.StatusAssigned), after, before, limit)
	if err != nil {
		return nil, err
	}

	return scanIDs(rows)
}

func (r *Repository) DeleteUnreferenced(ctx context.Context, id media.ID) (bool, error) {
	tag, err := r.db.Exec(ctx, DeleteUnreferencedByID, id, string(media.StatusAssigned))
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}
