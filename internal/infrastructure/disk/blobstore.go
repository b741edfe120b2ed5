package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"socialmedia-api/internal/application/ports"
	"socialmedia-api/internal/domain/media"
)

type BlobStore struct {
	root   string
	logger *zap.Logger
}

func New(logger *zap.Logger, root string) (ports.BlobStore, error) {
	if root == "" {
		return nil, fmt.Errorf("blob root is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob root: %w", err)
	}

	logger.Info("disk blob store ready", zap.String("root", root))

	return &BlobStore{root: root, logger: logger}, nil
}

func (s *BlobStore) Key(id media.ID) string { return media.BlobKey(id) }

func (s *BlobStore) path(id media.ID) string {
	return filepath.Join(s.root, filepath.FromSlash(media.BlobKey(id)))
}

// Put writes to a temp file next to the target and renames it into place, so
// readers never see a partial blob and a retried Put simply overwrites.
func (s *BlobStore) Put(ctx context.Context, id media.ID, r io.Reader, size int64, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := s.path(id)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create shard directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}

	n, err := io.Copy(tmp, r)
	if err != nil {
		cleanup()
		return fmt.Errorf("failed to write blob: %w", err)
	}
	if size >= 0 && n != size {
		cleanup()
		return fmt.Errorf("short blob write: got %d bytes, want %d", n, size)
	}
	if err = tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync blob: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close blob: %w", err)
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to move blob into place: %w", err)
	}

	return nil
}

func (s *BlobStore) Open(ctx context.Context, id media.ID) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("blob %s: %w", id, media.ErrMediaNotFound)
		}
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}

	return f, nil
}

func (s *BlobStore) Delete(ctx context.Context, id media.ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(s.path(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to remove blob: %w", err)
	}

	return nil
}
