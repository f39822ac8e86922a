package image

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/piclens/service/internal/storage"
)

// Service sequences image uploads and deletions across the storage backend
// and the metadata store, keeping the two consistent under partial failure.
type Service struct {
	repo    Repository
	backend storage.Backend
	log     *zap.Logger
}

// NewService creates a new image Service.
func NewService(repo Repository, backend storage.Backend, log *zap.Logger) *Service {
	return &Service{repo: repo, backend: backend, log: log}
}

// DeleteResult reports the outcome of a successful deletion. Warning is set
// when the backend object could not be removed; the metadata record is gone
// either way.
type DeleteResult struct {
	BackendDeleted bool   `json:"backendDeleted"`
	Warning        string `json:"warning,omitempty"`
}

// Upload validates the upload, writes the bytes to the backend under a fresh
// storage key, and then inserts the metadata record. Bytes are written before
// metadata so a listed record always has backing bytes; the reverse gap
// (bytes without a record) is tolerated and invisible to listing.
//
// On metadata failure the just-written object is deleted best-effort; a
// failure of that cleanup is logged only, and the caller still receives the
// metadata error.
func (s *Service) Upload(ctx context.Context, r io.Reader, size int64, name, contentType string, description *string) (*Image, error) {
	if err := ValidateUpload(size, name); err != nil {
		return nil, err
	}

	key := NewStorageKey(name)

	url, err := s.backend.Upload(ctx, key, r, size, contentType)
	if err != nil {
		s.log.Error("backend upload failed",
			zap.String("key", key),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	img, err := s.repo.Insert(ctx, Draft{
		StorageKey:   key,
		OriginalName: name,
		ContentType:  contentType,
		SizeBytes:    size,
		StorageURL:   url,
		Description:  description,
	})
	if err != nil {
		s.log.Error("metadata insert failed",
			zap.String("key", key),
			zap.Error(err))
		// Compensating delete so the key does not become an orphan. Its own
		// failure is logged, not escalated: the reported error stays the
		// metadata one.
		if _, delErr := s.backend.Delete(ctx, key); delErr != nil {
			s.log.Warn("compensating delete failed, object orphaned",
				zap.String("key", key),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("%w: %w", ErrMetadata, err)
	}

	s.log.Info("image uploaded",
		zap.Int64("id", img.ID),
		zap.String("key", key),
		zap.Int64("size", size))
	return img, nil
}

// GetByID returns a single image record.
func (s *Service) GetByID(ctx context.Context, id int64) (*Image, error) {
	return s.repo.GetByID(ctx, id)
}

// ListRecent returns all image records, newest first.
func (s *Service) ListRecent(ctx context.Context) ([]Image, error) {
	imgs, err := s.repo.ListRecent(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMetadata, err)
	}
	return imgs, nil
}

// Delete removes an image: backend bytes first, then the metadata record.
// A backend failure is downgraded to a warning and never blocks metadata
// removal — a dangling user-visible record is worse than an orphaned object.
// A metadata removal failure is a hard error.
func (s *Service) Delete(ctx context.Context, id int64) (*DeleteResult, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrMetadata, err)
	}

	res := &DeleteResult{}
	existed, err := s.backend.Delete(ctx, img.StorageKey)
	if err != nil {
		s.log.Warn("backend delete failed, removing metadata anyway",
			zap.Int64("id", id),
			zap.String("key", img.StorageKey),
			zap.Error(err))
		res.Warning = "image record removed, but its stored bytes could not be deleted"
	} else {
		res.BackendDeleted = existed
	}

	if err := s.repo.Remove(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.Error("metadata remove failed",
			zap.Int64("id", id),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrMetadata, err)
	}

	s.log.Info("image deleted",
		zap.Int64("id", id),
		zap.String("key", img.StorageKey))
	return res, nil
}
