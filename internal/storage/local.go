package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// LocalBackend implements Backend on a plain filesystem directory. It is the
// fallback when no object storage credentials are configured, which keeps
// local development free of external services.
type LocalBackend struct {
	root         string
	publicPrefix string
}

// NewLocalBackend ensures root exists and returns a LocalBackend that serves
// its objects under publicPrefix.
func NewLocalBackend(root, publicPrefix string, log *zap.Logger) (*LocalBackend, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root %q: %w", root, err)
	}
	log.Info("storage root ready", zap.String("dir", root))
	return &LocalBackend{
		root:         root,
		publicPrefix: strings.TrimRight(publicPrefix, "/"),
	}, nil
}

// Root returns the directory objects are written to, for static file serving.
func (b *LocalBackend) Root() string {
	return b.root
}

// Upload streams r into a file named key under the storage root. Keys are
// opaque tokens generated by the caller and never contain path separators.
func (b *LocalBackend) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(b.root, key)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file %q: %w", path, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("write file %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close file %q: %w", path, err)
	}

	return b.PublicURL(key), nil
}

// Delete removes the file for key. A key that was never written resolves to
// (false, nil).
func (b *LocalBackend) Delete(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	err := os.Remove(filepath.Join(b.root, key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove file %q: %w", key, err)
	}
	return true, nil
}

// PublicURL returns the serving path for key, e.g. "/uploads/uuid.jpg".
func (b *LocalBackend) PublicURL(key string) string {
	return b.publicPrefix + "/" + key
}
