package image

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the metadata store contract the service depends on. The
// production implementation is PostgresRepository; tests substitute fakes.
type Repository interface {
	Insert(ctx context.Context, draft Draft) (*Image, error)
	GetByID(ctx context.Context, id int64) (*Image, error)
	ListRecent(ctx context.Context) ([]Image, error)
	Remove(ctx context.Context, id int64) error
}

// PostgresRepository handles all image metadata database operations.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgresRepository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert persists a draft and returns the full record with the assigned id
// and upload timestamp.
func (r *PostgresRepository) Insert(ctx context.Context, draft Draft) (*Image, error) {
	img := &Image{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO images (storage_key, original_name, content_type, size_bytes, storage_url, description)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, storage_key, original_name, content_type, size_bytes, storage_url, uploaded_at, description`,
		draft.StorageKey, draft.OriginalName, draft.ContentType, draft.SizeBytes, draft.StorageURL, draft.Description,
	).Scan(&img.ID, &img.StorageKey, &img.OriginalName, &img.ContentType, &img.SizeBytes, &img.StorageURL, &img.UploadedAt, &img.Description)
	if err != nil {
		return nil, fmt.Errorf("insert image: %w", err)
	}
	return img, nil
}

// GetByID fetches an image record by its id.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Image, error) {
	img := &Image{}
	err := r.db.QueryRow(ctx,
		`SELECT id, storage_key, original_name, content_type, size_bytes, storage_url, uploaded_at, description
		 FROM images WHERE id = $1`,
		id,
	).Scan(&img.ID, &img.StorageKey, &img.OriginalName, &img.ContentType, &img.SizeBytes, &img.StorageURL, &img.UploadedAt, &img.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get image by id: %w", err)
	}
	return img, nil
}

// ListRecent returns all image records, newest upload first. Records with
// equal timestamps keep their insertion order.
func (r *PostgresRepository) ListRecent(ctx context.Context) ([]Image, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, storage_key, original_name, content_type, size_bytes, storage_url, uploaded_at, description
		 FROM images ORDER BY uploaded_at DESC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.ID, &img.StorageKey, &img.OriginalName, &img.ContentType, &img.SizeBytes, &img.StorageURL, &img.UploadedAt, &img.Description); err != nil {
			return nil, fmt.Errorf("scan image row: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate image rows: %w", err)
	}
	return images, nil
}

// Remove deletes an image record. Removing an id that no longer exists
// returns ErrNotFound, which makes concurrent deletes of the same id safe.
func (r *PostgresRepository) Remove(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("remove image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
