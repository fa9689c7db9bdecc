package persistent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/imagehub/imagehub/internal/entity"
	"github.com/imagehub/imagehub/pkg/postgres"
	"github.com/jackc/pgx/v5"
)

const (
	// Table
	imagesTable = "images"

	// Columns
	idColumn             = "id"
	originalNameColumn   = "original_name"
	mimeTypeColumn       = "mime_type"
	sizeBytesColumn      = "size_bytes"
	originalHeightColumn = "original_height"
	createdAtColumn      = "created_at"
	sizesColumn          = "sizes"
)

type ImageMetadataRepo struct {
	*postgres.Postgres
}

func NewImageMetadataRepo(pg *postgres.Postgres) *ImageMetadataRepo {
	return &ImageMetadataRepo{pg}
}

// Save is an upsert: Upload inserts the row, ExecuteResize re-persists
// the same aggregate with a grown sizes map.
func (r *ImageMetadataRepo) Save(ctx context.Context, image *entity.Image) error {
	sizes, err := json.Marshal(image.Sizes())
	if err != nil {
		return fmt.Errorf("ImageMetadataRepo - Save - json.Marshal: %w",
			entity.ErrRecordSaveFailed.WithCause(err))
	}

	sql, args, err := r.Builder.
		Insert(imagesTable).
		Columns(
			idColumn,
			originalNameColumn,
			mimeTypeColumn,
			sizeBytesColumn,
			originalHeightColumn,
			createdAtColumn,
			sizesColumn,
		).
		Values(
			image.ID,
			image.OriginalFileName,
			image.MimeType,
			image.SizeInBytes,
			image.OriginalHeight,
			image.CreatedAt,
			sizes,
		).
		Suffix(fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s", idColumn, sizesColumn, sizesColumn)).
		ToSql()
	if err != nil {
		return fmt.Errorf("ImageMetadataRepo - Save - r.Builder.ToSql: %w",
			entity.ErrRecordSaveFailed.WithCause(err))
	}

	_, err = r.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("ImageMetadataRepo - Save - r.Pool.Exec: %w",
			entity.ErrRecordSaveFailed.WithCause(err))
	}

	return nil
}

func (r *ImageMetadataRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Image, error) {
	sql, args, err := r.Builder.
		Select(
			idColumn,
			originalNameColumn,
			mimeTypeColumn,
			sizeBytesColumn,
			originalHeightColumn,
			createdAtColumn,
			sizesColumn,
		).
		From(imagesTable).
		Where(squirrel.Eq{idColumn: id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ImageMetadataRepo - GetByID - r.Builder.ToSql: %w",
			entity.ErrRecordRetrievalFailed(id).WithCause(err))
	}

	var (
		rowID          uuid.UUID
		originalName   string
		mimeType       string
		sizeBytes      int64
		originalHeight int
		createdAt      time.Time
		sizesData      []byte
	)

	err = r.Pool.QueryRow(ctx, sql, args...).Scan(
		&rowID,
		&originalName,
		&mimeType,
		&sizeBytes,
		&originalHeight,
		&createdAt,
		&sizesData,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ImageMetadataRepo - GetByID: %w", entity.ErrRecordNotFound(id))
		}
		return nil, fmt.Errorf("ImageMetadataRepo - GetByID - r.Pool.QueryRow: %w",
			entity.ErrRecordRetrievalFailed(id).WithCause(err))
	}

	var sizes map[string]string
	if err := json.Unmarshal(sizesData, &sizes); err != nil {
		return nil, fmt.Errorf("ImageMetadataRepo - GetByID - json.Unmarshal: %w",
			entity.ErrRecordRetrievalFailed(id).WithCause(err))
	}

	image, err := entity.FromPersistence(rowID, originalName, mimeType, sizeBytes, originalHeight, createdAt, sizes)
	if err != nil {
		return nil, fmt.Errorf("ImageMetadataRepo - GetByID - entity.FromPersistence: %w", err)
	}

	return image, nil
}

func (r *ImageMetadataRepo) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := r.Builder.
		Delete(imagesTable).
		Where(squirrel.Eq{idColumn: id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ImageMetadataRepo - Delete - r.Builder.ToSql: %w",
			entity.ErrRecordDeletionFailed(id).WithCause(err))
	}

	tag, err := r.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("ImageMetadataRepo - Delete - r.Pool.Exec: %w",
			entity.ErrRecordDeletionFailed(id).WithCause(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ImageMetadataRepo - Delete: %w", entity.ErrRecordNotFound(id))
	}

	return nil
}
