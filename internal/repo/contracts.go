package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/imagehub/imagehub/internal/entity"
)

type (
	// ImageStorage is the blob store holding rendition bytes. Every
	// implementation translates its transport errors into errs errors;
	// none of them leak raw SDK failures into the use-case layer.
	ImageStorage interface {
		Upload(ctx context.Context, key, fileName, contentType string, data []byte) (string, error)
		DownloadBytes(ctx context.Context, key string) ([]byte, error)
		Delete(ctx context.Context, key string) error
		ListKeys(ctx context.Context, prefix string) ([]string, error)
		PreSignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	}

	// ImageMetadataRepo persists the aggregate. GetByID reports absence
	// as a NotFound-kind error, not as a nil record.
	ImageMetadataRepo interface {
		Save(ctx context.Context, image *entity.Image) error
		GetByID(ctx context.Context, id uuid.UUID) (*entity.Image, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}
)
