package infrastructure

import (
	"context"

	"github.com/imagehub/imagehub/internal/dto"
)

type (
	// ResizeQueue schedules deferred rendition work. Delivery is
	// at-least-once; consumers must tolerate duplicates.
	ResizeQueue interface {
		EnqueueResize(ctx context.Context, message dto.ResizeMessage) error
		Close() error
	}

	// ImageProcessor produces a height-scaled re-encoded copy of an
	// image, preserving aspect ratio. Height decodes just enough of the
	// source to report its pixel height.
	ImageProcessor interface {
		Resize(ctx context.Context, mimeType string, data []byte, targetHeight int) ([]byte, error)
		Height(data []byte) (int, error)
	}
)
