package dto

import (
	"io"

	"github.com/google/uuid"
)

type UploadImage struct {
	Content     io.ReadCloser
	FileName    string
	ContentType string
	Size        int64
}

// Height <= 0 means "the original rendition".
type GetImage struct {
	ID     uuid.UUID
	Height int
}

type ResizeImage struct {
	ID     uuid.UUID
	Height int
}
