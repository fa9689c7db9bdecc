package entity

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Image is the aggregate root for one uploaded picture and every
// rendition derived from it. The sizes map (height rendered as a string
// key -> storage key) is owned exclusively by the aggregate: renditions
// are recorded through AddSize and never removed.
type Image struct {
	ID               uuid.UUID
	OriginalFileName string
	MimeType         string
	SizeInBytes      int64
	OriginalHeight   int
	CreatedAt        time.Time

	sizes map[string]string
}

func Create(fileName, mimeType string, sizeInBytes int64, height int) *Image {
	return &Image{
		ID:               uuid.New(),
		OriginalFileName: fileName,
		MimeType:         mimeType,
		SizeInBytes:      sizeInBytes,
		OriginalHeight:   height,
		CreatedAt:        time.Now().UTC(),
		sizes:            make(map[string]string),
	}
}

// FromPersistence rehydrates an aggregate from a stored record. The
// sizes map is replayed through AddSize so any rule enforced there
// applies to persisted entries too.
func FromPersistence(
	id uuid.UUID,
	fileName string,
	mimeType string,
	sizeInBytes int64,
	height int,
	createdAt time.Time,
	sizes map[string]string,
) (*Image, error) {
	image := &Image{
		ID:               id,
		OriginalFileName: fileName,
		MimeType:         mimeType,
		SizeInBytes:      sizeInBytes,
		OriginalHeight:   height,
		CreatedAt:        createdAt,
		sizes:            make(map[string]string, len(sizes)),
	}

	for height, path := range sizes {
		if err := image.AddSize(height, path); err != nil {
			return nil, err
		}
	}

	return image, nil
}

// AddSize records the storage key of a rendition, overwriting any
// previous entry for the same height.
func (i *Image) AddSize(height, path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	i.sizes[height] = path

	return nil
}

// Path returns the storage key of the rendition at requestedHeight, or
// "" when none exists. A height <= 0 resolves the original rendition.
// Absence is not an error here; the caller decides whether it is.
func (i *Image) Path(requestedHeight int) string {
	if requestedHeight <= 0 {
		requestedHeight = i.OriginalHeight
	}

	return i.sizes[strconv.Itoa(requestedHeight)]
}

// Sizes returns a copy of the renditions map.
func (i *Image) Sizes() map[string]string {
	sizes := make(map[string]string, len(i.sizes))
	for height, path := range i.sizes {
		sizes[height] = path
	}

	return sizes
}
