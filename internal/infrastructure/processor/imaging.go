package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/imagehub/imagehub/internal/entity"

	// webp decode registration; imaging pulls in png/jpeg/gif itself
	_ "golang.org/x/image/webp"
)

const webpQuality = 90

type ImageProcessor struct {
}

func New() *ImageProcessor {
	return &ImageProcessor{}
}

// Resize scales the source to targetHeight, preserving aspect ratio,
// and re-encodes it with the encoder for the source mime type. Target
// width is round(width * targetHeight / height).
func (p *ImageProcessor) Resize(ctx context.Context, mimeType string, data []byte, targetHeight int) ([]byte, error) {
	encode, err := encoder(mimeType)
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - Resize - encoder: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - Resize - imaging.Decode: %w",
			entity.ErrFileDecodeFailed.WithCause(err))
	}

	bounds := img.Bounds()
	ratio := float64(targetHeight) / float64(bounds.Dy())
	targetWidth := int(math.Round(float64(bounds.Dx()) * ratio))

	resized := imaging.Resize(img, targetWidth, targetHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := encode(&buf, resized); err != nil {
		return nil, fmt.Errorf("ImageProcessor - Resize - encode: %w", err)
	}

	return buf.Bytes(), nil
}

// Height reads just the header of the source to report its pixel
// height.
func (p *ImageProcessor) Height(data []byte) (int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("ImageProcessor - Height - image.DecodeConfig: %w",
			entity.ErrFileDecodeFailed.WithCause(err))
	}

	return cfg.Height, nil
}

// encoder is a fixed table: png, jpeg and webp. Anything else is a
// Validation-kind unsupported-type error, empty mime type included.
func encoder(mimeType string) (func(w io.Writer, img image.Image) error, error) {
	switch mimeType {
	case "image/png":
		return func(w io.Writer, img image.Image) error {
			return imaging.Encode(w, img, imaging.PNG)
		}, nil
	case "image/jpeg":
		return func(w io.Writer, img image.Image) error {
			return imaging.Encode(w, img, imaging.JPEG)
		}, nil
	case "image/webp":
		return func(w io.Writer, img image.Image) error {
			return webp.Encode(w, img, &webp.Options{Quality: webpQuality})
		}, nil
	default:
		return nil, entity.ErrUnsupportedMimeType(mimeType)
	}
}
