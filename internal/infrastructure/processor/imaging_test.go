package processor_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/imagehub/imagehub/internal/entity"
	"github.com/imagehub/imagehub/internal/infrastructure/processor"
	"github.com/imagehub/imagehub/pkg/types/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "png", format)

	return cfg.Width, cfg.Height
}

func TestResize(t *testing.T) {
	p := processor.New()

	out, err := p.Resize(context.Background(), "image/png", encodePNG(t, 300, 200), 100)
	require.NoError(t, err)

	width, height := decodeSize(t, out)
	assert.Equal(t, 150, width)
	assert.Equal(t, 100, height)
}

func TestResizeRoundsWidth(t *testing.T) {
	p := processor.New()

	// 101 * 12 / 37 = 32.756..., rounded to 33
	out, err := p.Resize(context.Background(), "image/png", encodePNG(t, 101, 37), 12)
	require.NoError(t, err)

	width, height := decodeSize(t, out)
	assert.Equal(t, 33, width)
	assert.Equal(t, 12, height)
}

func TestResizeUnsupportedMimeType(t *testing.T) {
	p := processor.New()

	for _, mimeType := range []string{"image/gif", "application/pdf", ""} {
		_, err := p.Resize(context.Background(), mimeType, encodePNG(t, 10, 10), 5)

		require.ErrorIs(t, err, entity.ErrUnsupportedMimeType(mimeType), "mime type %q", mimeType)
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	}
}

func TestResizeCorruptData(t *testing.T) {
	p := processor.New()

	_, err := p.Resize(context.Background(), "image/png", []byte("not an image"), 100)

	require.ErrorIs(t, err, entity.ErrFileDecodeFailed)
	assert.Equal(t, errs.KindFailure, errs.KindOf(err))
}

func TestHeight(t *testing.T) {
	p := processor.New()

	height, err := p.Height(encodePNG(t, 300, 200))
	require.NoError(t, err)

	assert.Equal(t, 200, height)
}

func TestHeightCorruptData(t *testing.T) {
	p := processor.New()

	_, err := p.Height([]byte("not an image"))

	require.ErrorIs(t, err, entity.ErrFileDecodeFailed)
}
