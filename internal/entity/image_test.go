package entity_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/imagehub/imagehub/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	img := entity.Create("cat.png", "image/png", 2048, 1200)

	assert.NotEqual(t, uuid.Nil, img.ID)
	assert.Equal(t, "cat.png", img.OriginalFileName)
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, int64(2048), img.SizeInBytes)
	assert.Equal(t, 1200, img.OriginalHeight)
	assert.WithinDuration(t, time.Now().UTC(), img.CreatedAt, time.Minute)
	assert.Empty(t, img.Sizes())
}

func TestAddSize(t *testing.T) {
	img := entity.Create("cat.png", "image/png", 2048, 1200)

	require.NoError(t, img.AddSize("1200", "images/a/1200/cat.png"))
	require.NoError(t, img.AddSize("200", "images/a/200/cat.png"))

	assert.Equal(t, "images/a/1200/cat.png", img.Path(1200))
	assert.Equal(t, "images/a/200/cat.png", img.Path(200))

	// same height overwrites
	require.NoError(t, img.AddSize("200", "images/a/200/other.png"))
	assert.Equal(t, "images/a/200/other.png", img.Path(200))
}

func TestAddSizeRejectsEmptyPath(t *testing.T) {
	img := entity.Create("cat.png", "image/png", 2048, 1200)

	require.ErrorIs(t, img.AddSize("200", ""), entity.ErrEmptyPath)
	assert.Empty(t, img.Sizes())
}

func TestPath(t *testing.T) {
	img := entity.Create("cat.png", "image/png", 2048, 1200)
	require.NoError(t, img.AddSize("1200", "images/a/1200/cat.png"))

	// zero and negative heights resolve the original rendition
	assert.Equal(t, "images/a/1200/cat.png", img.Path(0))
	assert.Equal(t, "images/a/1200/cat.png", img.Path(-5))
	assert.Equal(t, "images/a/1200/cat.png", img.Path(1200))

	// absent rendition is "", not an error
	assert.Equal(t, "", img.Path(9999))
}

func TestFromPersistence(t *testing.T) {
	id := uuid.New()
	createdAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	img, err := entity.FromPersistence(id, "cat.png", "image/png", 2048, 1200, createdAt, map[string]string{
		"1200": "images/a/1200/cat.png",
		"200":  "images/a/200/cat.png",
	})
	require.NoError(t, err)

	assert.Equal(t, id, img.ID)
	assert.Equal(t, createdAt, img.CreatedAt)
	assert.Equal(t, "images/a/200/cat.png", img.Path(200))
	assert.Len(t, img.Sizes(), 2)
}

func TestFromPersistenceRejectsEmptyPath(t *testing.T) {
	_, err := entity.FromPersistence(uuid.New(), "cat.png", "image/png", 2048, 1200, time.Now(), map[string]string{
		"200": "",
	})

	require.ErrorIs(t, err, entity.ErrEmptyPath)
}

func TestSizesReturnsCopy(t *testing.T) {
	img := entity.Create("cat.png", "image/png", 2048, 1200)
	require.NoError(t, img.AddSize("200", "images/a/200/cat.png"))

	sizes := img.Sizes()
	sizes["200"] = "tampered"
	sizes["999"] = "injected"

	assert.Equal(t, "images/a/200/cat.png", img.Path(200))
	assert.Len(t, img.Sizes(), 1)
}
