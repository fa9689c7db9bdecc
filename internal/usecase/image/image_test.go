package image_test

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/imagehub/imagehub/internal/dto"
	"github.com/imagehub/imagehub/internal/entity"
	"github.com/imagehub/imagehub/internal/usecase/image"
	"github.com/imagehub/imagehub/pkg/types/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testThumbnailHeight = 200
	testPreSignedTTL    = 15 * time.Minute
)

type nopLogger struct{}

func (nopLogger) Debug(message interface{}, args ...interface{}) {}
func (nopLogger) Info(message string, args ...interface{})       {}
func (nopLogger) Warn(message string, args ...interface{})       {}
func (nopLogger) Error(message interface{}, args ...interface{}) {}
func (nopLogger) Fatal(message interface{}, args ...interface{}) {}

type fakeStorage struct {
	mu sync.Mutex

	objects map[string][]byte
	deleted []string

	uploadErr   error
	downloadErr error
	listErr     error
	deleteErrs  map[string]error
	presignErr  error

	uploadCalls  int
	presignCalls int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte), deleteErrs: make(map[string]error)}
}

func (s *fakeStorage) Upload(_ context.Context, key, _, _ string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.uploadCalls++
	if s.uploadErr != nil {
		return "", s.uploadErr
	}

	s.objects[key] = data

	return key, nil
}

func (s *fakeStorage) DownloadBytes(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.downloadErr != nil {
		return nil, s.downloadErr
	}

	data, ok := s.objects[key]
	if !ok {
		return nil, entity.ErrFileRetrievalFailed(key)
	}

	return data, nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.deleteErrs[key]; ok {
		return err
	}

	delete(s.objects, key)
	s.deleted = append(s.deleted, key)

	return nil
}

func (s *fakeStorage) ListKeys(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listErr != nil {
		return nil, s.listErr
	}

	var keys []string
	for key := range s.objects {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

func (s *fakeStorage) PreSignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.presignCalls++
	if s.presignErr != nil {
		return "", s.presignErr
	}

	return "https://storage.test/" + key, nil
}

type fakeMetadata struct {
	images map[uuid.UUID]*entity.Image

	saveErr   error
	deleteErr error

	saveCalls   int
	deleteCalls int
}

func newFakeMetadata() *fakeMetadata {
	return &fakeMetadata{images: make(map[uuid.UUID]*entity.Image)}
}

func (m *fakeMetadata) Save(_ context.Context, image *entity.Image) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}

	m.images[image.ID] = image

	return nil
}

func (m *fakeMetadata) GetByID(_ context.Context, id uuid.UUID) (*entity.Image, error) {
	img, ok := m.images[id]
	if !ok {
		return nil, entity.ErrRecordNotFound(id)
	}

	return img, nil
}

func (m *fakeMetadata) Delete(_ context.Context, id uuid.UUID) error {
	m.deleteCalls++
	if m.deleteErr != nil {
		return m.deleteErr
	}

	delete(m.images, id)

	return nil
}

type fakeQueue struct {
	messages []dto.ResizeMessage
	err      error
}

func (q *fakeQueue) EnqueueResize(_ context.Context, message dto.ResizeMessage) error {
	if q.err != nil {
		return q.err
	}

	q.messages = append(q.messages, message)

	return nil
}

func (q *fakeQueue) Close() error { return nil }

type fakeProcessor struct {
	height    int
	heightErr error

	resized   []byte
	resizeErr error
}

func (p *fakeProcessor) Resize(_ context.Context, _ string, _ []byte, _ int) ([]byte, error) {
	if p.resizeErr != nil {
		return nil, p.resizeErr
	}

	return p.resized, nil
}

func (p *fakeProcessor) Height(_ []byte) (int, error) {
	if p.heightErr != nil {
		return 0, p.heightErr
	}

	return p.height, nil
}

type trackedReader struct {
	*bytes.Reader
	closes int
}

func (r *trackedReader) Close() error {
	r.closes++

	return nil
}

type fixture struct {
	storage   *fakeStorage
	metadata  *fakeMetadata
	queue     *fakeQueue
	processor *fakeProcessor
	uc        *image.ImageUseCase
}

func newFixture() *fixture {
	f := &fixture{
		storage:   newFakeStorage(),
		metadata:  newFakeMetadata(),
		queue:     &fakeQueue{},
		processor: &fakeProcessor{height: 1200, resized: []byte("resized-bytes")},
	}

	f.uc = image.New(
		f.storage, f.metadata, f.queue, f.processor,
		testThumbnailHeight, testPreSignedTTL, nopLogger{},
	)

	return f
}

// seed stores an already-ingested image so Get/RequestResize/Delete
// tests can start from a known aggregate.
func (f *fixture) seed(t *testing.T, fileName string, originalHeight int, extraHeights ...int) *entity.Image {
	t.Helper()

	img := entity.Create(fileName, "image/png", 2048, originalHeight)

	heights := append([]int{originalHeight}, extraHeights...)
	for _, h := range heights {
		key := image.StorageKey(img.ID, fileName, h)
		require.NoError(t, img.AddSize(strconv.Itoa(h), key))
		f.storage.objects[key] = []byte("blob-" + strconv.Itoa(h))
	}

	require.NoError(t, f.metadata.Save(context.Background(), img))
	f.metadata.saveCalls = 0

	return img
}

func TestUpload(t *testing.T) {
	f := newFixture()
	content := &trackedReader{Reader: bytes.NewReader([]byte("original-bytes"))}

	id, err := f.uc.Upload(context.Background(), dto.UploadImage{
		Content:     content,
		FileName:    "my cat.png",
		ContentType: "image/png",
		Size:        14,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	// the stream is closed exactly once
	assert.Equal(t, 1, content.closes)

	// original blob stored under the derived key
	wantKey := image.StorageKey(id, "my cat.png", 1200)
	assert.Equal(t, []byte("original-bytes"), f.storage.objects[wantKey])

	// aggregate persisted with exactly the original rendition recorded
	img, err := f.metadata.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1200": wantKey}, img.Sizes())
	assert.Equal(t, 1200, img.OriginalHeight)

	// exactly one thumbnail job scheduled
	require.Len(t, f.queue.messages, 1)
	assert.Equal(t, dto.ResizeMessage{ImageID: id, TargetHeight: testThumbnailHeight}, f.queue.messages[0])
}

func TestUploadUndecodableContent(t *testing.T) {
	f := newFixture()
	f.processor.heightErr = entity.ErrFileDecodeFailed

	content := &trackedReader{Reader: bytes.NewReader([]byte("not an image"))}

	_, err := f.uc.Upload(context.Background(), dto.UploadImage{
		Content:     content,
		FileName:    "junk.png",
		ContentType: "image/png",
		Size:        12,
	})

	require.ErrorIs(t, err, entity.ErrFileDecodeFailed)
	assert.Equal(t, 1, content.closes)
	assert.Zero(t, f.storage.uploadCalls)
	assert.Zero(t, f.metadata.saveCalls)
	assert.Empty(t, f.queue.messages)
}

func TestUploadStorageFailure(t *testing.T) {
	f := newFixture()
	f.storage.uploadErr = entity.ErrFileUploadFailed

	content := &trackedReader{Reader: bytes.NewReader([]byte("original-bytes"))}

	_, err := f.uc.Upload(context.Background(), dto.UploadImage{
		Content:     content,
		FileName:    "cat.png",
		ContentType: "image/png",
		Size:        14,
	})

	require.ErrorIs(t, err, entity.ErrFileUploadFailed)
	assert.Equal(t, 1, content.closes)

	// nothing persisted, nothing scheduled
	assert.Zero(t, f.metadata.saveCalls)
	assert.Empty(t, f.queue.messages)
}

func TestUploadEnqueueFailure(t *testing.T) {
	f := newFixture()
	f.queue.err = entity.ErrMessageEnqueueFailed(uuid.Nil)

	content := &trackedReader{Reader: bytes.NewReader([]byte("original-bytes"))}

	_, err := f.uc.Upload(context.Background(), dto.UploadImage{
		Content:     content,
		FileName:    "cat.png",
		ContentType: "image/png",
		Size:        14,
	})

	// the blob and record stay behind; there is no rollback
	require.Error(t, err)
	assert.Equal(t, 1, f.storage.uploadCalls)
	assert.Equal(t, 1, f.metadata.saveCalls)
}

func TestGet(t *testing.T) {
	f := newFixture()
	img := f.seed(t, "cat.png", 1200, 200)

	url, err := f.uc.Get(context.Background(), dto.GetImage{ID: img.ID, Height: 200})
	require.NoError(t, err)

	assert.Equal(t, "https://storage.test/"+image.StorageKey(img.ID, "cat.png", 200), url)
}

func TestGetDefaultsToOriginal(t *testing.T) {
	f := newFixture()
	img := f.seed(t, "cat.png", 1200)

	url, err := f.uc.Get(context.Background(), dto.GetImage{ID: img.ID, Height: 0})
	require.NoError(t, err)

	assert.Equal(t, "https://storage.test/"+image.StorageKey(img.ID, "cat.png", 1200), url)
}

func TestGetMissingRendition(t *testing.T) {
	f := newFixture()
	img := f.seed(t, "cat.png", 1200)

	_, err := f.uc.Get(context.Background(), dto.GetImage{ID: img.ID, Height: 9999})

	require.ErrorIs(t, err, entity.ErrFileNotFound(img.ID, 9999))
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	assert.Zero(t, f.storage.presignCalls)
}

func TestGetUnknownImage(t *testing.T) {
	f := newFixture()
	id := uuid.New()

	_, err := f.uc.Get(context.Background(), dto.GetImage{ID: id, Height: 200})

	require.ErrorIs(t, err, entity.ErrRecordNotFound(id))
	assert.Zero(t, f.storage.presignCalls)
}

func TestRequestResize(t *testing.T) {
	f := newFixture()
	img := f.seed(t, "cat.png", 1200)

	require.NoError(t, f.uc.RequestResize(context.Background(), dto.ResizeImage{ID: img.ID, Height: 600}))

	require.Len(t, f.queue.messages, 1)
	assert.Equal(t, dto.ResizeMessage{ImageID: img.ID, TargetHeight: 600}, f.queue.messages[0])
}

func TestRequestResizeInvalidHeight(t *testing.T) {
	f := newFixture()
	img := f.seed(t, "cat.png", 1200)

	for _, height := range []int{0, -1, 1201, 5000} {
		err := f.uc.RequestResize(context.Background(), dto.ResizeImage{ID: img.ID, Height: height})

		require.ErrorIs(t, err, entity.ErrInvalidHeight(height), "height %d", height)
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	}

	assert.Empty(t, f.queue.messages)
}

func TestRequestResizeExistingRendition(t *testing.T) {
	f := newFixture()
	img := f.seed(t, "cat.png", 1200, 200)

	// already rendered at 200: success, queue untouched
	require.NoError(t, f.uc.RequestResize(context.Background(), dto.ResizeImage{ID: img.ID, Height: 200}))
	assert.Empty(t, f.queue.messages)
}

func TestExecuteResize(t *testing.T) {
	f := newFixture()
	img := f.seed(t, "cat.png", 1200)

	message := dto.MessageWrapper{
		MessageID: "images.resize/0/42",
		Body:      dto.ResizeMessage{ImageID: img.ID, TargetHeight: 600},
	}

	require.NoError(t, f.uc.ExecuteResize(context.Background(), message))

	wantKey := image.StorageKey(img.ID, "cat.png", 600)
	assert.Equal(t, []byte("resized-bytes"), f.storage.objects[wantKey])

	stored, err := f.metadata.GetByID(context.Background(), img.ID)
	require.NoError(t, err)
	assert.Equal(t, wantKey, stored.Path(600))
}

func TestExecuteResizeRedelivery(t *testing.T) {
	f := newFixture()
	img := f.seed(t, "cat.png", 1200)

	message := dto.MessageWrapper{
		MessageID: "images.resize/0/42",
		Body:      dto.ResizeMessage{ImageID: img.ID, TargetHeight: 600},
	}

	require.NoError(t, f.uc.ExecuteResize(context.Background(), message))
	require.NoError(t, f.uc.ExecuteResize(context.Background(), message))

	// the second delivery overwrote the same blob and map entry
	stored, err := f.metadata.GetByID(context.Background(), img.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Sizes(), 2)
}

func TestExecuteResizeMissingOriginal(t *testing.T) {
	f := newFixture()

	// a record whose original blob entry is absent
	img := entity.Create("cat.png", "image/png", 2048, 1200)
	require.NoError(t, f.metadata.Save(context.Background(), img))

	err := f.uc.ExecuteResize(context.Background(), dto.MessageWrapper{
		MessageID: "images.resize/0/43",
		Body:      dto.ResizeMessage{ImageID: img.ID, TargetHeight: 600},
	})

	require.ErrorIs(t, err, entity.ErrFileNotFound(img.ID, 1200))
	assert.Zero(t, f.storage.uploadCalls)
}

func TestDelete(t *testing.T) {
	f := newFixture()
	img := f.seed(t, "cat.png", 1200, 600, 200)

	require.NoError(t, f.uc.Delete(context.Background(), img.ID))

	assert.Empty(t, f.storage.objects)
	assert.Len(t, f.storage.deleted, 3)

	_, err := f.metadata.GetByID(context.Background(), img.ID)
	require.ErrorIs(t, err, entity.ErrRecordNotFound(img.ID))
}

func TestDeleteUnknownImage(t *testing.T) {
	f := newFixture()
	id := uuid.New()

	err := f.uc.Delete(context.Background(), id)

	require.ErrorIs(t, err, entity.ErrRecordNotFound(id))
}

func TestDeletePartialFailure(t *testing.T) {
	f := newFixture()
	img := f.seed(t, "cat.png", 1200, 600, 200)

	failingKey := image.StorageKey(img.ID, "cat.png", 600)
	f.storage.deleteErrs[failingKey] = entity.ErrFileDeletionFailed(failingKey).WithCause(errors.New("timeout"))

	err := f.uc.Delete(context.Background(), img.ID)

	// the whole operation fails as one Validation-kind aggregate
	require.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))

	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, "Image.File.DeletionFailed", ve.Errors[0].Code)

	// the metadata record survives, so the delete can be retried
	assert.Zero(t, f.metadata.deleteCalls)
	_, getErr := f.metadata.GetByID(context.Background(), img.ID)
	require.NoError(t, getErr)
}

func TestDeleteWrapsNonCatalogueFailures(t *testing.T) {
	f := newFixture()
	img := f.seed(t, "cat.png", 1200)

	key := image.StorageKey(img.ID, "cat.png", 1200)
	f.storage.deleteErrs[key] = errors.New("raw transport error")

	err := f.uc.Delete(context.Background(), img.ID)

	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, "Image.File.DeletionFailed", ve.Errors[0].Code)
	assert.ErrorIs(t, ve.Errors[0], f.storage.deleteErrs[key])
}
