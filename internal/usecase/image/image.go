package image

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/imagehub/imagehub/internal/dto"
	"github.com/imagehub/imagehub/internal/entity"
	"github.com/imagehub/imagehub/internal/infrastructure"
	"github.com/imagehub/imagehub/internal/repo"
	"github.com/imagehub/imagehub/pkg/logger"
	"github.com/imagehub/imagehub/pkg/types/errs"
)

type ImageUseCase struct {
	storage   repo.ImageStorage
	metadata  repo.ImageMetadataRepo
	queue     infrastructure.ResizeQueue
	processor infrastructure.ImageProcessor

	thumbnailHeight int
	preSignedTTL    time.Duration

	logger logger.Interface
}

func New(
	storage repo.ImageStorage,
	metadata repo.ImageMetadataRepo,
	queue infrastructure.ResizeQueue,
	processor infrastructure.ImageProcessor,
	thumbnailHeight int,
	preSignedTTL time.Duration,
	l logger.Interface,
) *ImageUseCase {
	return &ImageUseCase{
		storage:         storage,
		metadata:        metadata,
		queue:           queue,
		processor:       processor,
		thumbnailHeight: thumbnailHeight,
		preSignedTTL:    preSignedTTL,
		logger:          l,
	}
}

// Upload ingests a freshly uploaded image: stores the original bytes,
// persists the aggregate and schedules the thumbnail rendition. A
// failure after the blob upload leaves an orphaned blob and no metadata
// record; there is no compensating rollback.
func (uc *ImageUseCase) Upload(ctx context.Context, request dto.UploadImage) (uuid.UUID, error) {
	// the caller's stream is closed here exactly once, on every path
	defer request.Content.Close()

	data, err := io.ReadAll(request.Content)
	if err != nil {
		return uuid.Nil, fmt.Errorf("ImageUseCase - Upload - io.ReadAll: %w",
			entity.ErrFileReadFailed.WithCause(err))
	}

	// 1. decode to learn the original pixel height
	height, err := uc.processor.Height(data)
	if err != nil {
		return uuid.Nil, fmt.Errorf("ImageUseCase - Upload - uc.processor.Height: %w", err)
	}

	image := entity.Create(request.FileName, request.ContentType, request.Size, height)

	// 2. original bytes to blob storage
	key := StorageKey(image.ID, image.OriginalFileName, image.OriginalHeight)
	uploadedKey, err := uc.storage.Upload(ctx, key, image.OriginalFileName, image.MimeType, data)
	if err != nil {
		return uuid.Nil, fmt.Errorf("ImageUseCase - Upload - uc.storage.Upload: %w", err)
	}

	// 3. record the original rendition, persist the aggregate
	if err := image.AddSize(strconv.Itoa(image.OriginalHeight), uploadedKey); err != nil {
		return uuid.Nil, fmt.Errorf("ImageUseCase - Upload - image.AddSize: %w", err)
	}

	if err := uc.metadata.Save(ctx, image); err != nil {
		return uuid.Nil, fmt.Errorf("ImageUseCase - Upload - uc.metadata.Save: %w", err)
	}

	// 4. schedule the thumbnail rendition
	err = uc.queue.EnqueueResize(ctx, dto.ResizeMessage{
		ImageID:      image.ID,
		TargetHeight: uc.thumbnailHeight,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("ImageUseCase - Upload - uc.queue.EnqueueResize: %w", err)
	}

	uc.logger.Info("processed image '%s' with name '%s'", image.ID, request.FileName)

	return image.ID, nil
}

// Get resolves the rendition at the requested height to a time-limited
// access URL.
func (uc *ImageUseCase) Get(ctx context.Context, request dto.GetImage) (string, error) {
	image, err := uc.metadata.GetByID(ctx, request.ID)
	if err != nil {
		return "", fmt.Errorf("ImageUseCase - Get - uc.metadata.GetByID: %w", err)
	}

	path := image.Path(request.Height)
	if path == "" {
		return "", fmt.Errorf("ImageUseCase - Get: %w", entity.ErrFileNotFound(request.ID, request.Height))
	}

	url, err := uc.storage.PreSignedURL(ctx, path, uc.preSignedTTL)
	if err != nil {
		return "", fmt.Errorf("ImageUseCase - Get - uc.storage.PreSignedURL: %w", err)
	}

	return url, nil
}

// RequestResize validates the target height and enqueues a resize job.
// When the rendition already exists the call succeeds without touching
// the queue.
func (uc *ImageUseCase) RequestResize(ctx context.Context, request dto.ResizeImage) error {
	image, err := uc.metadata.GetByID(ctx, request.ID)
	if err != nil {
		return fmt.Errorf("ImageUseCase - RequestResize - uc.metadata.GetByID: %w", err)
	}

	if request.Height <= 0 || request.Height > image.OriginalHeight {
		return fmt.Errorf("ImageUseCase - RequestResize: %w", entity.ErrInvalidHeight(request.Height))
	}

	if image.Path(request.Height) != "" {
		uc.logger.Info("image '%s' already exists in height '%d' px", image.ID, request.Height)

		return nil
	}

	err = uc.queue.EnqueueResize(ctx, dto.ResizeMessage{
		ImageID:      image.ID,
		TargetHeight: request.Height,
	})
	if err != nil {
		return fmt.Errorf("ImageUseCase - RequestResize - uc.queue.EnqueueResize: %w", err)
	}

	return nil
}

// ExecuteResize produces the rendition a delivered queue message asks
// for. Safe to run twice for the same message: the storage key is a
// pure function of (id, fileName, height), so a re-run overwrites the
// same blob and re-records the same map entry.
func (uc *ImageUseCase) ExecuteResize(ctx context.Context, message dto.MessageWrapper) error {
	uc.logger.Info("processing message '%s', image '%s'", message.MessageID, message.Body.ImageID)

	image, err := uc.metadata.GetByID(ctx, message.Body.ImageID)
	if err != nil {
		return fmt.Errorf("ImageUseCase - ExecuteResize - uc.metadata.GetByID: %w", err)
	}

	// the original must exist; a hole here is a data-integrity failure
	originalPath := image.Path(image.OriginalHeight)
	if originalPath == "" {
		return fmt.Errorf("ImageUseCase - ExecuteResize: %w",
			entity.ErrFileNotFound(image.ID, image.OriginalHeight))
	}

	data, err := uc.storage.DownloadBytes(ctx, originalPath)
	if err != nil {
		return fmt.Errorf("ImageUseCase - ExecuteResize - uc.storage.DownloadBytes: %w", err)
	}

	resized, err := uc.processor.Resize(ctx, image.MimeType, data, message.Body.TargetHeight)
	if err != nil {
		return fmt.Errorf("ImageUseCase - ExecuteResize - uc.processor.Resize: %w", err)
	}

	key := StorageKey(image.ID, image.OriginalFileName, message.Body.TargetHeight)
	uploadedKey, err := uc.storage.Upload(ctx, key, image.OriginalFileName, image.MimeType, resized)
	if err != nil {
		return fmt.Errorf("ImageUseCase - ExecuteResize - uc.storage.Upload: %w", err)
	}

	if err := image.AddSize(strconv.Itoa(message.Body.TargetHeight), uploadedKey); err != nil {
		return fmt.Errorf("ImageUseCase - ExecuteResize - image.AddSize: %w", err)
	}

	if err := uc.metadata.Save(ctx, image); err != nil {
		return fmt.Errorf("ImageUseCase - ExecuteResize - uc.metadata.Save: %w", err)
	}

	uc.logger.Info("message '%s', image '%s' processed successfully", message.MessageID, message.Body.ImageID)

	return nil
}

// Delete removes every rendition blob and then the metadata record.
// Blob deletes fan out concurrently; if any of them fails, all failures
// are aggregated into one ValidationError and the metadata record is
// left in place, so the operation stays retryable.
func (uc *ImageUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := uc.metadata.GetByID(ctx, id); err != nil {
		return fmt.Errorf("ImageUseCase - Delete - uc.metadata.GetByID: %w", err)
	}

	prefix := StoragePrefix(id)

	keys, err := uc.storage.ListKeys(ctx, prefix)
	if err != nil {
		return fmt.Errorf("ImageUseCase - Delete - uc.storage.ListKeys: %w", err)
	}

	failures := make([]*errs.Error, len(keys))

	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()

			if err := uc.storage.Delete(ctx, key); err != nil {
				var de *errs.Error
				if !errors.As(err, &de) {
					de = entity.ErrFileDeletionFailed(key).WithCause(err)
				}
				failures[i] = de
			}
		}(i, key)
	}
	wg.Wait()

	var failed []*errs.Error
	for _, f := range failures {
		if f != nil {
			failed = append(failed, f)
		}
	}
	if len(failed) > 0 {
		uc.logger.Error(errs.NewValidationError(failed), "ImageUseCase - Delete - uc.storage.Delete")

		return fmt.Errorf("ImageUseCase - Delete: %w", errs.NewValidationError(failed))
	}

	if err := uc.metadata.Delete(ctx, id); err != nil {
		return fmt.Errorf("ImageUseCase - Delete - uc.metadata.Delete: %w", err)
	}

	return nil
}
