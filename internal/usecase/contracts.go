package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/imagehub/imagehub/internal/dto"
)

type (
	// ImageUseCase sequences the ingestion/resize pipeline across blob
	// storage, the metadata store and the resize queue. Each operation
	// runs its steps in order and returns the first failing step's
	// error; completed steps are not rolled back.
	ImageUseCase interface {
		Upload(ctx context.Context, request dto.UploadImage) (uuid.UUID, error)
		Get(ctx context.Context, request dto.GetImage) (string, error)
		RequestResize(ctx context.Context, request dto.ResizeImage) error
		ExecuteResize(ctx context.Context, message dto.MessageWrapper) error
		Delete(ctx context.Context, id uuid.UUID) error
	}
)
