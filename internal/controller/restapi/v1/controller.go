package v1

import (
	"github.com/imagehub/imagehub/internal/usecase"
	"github.com/imagehub/imagehub/pkg/logger"
)

type V1 struct {
	img    usecase.ImageUseCase
	logger logger.Interface
}
