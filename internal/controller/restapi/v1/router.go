package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/imagehub/imagehub/internal/usecase"
	"github.com/imagehub/imagehub/pkg/logger"
)

func NewImageRoutes(apiGroup fiber.Router, img usecase.ImageUseCase, l logger.Interface) {
	r := &V1{img: img, logger: l}

	{
		apiGroup.Post("/images", r.uploadImage)
		apiGroup.Get("/images/:id", r.getImage)
		apiGroup.Post("/images/:id/resize", r.resizeImage)
		apiGroup.Delete("/images/:id", r.deleteImage)
	}
}
