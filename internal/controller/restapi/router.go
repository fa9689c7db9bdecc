package restapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/imagehub/imagehub/config"
	v1 "github.com/imagehub/imagehub/internal/controller/restapi/v1"
	"github.com/imagehub/imagehub/internal/usecase"
	"github.com/imagehub/imagehub/pkg/logger"
)

// @title ImageHub
// @version 1.0.0
// @host localhost:8080
// @BasePath /api
func NewRouter(app *fiber.App, cfg *config.Config, img usecase.ImageUseCase, l logger.Interface) {
	// Swagger
	if cfg.Swagger.Enabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// Routers
	apiGroup := app.Group("/api")
	{
		v1.NewImageRoutes(apiGroup, img, l)
	}
}
