package saved_search

import (
	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/api"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/config"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SavedSearchApi struct {
	controller *SavedSearchController
	config     *config.Config
}

func NewSavedSearchApi(controller *SavedSearchController, config *config.Config) api.Route {
	return &SavedSearchApi{
		controller: controller,
		config:     config,
	}
}

func (h *SavedSearchApi) Setup(app *fiber.App) {
	group := app.Group("/api/search/saved", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.List)
	group.Post("/", h.controller.Save)
	group.Delete("/:id", h.controller.Delete)
}
