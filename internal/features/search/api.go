package search

import (
	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/api"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/config"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SearchApi struct {
	controller *SearchController
	config     *config.Config
}

func NewSearchApi(controller *SearchController, config *config.Config) api.Route {
	return &SearchApi{
		controller: controller,
		config:     config,
	}
}

func (h *SearchApi) Setup(app *fiber.App) {
	group := app.Group("/api/search", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.Search)
	group.Get("/suggestions", h.controller.Suggestions)
	group.Get("/analytics", h.controller.Analytics)
}
