package admin

import (
	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/api"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/config"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/middleware"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AdminApi struct {
	controller *AdminController
	config     *config.Config
}

func NewAdminApi(controller *AdminController, config *config.Config) api.Route {
	return &AdminApi{
		controller: controller,
		config:     config,
	}
}

func (h *AdminApi) Setup(app *fiber.App) {
	group := app.Group("/api/admin",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRoles(h.config.SkipAuth, models.RoleAdmin, models.RoleManager))

	group.Get("/stats", h.controller.Stats)
	group.Get("/analytics", h.controller.Analytics)
	group.Post("/files/bulk-approve", h.controller.BulkApprove)
	group.Post("/files/bulk-delete", h.controller.BulkDelete)
}
