package audit

import (
	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/api"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/config"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/middleware"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller *AuditController
	config     *config.Config
}

func NewAuditApi(controller *AuditController, config *config.Config) api.Route {
	return &AuditApi{
		controller: controller,
		config:     config,
	}
}

func (h *AuditApi) Setup(app *fiber.App) {
	group := app.Group("/api/audit", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/logs", h.controller.List)
	group.Get("/stats", h.controller.Stats)
	group.Get("/export",
		middleware.RequireRoles(h.config.SkipAuth, models.RoleAdmin, models.RoleManager),
		h.controller.Export)
}
