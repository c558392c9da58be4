package file

import (
	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/api"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/config"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/middleware"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"

	"github.com/gofiber/fiber/v2"
)

type FileApi struct {
	controller *FileController
	config     *config.Config
}

func NewFileApi(controller *FileController, config *config.Config) api.Route {
	return &FileApi{
		controller: controller,
		config:     config,
	}
}

func (h *FileApi) Setup(app *fiber.App) {
	group := app.Group("/api/files", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.List)
	group.Post("/upload", h.controller.Upload)
	group.Get("/:id", h.controller.Get)
	group.Put("/:id", h.controller.Update)
	group.Delete("/:id", h.controller.Delete)
	group.Get("/:id/download", h.controller.Download)

	moderate := middleware.RequireRoles(h.config.SkipAuth, models.RoleAdmin, models.RoleManager)
	group.Post("/:id/approve", moderate, h.controller.Approve)
	group.Post("/:id/reject", moderate, h.controller.Reject)
}
