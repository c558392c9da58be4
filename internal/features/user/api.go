package user

import (
	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/api"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/config"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/middleware"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	config     *config.Config
}

func NewUserApi(controller *UserController, config *config.Config) api.Route {
	return &UserApi{
		controller: controller,
		config:     config,
	}
}

func (h *UserApi) Setup(app *fiber.App) {
	group := app.Group("/api/admin/users",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRoles(h.config.SkipAuth, models.RoleAdmin))

	group.Get("/", h.controller.List)
	group.Post("/", h.controller.Create)
	group.Put("/:id", h.controller.Update)
	group.Delete("/:id", h.controller.Deactivate)
}
