package auth

import (
	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/api"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/config"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	controller *AuthController
	config     *config.Config
}

func NewAuthApi(controller *AuthController, config *config.Config) api.Route {
	return &AuthApi{
		controller: controller,
		config:     config,
	}
}

func (h *AuthApi) Setup(app *fiber.App) {
	app.Post("/api/auth/login", h.controller.Login)
	app.Post("/api/auth/register", h.controller.Register)
	app.Get("/api/auth/me", middleware.AuthMiddleware(h.config.SkipAuth), h.controller.Me)
}
