package notification

import (
	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/api"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/config"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/middleware"
	"github.com/KaushikeeBhatt/file-tracking-system/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type NotificationApi struct {
	controller *NotificationController
	hub        *Hub
	config     *config.Config
	logger     *zap.Logger
}

func NewNotificationApi(controller *NotificationController, hub *Hub, config *config.Config, logger *zap.Logger) api.Route {
	return &NotificationApi{
		controller: controller,
		hub:        hub,
		config:     config,
		logger:     logger,
	}
}

func (h *NotificationApi) Setup(app *fiber.App) {
	group := app.Group("/api/notifications", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.List)
	group.Get("/unread-count", h.controller.UnreadCount)
	group.Post("/mark-all-read", h.controller.MarkAllRead)
	group.Get("/preferences", h.controller.GetPreferences)
	group.Put("/preferences", h.controller.UpdatePreferences)
	group.Put("/:id/read", h.controller.MarkRead)
	group.Delete("/:id", h.controller.Delete)

	// Browsers cannot set Authorization headers on websocket upgrades,
	// so the token rides in the query string instead.
	app.Use("/api/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		claims, err := utils.ValidateToken(c.Query("token"))
		if err != nil {
			return fiber.ErrUnauthorized
		}
		c.Locals("ws_user_id", claims.UserID)
		return c.Next()
	})

	app.Get("/api/ws/notifications", websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("ws_user_id").(string)
		if userID == "" {
			conn.Close()
			return
		}

		h.hub.Register(userID, conn)
		defer h.hub.Unregister(userID, conn)

		// Drain the connection until the client hangs up. Pushes are
		// server-to-client only.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}
