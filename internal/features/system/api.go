package system

import (
	"time"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/api"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	_ "github.com/KaushikeeBhatt/file-tracking-system/docs"
)

type SystemApi struct {
	db *database.MongodbDB
}

func NewSystemApi(db *database.MongodbDB) api.Route {
	return &SystemApi{db: db}
}

func (h *SystemApi) Setup(app *fiber.App) {
	app.Get("/api/health", h.health)
	app.Get("/swagger/*", swagger.HandlerDefault)
}

// health godoc
// @Summary Liveness and database connectivity
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/health [get]
func (h *SystemApi) health(c *fiber.Ctx) error {
	status := "ok"
	code := fiber.StatusOK
	if err := h.db.DB.Client().Ping(c.UserContext(), nil); err != nil {
		status = "degraded"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"time":   time.Now().UTC(),
	})
}
