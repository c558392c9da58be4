package admin

import (
	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/apperr"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/file"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/middleware"
	"github.com/KaushikeeBhatt/file-tracking-system/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AdminController struct {
	service AdminService
	files   file.FileService
	logger  *zap.Logger
}

func NewAdminController(service AdminService, files file.FileService, logger *zap.Logger) *AdminController {
	return &AdminController{
		service: service,
		files:   files,
		logger:  logger,
	}
}

// Stats godoc
// @Summary System dashboard figures
// @Tags admin
// @Produce json
// @Success 200 {object} SystemStats
// @Router /api/admin/stats [get]
func (ctrl *AdminController) Stats(c *fiber.Ctx) error {
	stats, err := ctrl.service.Stats(c.UserContext())
	if err != nil {
		return ctrl.fail(c, err, "admin stats failed")
	}
	return c.JSON(stats)
}

// Analytics godoc
// @Summary 30 day trends and distributions
// @Tags admin
// @Produce json
// @Success 200 {object} Analytics
// @Router /api/admin/analytics [get]
func (ctrl *AdminController) Analytics(c *fiber.Ctx) error {
	analytics, err := ctrl.service.Analytics(c.UserContext())
	if err != nil {
		return ctrl.fail(c, err, "admin analytics failed")
	}
	return c.JSON(analytics)
}

type bulkRequest struct {
	FileIDs []string `json:"fileIds"`
}

func (req bulkRequest) objectIDs() ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(req.FileIDs))
	for _, raw := range req.FileIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (ctrl *AdminController) claims(c *fiber.Ctx) (*utils.UserClaims, error) {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return claims, nil
}

// BulkApprove godoc
// @Summary Approve several pending files at once
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/files/bulk-approve [post]
func (ctrl *AdminController) BulkApprove(c *fiber.Ctx) error {
	claims, err := ctrl.claims(c)
	if err != nil {
		return err
	}

	var req bulkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	ids, err := req.objectIDs()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid file id"})
	}

	approved, err := ctrl.files.BulkApprove(c.UserContext(), claims, ids)
	if err != nil {
		return ctrl.fail(c, err, "bulk approve failed")
	}

	return c.JSON(fiber.Map{"approved": approved})
}

// BulkDelete godoc
// @Summary Archive several files at once
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/files/bulk-delete [post]
func (ctrl *AdminController) BulkDelete(c *fiber.Ctx) error {
	claims, err := ctrl.claims(c)
	if err != nil {
		return err
	}

	var req bulkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	ids, err := req.objectIDs()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid file id"})
	}

	deleted, err := ctrl.files.BulkDelete(c.UserContext(), claims, ids)
	if err != nil {
		return ctrl.fail(c, err, "bulk delete failed")
	}

	return c.JSON(fiber.Map{"deleted": deleted})
}

func (ctrl *AdminController) fail(c *fiber.Ctx, err error, msg string) error {
	code := apperr.StatusCode(err)
	if code == fiber.StatusInternalServerError {
		ctrl.logger.Error(msg, zap.Error(err))
		return c.Status(code).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
