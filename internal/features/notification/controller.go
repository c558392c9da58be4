package notification

import (
	"strconv"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/apperr"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/middleware"
	"github.com/KaushikeeBhatt/file-tracking-system/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type NotificationController struct {
	service NotificationService
	logger  *zap.Logger
}

func NewNotificationController(service NotificationService, logger *zap.Logger) *NotificationController {
	return &NotificationController{
		service: service,
		logger:  logger,
	}
}

func (ctrl *NotificationController) caller(c *fiber.Ctx) (primitive.ObjectID, *utils.UserClaims, error) {
	claims, ok := middleware.Claims(c)
	if !ok {
		return primitive.NilObjectID, nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := claims.ObjectID()
	if err != nil {
		return primitive.NilObjectID, nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID")
	}
	return id, claims, nil
}

// List godoc
// @Summary List notifications for the current user
// @Tags notifications
// @Produce json
// @Param unreadOnly query bool false "Only unread"
// @Param limit query int false "Page size"
// @Param skip query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications [get]
func (ctrl *NotificationController) List(c *fiber.Ctx) error {
	caller, _, err := ctrl.caller(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.ParseInt(c.Query("limit", "0"), 10, 64)
	skip, _ := strconv.ParseInt(c.Query("skip", "0"), 10, 64)
	unreadOnly := c.Query("unreadOnly") == "true"

	notifications, total, err := ctrl.service.List(c.UserContext(), caller, unreadOnly, limit, skip)
	if err != nil {
		return ctrl.fail(c, err, "notification list failed")
	}

	return c.JSON(fiber.Map{"notifications": notifications, "total": total})
}

// UnreadCount godoc
// @Summary Unread notification count
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications/unread-count [get]
func (ctrl *NotificationController) UnreadCount(c *fiber.Ctx) error {
	caller, _, err := ctrl.caller(c)
	if err != nil {
		return err
	}

	count, err := ctrl.service.UnreadCount(c.UserContext(), caller)
	if err != nil {
		return ctrl.fail(c, err, "unread count failed")
	}

	return c.JSON(fiber.Map{"count": count})
}

// MarkRead godoc
// @Summary Mark a notification read
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications/{id}/read [put]
func (ctrl *NotificationController) MarkRead(c *fiber.Ctx) error {
	caller, _, err := ctrl.caller(c)
	if err != nil {
		return err
	}

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	if err := ctrl.service.MarkRead(c.UserContext(), id, caller); err != nil {
		return ctrl.fail(c, err, "mark read failed")
	}

	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// MarkAllRead godoc
// @Summary Mark every notification read
// @Tags notifications
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications/mark-all-read [post]
func (ctrl *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	caller, _, err := ctrl.caller(c)
	if err != nil {
		return err
	}

	modified, err := ctrl.service.MarkAllRead(c.UserContext(), caller)
	if err != nil {
		return ctrl.fail(c, err, "mark all read failed")
	}

	return c.JSON(fiber.Map{"modified": modified})
}

// Delete godoc
// @Summary Delete a notification
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications/{id} [delete]
func (ctrl *NotificationController) Delete(c *fiber.Ctx) error {
	caller, _, err := ctrl.caller(c)
	if err != nil {
		return err
	}

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	if err := ctrl.service.Delete(c.UserContext(), id, caller); err != nil {
		return ctrl.fail(c, err, "notification delete failed")
	}

	return c.JSON(fiber.Map{"message": "Notification deleted"})
}

// GetPreferences godoc
// @Summary Notification preferences
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications/preferences [get]
func (ctrl *NotificationController) GetPreferences(c *fiber.Ctx) error {
	caller, _, err := ctrl.caller(c)
	if err != nil {
		return err
	}

	prefs, err := ctrl.service.GetPreferences(c.UserContext(), caller)
	if err != nil {
		return ctrl.fail(c, err, "preference fetch failed")
	}

	return c.JSON(prefs)
}

// UpdatePreferences godoc
// @Summary Update notification preferences
// @Tags notifications
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications/preferences [put]
func (ctrl *NotificationController) UpdatePreferences(c *fiber.Ctx) error {
	caller, _, err := ctrl.caller(c)
	if err != nil {
		return err
	}

	var input PreferencesInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	prefs, err := ctrl.service.UpdatePreferences(c.UserContext(), caller, input)
	if err != nil {
		return ctrl.fail(c, err, "preference update failed")
	}

	return c.JSON(prefs)
}

func (ctrl *NotificationController) fail(c *fiber.Ctx, err error, msg string) error {
	code := apperr.StatusCode(err)
	if code == fiber.StatusInternalServerError {
		ctrl.logger.Error(msg, zap.Error(err))
		return c.Status(code).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
