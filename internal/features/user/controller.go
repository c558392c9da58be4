package user

import (
	"strconv"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/apperr"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UserController struct {
	service UserService
	logger  *zap.Logger
}

func NewUserController(service UserService, logger *zap.Logger) *UserController {
	return &UserController{
		service: service,
		logger:  logger,
	}
}

// List godoc
// @Summary List users with usage figures
// @Tags users
// @Produce json
// @Param limit query int false "Page size"
// @Param skip query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/users [get]
func (ctrl *UserController) List(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "50"), 10, 64)
	skip, _ := strconv.ParseInt(c.Query("skip", "0"), 10, 64)

	users, total, err := ctrl.service.List(c.UserContext(), limit, skip)
	if err != nil {
		return ctrl.fail(c, err, "user list failed")
	}

	return c.JSON(fiber.Map{"users": users, "total": total})
}

// Create godoc
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /api/admin/users [post]
func (ctrl *UserController) Create(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	actor, err := claims.ObjectID()
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var input CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if input.Email == "" || input.Password == "" || input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name, email and password are required"})
	}

	usr, err := ctrl.service.Create(c.UserContext(), actor, input)
	if err != nil {
		return ctrl.fail(c, err, "user create failed")
	}

	return c.Status(fiber.StatusCreated).JSON(usr)
}

// Update godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/users/{id} [put]
func (ctrl *UserController) Update(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	actor, err := claims.ObjectID()
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var input UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := ctrl.service.Update(c.UserContext(), actor, id, input); err != nil {
		return ctrl.fail(c, err, "user update failed")
	}

	return c.JSON(fiber.Map{"message": "User updated successfully"})
}

// Deactivate godoc
// @Summary Soft-delete a user
// @Tags users
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/users/{id} [delete]
func (ctrl *UserController) Deactivate(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	actor, err := claims.ObjectID()
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	if err := ctrl.service.Deactivate(c.UserContext(), actor, id); err != nil {
		return ctrl.fail(c, err, "user deactivate failed")
	}

	return c.JSON(fiber.Map{"message": "User deactivated"})
}

func (ctrl *UserController) fail(c *fiber.Ctx, err error, msg string) error {
	code := apperr.StatusCode(err)
	if code == fiber.StatusInternalServerError {
		ctrl.logger.Error(msg, zap.Error(err))
		return c.Status(code).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
