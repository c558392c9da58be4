package saved_search

import (
	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/apperr"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type SavedSearchController struct {
	service SavedSearchService
	logger  *zap.Logger
}

func NewSavedSearchController(service SavedSearchService, logger *zap.Logger) *SavedSearchController {
	return &SavedSearchController{
		service: service,
		logger:  logger,
	}
}

func (ctrl *SavedSearchController) caller(c *fiber.Ctx) (primitive.ObjectID, error) {
	claims, ok := middleware.Claims(c)
	if !ok {
		return primitive.NilObjectID, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := claims.ObjectID()
	if err != nil {
		return primitive.NilObjectID, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID")
	}
	return id, nil
}

type saveRequest struct {
	SearchQuery string                 `json:"searchQuery"`
	Filters     map[string]interface{} `json:"filters"`
}

// Save godoc
// @Summary Save a search
// @Tags search
// @Accept json
// @Produce json
// @Success 201 {object} SavedSearch
// @Router /api/search/saved [post]
func (ctrl *SavedSearchController) Save(c *fiber.Ctx) error {
	caller, err := ctrl.caller(c)
	if err != nil {
		return err
	}

	var req saveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	saved, err := ctrl.service.Save(c.UserContext(), caller, req.SearchQuery, req.Filters)
	if err != nil {
		return ctrl.fail(c, err, "save search failed")
	}

	return c.Status(fiber.StatusCreated).JSON(saved)
}

// List godoc
// @Summary List saved searches
// @Tags search
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/search/saved [get]
func (ctrl *SavedSearchController) List(c *fiber.Ctx) error {
	caller, err := ctrl.caller(c)
	if err != nil {
		return err
	}

	searches, err := ctrl.service.List(c.UserContext(), caller)
	if err != nil {
		return ctrl.fail(c, err, "saved search list failed")
	}

	return c.JSON(fiber.Map{"searches": searches})
}

// Delete godoc
// @Summary Delete a saved search
// @Tags search
// @Param id path string true "Saved search ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/search/saved/{id} [delete]
func (ctrl *SavedSearchController) Delete(c *fiber.Ctx) error {
	caller, err := ctrl.caller(c)
	if err != nil {
		return err
	}

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	if err := ctrl.service.Delete(c.UserContext(), id, caller); err != nil {
		return ctrl.fail(c, err, "saved search delete failed")
	}

	return c.JSON(fiber.Map{"message": "Saved search deleted"})
}

func (ctrl *SavedSearchController) fail(c *fiber.Ctx, err error, msg string) error {
	code := apperr.StatusCode(err)
	if code == fiber.StatusInternalServerError {
		ctrl.logger.Error(msg, zap.Error(err))
		return c.Status(code).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
