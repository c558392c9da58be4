package audit

import (
	"fmt"
	"strconv"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/apperr"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuditController struct {
	service AuditService
	logger  *zap.Logger
}

func NewAuditController(service AuditService, logger *zap.Logger) *AuditController {
	return &AuditController{
		service: service,
		logger:  logger,
	}
}

func filtersFromQuery(c *fiber.Ctx) Filters {
	f := Filters{
		UserID:       c.Query("userId"),
		Action:       c.Query("action"),
		ResourceType: c.Query("resourceType"),
		ResourceID:   c.Query("resourceId"),
		DateFrom:     c.Query("dateFrom"),
		DateTo:       c.Query("dateTo"),
	}
	if v := c.Query("success"); v != "" {
		success := v == "true"
		f.Success = &success
	}
	return f
}

// List godoc
// @Summary Query the audit trail
// @Description Filterable, paginated audit log entries, newest first
// @Tags audit
// @Produce json
// @Param userId query string false "Filter by acting user id"
// @Param action query string false "Filter by action"
// @Param resourceType query string false "Filter by resource type"
// @Param resourceId query string false "Filter by resource id"
// @Param dateFrom query string false "Start of time range"
// @Param dateTo query string false "End of time range"
// @Param success query boolean false "Filter by outcome"
// @Param limit query int false "Page size"
// @Param skip query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Router /api/audit/logs [get]
func (ctrl *AuditController) List(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	limit, _ := strconv.ParseInt(c.Query("limit", "100"), 10, 64)
	skip, _ := strconv.ParseInt(c.Query("skip", "0"), 10, 64)

	entries, total, err := ctrl.service.Query(c.UserContext(), filtersFromQuery(c), claims, limit, skip)
	if err != nil {
		return ctrl.fail(c, err, "audit query failed")
	}

	return c.JSON(fiber.Map{
		"logs":  entries,
		"total": total,
		"limit": limit,
		"skip":  skip,
	})
}

// Stats godoc
// @Summary Audit statistics
// @Tags audit
// @Produce json
// @Success 200 {object} Stats
// @Router /api/audit/stats [get]
func (ctrl *AuditController) Stats(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	stats, err := ctrl.service.Stats(c.UserContext(), filtersFromQuery(c), claims)
	if err != nil {
		return ctrl.fail(c, err, "audit stats failed")
	}

	return c.JSON(stats)
}

// Export godoc
// @Summary Export the audit report
// @Description Downloads the filtered audit trail as CSV, JSON or XLSX
// @Tags audit
// @Param format query string false "csv (default), json or xlsx"
// @Success 200 {file} file "Report attachment"
// @Router /api/audit/export [get]
func (ctrl *AuditController) Export(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	format := c.Query("format", "csv")
	data, filename, err := ctrl.service.Export(c.UserContext(), filtersFromQuery(c), claims, format)
	if err != nil {
		return ctrl.fail(c, err, "audit export failed")
	}

	switch format {
	case "json":
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	case "xlsx":
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	default:
		c.Set(fiber.HeaderContentType, "text/csv")
	}
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))

	return c.Send(data)
}

// fail maps known errors to statuses and hides the rest behind a
// generic message, logging the detail server-side.
func (ctrl *AuditController) fail(c *fiber.Ctx, err error, msg string) error {
	code := apperr.StatusCode(err)
	if code == fiber.StatusInternalServerError {
		ctrl.logger.Error(msg, zap.Error(err))
		return c.Status(code).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
