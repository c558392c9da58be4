package search

import (
	"strconv"
	"strings"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/apperr"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/middleware"
	"github.com/KaushikeeBhatt/file-tracking-system/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SearchController struct {
	service SearchService
	logger  *zap.Logger
}

func NewSearchController(service SearchService, logger *zap.Logger) *SearchController {
	return &SearchController{
		service: service,
		logger:  logger,
	}
}

func filtersFromQuery(c *fiber.Ctx) Filters {
	f := Filters{
		Query:      c.Query("q"),
		Status:     c.Query("status"),
		Category:   c.Query("category"),
		Department: c.Query("department"),
		FileType:   c.Query("fileType"),
		UploadedBy: c.Query("uploadedBy"),
		DateFrom:   c.Query("dateFrom"),
		DateTo:     c.Query("dateTo"),
	}
	if raw := c.Query("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				f.Tags = append(f.Tags, tag)
			}
		}
	}
	f.MinSize, _ = strconv.ParseInt(c.Query("minSize", "0"), 10, 64)
	f.MaxSize, _ = strconv.ParseInt(c.Query("maxSize", "0"), 10, 64)
	return f
}

func claimsOrNil(c *fiber.Ctx) *utils.UserClaims {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil
	}
	return claims
}

// Search godoc
// @Summary Search the file catalog
// @Tags search
// @Produce json
// @Param q query string false "Free text query"
// @Param status query string false "Status filter, 'all' for any"
// @Param category query string false "Category filter"
// @Param department query string false "Department filter"
// @Param tags query string false "Comma separated tags"
// @Param sortBy query string false "relevance, name, size or date"
// @Param limit query int false "Page size"
// @Param skip query int false "Offset"
// @Success 200 {object} Page
// @Router /api/search [get]
func (ctrl *SearchController) Search(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "0"), 10, 64)
	skip, _ := strconv.ParseInt(c.Query("skip", "0"), 10, 64)

	page, err := ctrl.service.Search(c.UserContext(), claimsOrNil(c), filtersFromQuery(c),
		c.Query("sortBy", "relevance"), c.Query("sortOrder", "desc"), limit, skip)
	if err != nil {
		return ctrl.fail(c, err, "search failed")
	}

	return c.JSON(page)
}

// Suggestions godoc
// @Summary Typeahead suggestions
// @Tags search
// @Produce json
// @Param q query string true "Prefix, minimum two characters"
// @Success 200 {object} map[string]interface{}
// @Router /api/search/suggestions [get]
func (ctrl *SearchController) Suggestions(c *fiber.Ctx) error {
	suggestions, err := ctrl.service.Suggestions(c.UserContext(), claimsOrNil(c), c.Query("q"))
	if err != nil {
		return ctrl.fail(c, err, "suggestions failed")
	}

	return c.JSON(fiber.Map{"suggestions": suggestions})
}

// Analytics godoc
// @Summary Catalog analytics
// @Tags search
// @Produce json
// @Success 200 {object} Analytics
// @Router /api/search/analytics [get]
func (ctrl *SearchController) Analytics(c *fiber.Ctx) error {
	analytics, err := ctrl.service.Analytics(c.UserContext(), claimsOrNil(c))
	if err != nil {
		return ctrl.fail(c, err, "search analytics failed")
	}

	return c.JSON(analytics)
}

func (ctrl *SearchController) fail(c *fiber.Ctx, err error, msg string) error {
	code := apperr.StatusCode(err)
	if code == fiber.StatusInternalServerError {
		ctrl.logger.Error(msg, zap.Error(err))
		return c.Status(code).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
