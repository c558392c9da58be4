package file

import (
	"io"
	"strconv"
	"strings"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/apperr"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/search"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/middleware"
	"github.com/KaushikeeBhatt/file-tracking-system/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type FileController struct {
	service  FileService
	searches search.SearchService
	logger   *zap.Logger
}

func NewFileController(service FileService, searches search.SearchService, logger *zap.Logger) *FileController {
	return &FileController{
		service:  service,
		searches: searches,
		logger:   logger,
	}
}

func (ctrl *FileController) claims(c *fiber.Ctx) (*utils.UserClaims, error) {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return claims, nil
}

// Upload godoc
// @Summary Upload a file
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File content"
// @Param category formData string false "Category"
// @Param tags formData string false "Comma separated tags"
// @Param description formData string false "Description"
// @Success 201 {object} map[string]interface{}
// @Router /api/files/upload [post]
func (ctrl *FileController) Upload(c *fiber.Ctx) error {
	claims, err := ctrl.claims(c)
	if err != nil {
		return err
	}

	header, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	src, err := header.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot read file"})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot read file"})
	}

	input := UploadInput{
		OriginalName: header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Data:         data,
		Category:     c.FormValue("category"),
		Description:  c.FormValue("description"),
	}
	if raw := c.FormValue("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				input.Tags = append(input.Tags, tag)
			}
		}
	}

	f, err := ctrl.service.Upload(c.UserContext(), claims, input)
	if err != nil {
		return ctrl.fail(c, err, "upload failed")
	}

	return c.Status(fiber.StatusCreated).JSON(f)
}

// List godoc
// @Summary List files
// @Tags files
// @Produce json
// @Param status query string false "Status filter"
// @Param limit query int false "Page size"
// @Param skip query int false "Offset"
// @Success 200 {object} search.Page
// @Router /api/files [get]
func (ctrl *FileController) List(c *fiber.Ctx) error {
	claims, err := ctrl.claims(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.ParseInt(c.Query("limit", "0"), 10, 64)
	skip, _ := strconv.ParseInt(c.Query("skip", "0"), 10, 64)

	filters := search.Filters{
		Status:     c.Query("status"),
		Category:   c.Query("category"),
		Department: c.Query("department"),
		UploadedBy: c.Query("uploadedBy"),
	}

	page, err := ctrl.searches.Search(c.UserContext(), claims, filters,
		c.Query("sortBy", "date"), c.Query("sortOrder", "desc"), limit, skip)
	if err != nil {
		return ctrl.fail(c, err, "file list failed")
	}

	return c.JSON(page)
}

// Get godoc
// @Summary File details
// @Tags files
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/files/{id} [get]
func (ctrl *FileController) Get(c *fiber.Ctx) error {
	claims, err := ctrl.claims(c)
	if err != nil {
		return err
	}
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	f, err := ctrl.service.Get(c.UserContext(), claims, id)
	if err != nil {
		return ctrl.fail(c, err, "file fetch failed")
	}

	return c.JSON(f)
}

// Download godoc
// @Summary Download file content
// @Tags files
// @Produce octet-stream
// @Param id path string true "File ID"
// @Success 200 {file} binary
// @Router /api/files/{id}/download [get]
func (ctrl *FileController) Download(c *fiber.Ctx) error {
	claims, err := ctrl.claims(c)
	if err != nil {
		return err
	}
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	f, data, err := ctrl.service.Download(c.UserContext(), claims, id)
	if err != nil {
		return ctrl.fail(c, err, "download failed")
	}

	contentType := f.FileType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+f.OriginalName+`"`)
	return c.Send(data)
}

// Update godoc
// @Summary Update file metadata
// @Tags files
// @Accept json
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/files/{id} [put]
func (ctrl *FileController) Update(c *fiber.Ctx) error {
	claims, err := ctrl.claims(c)
	if err != nil {
		return err
	}
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var input UpdateFileInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	f, err := ctrl.service.Update(c.UserContext(), claims, id, input)
	if err != nil {
		return ctrl.fail(c, err, "file update failed")
	}

	return c.JSON(f)
}

// Delete godoc
// @Summary Archive a file
// @Tags files
// @Param id path string true "File ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/files/{id} [delete]
func (ctrl *FileController) Delete(c *fiber.Ctx) error {
	claims, err := ctrl.claims(c)
	if err != nil {
		return err
	}
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	if err := ctrl.service.Delete(c.UserContext(), claims, id); err != nil {
		return ctrl.fail(c, err, "file delete failed")
	}

	return c.JSON(fiber.Map{"message": "File deleted successfully"})
}

// Approve godoc
// @Summary Approve a pending file
// @Tags files
// @Param id path string true "File ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/files/{id}/approve [post]
func (ctrl *FileController) Approve(c *fiber.Ctx) error {
	claims, err := ctrl.claims(c)
	if err != nil {
		return err
	}
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	f, err := ctrl.service.Approve(c.UserContext(), claims, id)
	if err != nil {
		return ctrl.fail(c, err, "approve failed")
	}

	return c.JSON(f)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// Reject godoc
// @Summary Reject a pending file
// @Tags files
// @Accept json
// @Param id path string true "File ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/files/{id}/reject [post]
func (ctrl *FileController) Reject(c *fiber.Ctx) error {
	claims, err := ctrl.claims(c)
	if err != nil {
		return err
	}
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var req rejectRequest
	_ = c.BodyParser(&req)

	f, err := ctrl.service.Reject(c.UserContext(), claims, id, req.Reason)
	if err != nil {
		return ctrl.fail(c, err, "reject failed")
	}

	return c.JSON(f)
}

func (ctrl *FileController) fail(c *fiber.Ctx, err error, msg string) error {
	code := apperr.StatusCode(err)
	if code == fiber.StatusInternalServerError {
		ctrl.logger.Error(msg, zap.Error(err))
		return c.Status(code).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
