package handler

import (
	"quizdeck/internal/domain"
	"quizdeck/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SnapshotHandler accepts a replacement database file
type SnapshotHandler struct {
	service service.SnapshotService
}

// NewSnapshotHandler creates a new SnapshotHandler instance
func NewSnapshotHandler(service service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{service: service}
}

// ReplaceDatabase godoc
// @Summary Replace the database
// @Description Stages the uploaded SQLite file and runs the replace procedure. Only one replacement runs at a time.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "SQLite database file"
// @Success 200 {object} dto.SnapshotResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /import/database [post]
func (h *SnapshotHandler) ReplaceDatabase(c *fiber.Ctx) error {
	fh, err := uploadedFile(c)
	if err != nil {
		return err
	}
	f, err := fh.Open()
	if err != nil {
		return domain.NewInternalError("failed to open uploaded file", err)
	}
	defer func() { _ = f.Close() }()

	resp, err := h.service.Replace(c.UserContext(), fh.Filename, f)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
