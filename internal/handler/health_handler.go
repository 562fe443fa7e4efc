package handler

import (
	"quizdeck/internal/dto"

	"github.com/gofiber/fiber/v2"
)

// AttachmentReporter tells whether the store currently holds the live file.
type AttachmentReporter interface {
	Attached() bool
}

type HealthHandler struct {
	store AttachmentReporter
}

func NewHealthHandler(store AttachmentReporter) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	if !h.store.Attached() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "detached"})
	}
	return c.JSON(dto.HealthResponse{Status: "ok", StoreAttached: true})
}
