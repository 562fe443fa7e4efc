package handler

import (
	"bufio"
	"os"
	"sync"

	"quizdeck/internal/domain"
	"quizdeck/internal/logger"
	"quizdeck/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ExportHandler serves interchange downloads
type ExportHandler struct {
	service service.ExportService
}

// NewExportHandler creates a new ExportHandler instance
func NewExportHandler(service service.ExportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// ExportJSON godoc
// @Summary Export an entity kind as JSON
// @Description Returns every record of the kind as an indented JSON array attachment named <type>.json.
// @Tags export
// @Produce json
// @Param type query string true "Entity kind" Enums(subject, category, quiz, flashcard, user)
// @Success 200 {array} object
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /export/json [get]
func (h *ExportHandler) ExportJSON(c *fiber.Ctx) error {
	name, data, err := h.service.ExportJSON(c.UserContext(), c.Query("type"))
	if err != nil {
		return err
	}
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(data)
}

// ExportImages godoc
// @Summary Export question images
// @Description Streams the image directory as a zip. A missing directory yields an empty archive.
// @Tags export
// @Produce application/zip
// @Success 200 {file} file
// @Router /export/images [get]
func (h *ExportHandler) ExportImages(c *fiber.Ctx) error {
	ctx := c.UserContext()
	c.Attachment(service.ImagesArchiveName)
	c.Set(fiber.HeaderContentType, "application/zip")
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		if _, err := h.service.ExportImages(ctx, w); err != nil {
			// headers are already on the wire
			logger.Get().Error("image archive stream aborted", zap.Error(err))
			return
		}
		if err := w.Flush(); err != nil {
			logger.Get().Warn("failed to flush image archive", zap.Error(err))
		}
	})
	return nil
}

// ExportDatabase godoc
// @Summary Export the database file
// @Description Downloads a consistent copy of the live SQLite file.
// @Tags export
// @Produce application/octet-stream
// @Success 200 {file} file
// @Failure 503 {object} middleware.ErrorResponse
// @Router /export/database [get]
func (h *ExportHandler) ExportDatabase(c *fiber.Ctx) error {
	path, name, cleanup, err := h.service.ExportDatabase(c.UserContext())
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		cleanup()
		return domain.NewInternalError("failed to open database export", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		cleanup()
		return domain.NewInternalError("failed to stat database export", err)
	}

	c.Attachment(name)
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.SendStream(&exportFile{File: f, cleanup: cleanup}, int(info.Size()))
}

// exportFile removes the backing copy once the response body is closed.
type exportFile struct {
	*os.File
	cleanup func()
	once    sync.Once
}

func (f *exportFile) Close() error {
	err := f.File.Close()
	f.once.Do(f.cleanup)
	return err
}
