package handler

import (
	"context"

	"quizdeck/internal/domain"
	"quizdeck/internal/dto"
	"quizdeck/internal/service"

	"github.com/gofiber/fiber/v2"
)

// MaxJSONBodyBytes caps the raw flashcard import body.
const MaxJSONBodyBytes = 10 * 1024 * 1024

// ImportHandler handles uploads of interchange files
type ImportHandler struct {
	service service.ImportService
}

// NewImportHandler creates a new ImportHandler instance
func NewImportHandler(service service.ImportService) *ImportHandler {
	return &ImportHandler{service: service}
}

type fileImporter func(ctx context.Context, fileName string, data []byte) (*dto.ImportResponse, error)

func (h *ImportHandler) importFile(c *fiber.Ctx, run fileImporter) error {
	name, data, err := readUpload(c)
	if err != nil {
		return err
	}
	resp, err := run(c.UserContext(), name, data)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ImportSubjects godoc
// @Summary Import subjects
// @Description Bulk inserts the subjects of an uploaded JSON file (object or array). All or nothing.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "JSON file"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /import/subject [post]
func (h *ImportHandler) ImportSubjects(c *fiber.Ctx) error {
	return h.importFile(c, h.service.ImportSubjects)
}

// ImportCategories godoc
// @Summary Import categories
// @Description Bulk inserts categories. Every subject_id must reference an existing subject.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "JSON file"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /import/category [post]
func (h *ImportHandler) ImportCategories(c *fiber.Ctx) error {
	return h.importFile(c, h.service.ImportCategories)
}

// ImportQuizzes godoc
// @Summary Import quizzes
// @Description Creates each quiz with its questions, options and pairs. Each quiz is atomic; the first failure stops the import.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "JSON file"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /import/quiz [post]
func (h *ImportHandler) ImportQuizzes(c *fiber.Ctx) error {
	return h.importFile(c, h.service.ImportQuizzes)
}

// ImportFlashcards godoc
// @Summary Import flashcards
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "JSON file"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /import/flashcard [post]
func (h *ImportHandler) ImportFlashcards(c *fiber.Ctx) error {
	return h.importFile(c, h.service.ImportFlashcards)
}

// ImportUsers godoc
// @Summary Import users
// @Description Passwords are stored exactly as supplied.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "JSON file"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /import/user [post]
func (h *ImportHandler) ImportUsers(c *fiber.Ctx) error {
	return h.importFile(c, h.service.ImportUsers)
}

// ImportFlashcardsJSON godoc
// @Summary Import flashcards from the request body
// @Tags import
// @Accept json
// @Produce json
// @Param payload body []dto.FlashcardPayload true "Flashcards"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 413 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /import/flashcards/json [post]
func (h *ImportHandler) ImportFlashcardsJSON(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) > MaxJSONBodyBytes {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "request body exceeds 10 MB")
	}
	// fasthttp reuses the body buffer once the handler returns
	data := append([]byte(nil), body...)

	resp, err := h.service.ImportFlashcardsJSON(c.UserContext(), data)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ImportImages godoc
// @Summary Import question images
// @Description Extracts a zip bundle into the image directory. Same-named files are replaced.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "zip archive"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /import/images [post]
func (h *ImportHandler) ImportImages(c *fiber.Ctx) error {
	fh, err := uploadedFile(c)
	if err != nil {
		return err
	}
	f, err := fh.Open()
	if err != nil {
		return domain.NewInternalError("failed to open uploaded file", err)
	}
	defer func() { _ = f.Close() }()

	resp, err := h.service.ImportImages(c.UserContext(), fh.Filename, f, fh.Size)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
