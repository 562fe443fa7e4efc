package handler

import (
	"io"
	"mime/multipart"

	"quizdeck/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// UploadField is the multipart field every upload endpoint reads.
const UploadField = "file"

func uploadedFile(c *fiber.Ctx) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(UploadField)
	if err != nil || fh == nil {
		return nil, domain.NewMissingFileError(UploadField)
	}
	return fh, nil
}

// readUpload returns the upload's name and full content.
func readUpload(c *fiber.Ctx) (string, []byte, error) {
	fh, err := uploadedFile(c)
	if err != nil {
		return "", nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, domain.NewInternalError("failed to open uploaded file", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, domain.NewInternalError("failed to read uploaded file", err)
	}
	return fh.Filename, data, nil
}
