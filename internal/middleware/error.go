package middleware

import (
	"errors"
	"net/http"

	"quizdeck/internal/domain"
	"quizdeck/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse lists every invalid field of a rejected payload.
type ValidationErrorResponse struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Status  int                      `json:"status"`
	Errors  []domain.ValidationError `json:"errors"`
	Details map[string]interface{}   `json:"details,omitempty"`
}

// ErrorHandler is a centralized error handling middleware
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get()

		var domainErr *domain.DomainError
		var validationErrs domain.ValidationErrors
		if errors.As(err, &validationErrs) {
			var details map[string]interface{}
			if errors.As(err, &domainErr) && len(domainErr.Context) > 0 {
				details = domainErr.Context
			}
			log.Warn("Validation errors occurred",
				zap.String("path", c.Path()),
				zap.Int("error_count", len(validationErrs)),
			)
			return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
				Code:    string(domain.CodeValidation),
				Message: "Payload validation failed",
				Status:  http.StatusBadRequest,
				Errors:  validationErrs,
				Details: details,
			})
		}

		if errors.As(err, &domainErr) {
			statusCode := StatusFor(domainErr.Code)

			fields := []zap.Field{
				zap.String("path", c.Path()),
				zap.String("code", string(domainErr.Code)),
				zap.String("message", domainErr.Message),
				zap.Int("status", statusCode),
			}
			if domainErr.Cause != nil {
				fields = append(fields, zap.Error(domainErr.Cause))
			}
			if statusCode >= http.StatusInternalServerError {
				log.Error("Domain error occurred", fields...)
			} else {
				log.Warn("Domain error occurred", fields...)
			}

			response := ErrorResponse{
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Status:  statusCode,
			}
			if len(domainErr.Context) > 0 {
				response.Details = domainErr.Context
			}
			return c.Status(statusCode).JSON(response)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			log.Warn("Fiber error occurred",
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
			)
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Code:    "HTTP_ERROR",
				Message: fiberErr.Message,
				Status:  fiberErr.Code,
			})
		}

		log.Error("Unknown error occurred",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    string(domain.CodeInternal),
			Message: "Internal server error",
			Status:  http.StatusInternalServerError,
		})
	}
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidInput, domain.CodeMissingFile, domain.CodeMalformedJSON,
		domain.CodeValidation, domain.CodeMissingField, domain.CodeInvalidKind,
		domain.CodeArchive, domain.CodeInvalidSnapshot, domain.CodeStagingFailed:
		return http.StatusBadRequest
	case domain.CodeSnapshotInProgress:
		return http.StatusConflict
	case domain.CodeDanglingReference, domain.CodeConstraintViolation, domain.CodeInvalidEnum:
		return http.StatusUnprocessableEntity
	case domain.CodeSnapshotFailed:
		return http.StatusBadGateway
	case domain.CodeStoreDetached:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func statusOf(err error) int {
	var validationErrs domain.ValidationErrors
	if errors.As(err, &validationErrs) {
		return http.StatusBadRequest
	}
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return StatusFor(domainErr.Code)
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return http.StatusInternalServerError
}
