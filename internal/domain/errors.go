package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"

	// Payload errors
	CodeMissingFile   ErrorCode = "MISSING_FILE"
	CodeMalformedJSON ErrorCode = "MALFORMED_JSON"
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidEnum   ErrorCode = "INVALID_ENUM"
	CodeInvalidKind   ErrorCode = "INVALID_KIND"

	// Persistence errors
	CodeDanglingReference   ErrorCode = "DANGLING_REFERENCE"
	CodeConstraintViolation ErrorCode = "CONSTRAINT_VIOLATION"
	CodeStoreDetached       ErrorCode = "STORE_DETACHED"

	// Archive and snapshot errors
	CodeArchive            ErrorCode = "ARCHIVE_ERROR"
	CodeInvalidSnapshot    ErrorCode = "INVALID_SNAPSHOT"
	CodeStagingFailed      ErrorCode = "STAGING_FAILED"
	CodeSnapshotInProgress ErrorCode = "SNAPSHOT_IN_PROGRESS"
	CodeSnapshotFailed     ErrorCode = "SNAPSHOT_FAILED"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a detail value that is reported to the client.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewMissingFileError(field string) *DomainError {
	return NewError(CodeMissingFile, fmt.Sprintf("no file uploaded in field %q", field), nil)
}

// NewMalformedJSONError keeps the parser's message as the client-visible text.
func NewMalformedJSONError(cause error) *DomainError {
	return NewError(CodeMalformedJSON, fmt.Sprintf("malformed JSON: %v", cause), cause)
}

func NewInvalidKindError(kind string, allowed []string) *DomainError {
	return NewError(CodeInvalidKind, fmt.Sprintf("unknown entity kind %q", kind), nil).
		WithContext("allowed", allowed)
}

func NewArchiveError(message string, cause error) *DomainError {
	return NewError(CodeArchive, message, cause)
}

// CodeOf returns the code of the first DomainError in err's chain.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	var validationErrs ValidationErrors
	if errors.As(err, &validationErrs) {
		return CodeValidation
	}
	return ""
}

// ValidationError describes one invalid field of a payload.
type ValidationError struct {
	Code    ErrorCode   `json:"code"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one payload.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{
		Code:    CodeMissingField,
		Field:   field,
		Message: "field is required",
	}
}

func NewInvalidEnumError(field, value string, allowed []string) ValidationError {
	return ValidationError{
		Code:    CodeInvalidEnum,
		Field:   field,
		Message: fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")),
		Value:   value,
	}
}

func NewInvalidFormatError(field string, value interface{}, message string) ValidationError {
	return ValidationError{
		Code:    CodeInvalidInput,
		Field:   field,
		Message: message,
		Value:   value,
	}
}
