package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError and echoed in ErrorResponse.Code.
const (
	CodeNotFound              = "NOT_FOUND"
	CodeForbidden             = "FORBIDDEN"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeAccountInactive       = "ACCOUNT_INACTIVE"
	CodeDependencyUnavailable = "DEPENDENCY_UNAVAILABLE"
	CodeValidation            = "VALIDATION_ERROR"
	CodeInternal              = "INTERNAL_ERROR"
)

var codeStatus = map[string]int{
	CodeNotFound:              fiber.StatusNotFound,
	CodeForbidden:             fiber.StatusForbidden,
	CodeAccountInactive:       fiber.StatusForbidden,
	CodeUnauthorized:          fiber.StatusUnauthorized,
	CodeDependencyUnavailable: fiber.StatusServiceUnavailable,
	CodeValidation:            fiber.StatusBadRequest,
	CodeInternal:              fiber.StatusInternalServerError,
}

// ErrorResponse is the body of every non-2xx JSON answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError is a failure with a client-facing message. Err, when set, is the
// underlying cause.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func newError(code string, err error, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error { return e.Err }

func NewNotFoundError(resource string, id any) *AppError {
	return newError(CodeNotFound, nil, "%s with ID %v not found", resource, id)
}

func NewForbiddenError(message string) *AppError {
	return newError(CodeForbidden, nil, "%s", message)
}

func NewValidationError(message string) *AppError {
	return newError(CodeValidation, nil, "%s", message)
}

func NewUnauthorizedError(message string) *AppError {
	return newError(CodeUnauthorized, nil, "%s", message)
}

// NewAccountInactiveError reports valid credentials on a deactivated account.
func NewAccountInactiveError(userID string) *AppError {
	return newError(CodeAccountInactive, nil, "User %s is not active", userID)
}

// NewDependencyUnavailableError reports a service that could not be reached,
// timed out or answered 5xx.
func NewDependencyUnavailableError(dependency string, err error) *AppError {
	return newError(CodeDependencyUnavailable, err, "%s is unavailable", dependency)
}

func NewInternalError(err error) *AppError {
	return newError(CodeInternal, err, "Internal server error")
}

// IsCode reports whether err wraps an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// StatusFor maps an error to the HTTP status it is reported with. Anything
// that is not an AppError is a 500.
func StatusFor(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if status, ok := codeStatus[appErr.Code]; ok {
			return status
		}
	}
	return fiber.StatusInternalServerError
}

// Body renders err as an ErrorResponse. Internal causes are never exposed.
func Body(err error) ErrorResponse {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return ErrorResponse{Error: err.Error()}
	}
	resp := ErrorResponse{Error: appErr.Message, Code: appErr.Code}
	if appErr.Err != nil && appErr.Code != CodeInternal {
		resp.Details = appErr.Err.Error()
	}
	return resp
}

// RespondWithError writes err as JSON with the given status.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(Body(err))
}

// RespondWithAppError writes err with the status StatusFor derives from it.
func RespondWithAppError(c *fiber.Ctx, err error) error {
	return RespondWithError(c, StatusFor(err), err)
}
