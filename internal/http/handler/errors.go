package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/slugurl/internal/app/service"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return writeError(c, fiber.StatusBadRequest, "invalid_url", "URL is not valid")
	case errors.Is(err, service.ErrMaxAttemptsExceeded):
		return writeError(c, fiber.StatusUnprocessableEntity, "max_attempts_exceeded", "Could not allocate a unique slug, try again")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "not_found", "Short link not found")
	case errors.Is(err, service.ErrUnavailable):
		return writeError(c, fiber.StatusServiceUnavailable, "unavailable", "Store is unavailable")
	default:
		return writeError(c, fiber.StatusInternalServerError, "internal_error", "Internal error occurred")
	}
}

// ErrorHandler renders errors that escape handlers (unknown routes, bad methods,
// oversized bodies) with the same body shape as handler errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		return writeServiceError(c, err)
	}

	code := "request_error"
	switch fe.Code {
	case fiber.StatusNotFound:
		code = "not_found"
	case fiber.StatusMethodNotAllowed:
		code = "method_not_allowed"
	case fiber.StatusRequestEntityTooLarge:
		code = "payload_too_large"
	case fiber.StatusBadRequest:
		code = "invalid_request"
	}
	if fe.Code >= fiber.StatusInternalServerError {
		code = "internal_error"
	}
	return writeError(c, fe.Code, code, fe.Message)
}
