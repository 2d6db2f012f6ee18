package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"screenshop/internal/http/middleware"
	"screenshop/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// generateErrorPayload is the flat error body of the generate endpoints.
type generateErrorPayload struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_INDEX", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// statusFor maps a service error code onto an HTTP status.
func statusFor(code service.Code) int {
	switch code {
	case service.CodeInvalidInput:
		return fiber.StatusBadRequest
	case service.CodeResourceLimit:
		return fiber.StatusRequestEntityTooLarge
	case service.CodeUpstream:
		return fiber.StatusBadGateway
	case service.CodeBusy:
		return fiber.StatusConflict
	case service.CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// writeServiceError writes err in the standardized envelope. Unclassified
// errors are reported as a generic internal error.
func writeServiceError(c *fiber.Ctx, err error) error {
	var se *service.Error
	if !errors.As(err, &se) {
		return writeError(c, fiber.StatusInternalServerError, string(service.CodeInternal), "internal server error")
	}
	return writeError(c, statusFor(se.Code), string(se.Code), se.Message)
}

// writeGenerateError writes err in the flat {error, code, request_id} shape.
// Upstream error text is passed through unchanged.
func writeGenerateError(c *fiber.Ctx, err error) error {
	code := service.CodeOf(err)
	return c.Status(statusFor(code)).JSON(generateErrorPayload{
		Error:     service.MessageOf(err),
		Code:      string(code),
		RequestID: requestIDFromCtx(c),
	})
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, string(service.CodeResourceLimit), "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
