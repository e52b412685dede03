package delivery

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse - standard error format for unexpected failures
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// respondWithError - sends an error body with the given status
func respondWithError(c *fiber.Ctx, status int, message string, details ...string) error {
	resp := ErrorResponse{
		Error: message,
	}
	if len(details) > 0 {
		resp.Details = details[0]
	}
	return c.Status(status).JSON(resp)
}

// respondUnauthorized - authorization error (401)
func respondUnauthorized(c *fiber.Ctx, message string) error {
	return respondWithError(c, fiber.StatusUnauthorized, message)
}

// respondSuccess - successful response with data
func respondSuccess(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// respondOK - successful response (200)
func respondOK(c *fiber.Ctx, data interface{}) error {
	return respondSuccess(c, fiber.StatusOK, data)
}

// statusFor - HTTP status of a failed handshake step
func statusFor(clientError bool) int {
	if clientError {
		return fiber.StatusBadRequest
	}
	return fiber.StatusBadGateway
}

// errorHandler renders errors returned by handlers as JSON
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return respondWithError(c, code, err.Error())
}
