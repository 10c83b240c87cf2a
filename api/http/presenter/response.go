// Package presenter holds the response helpers shared by all HTTP handlers.
package presenter

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the uniform error body returned by every endpoint.
type ErrorResponse struct {
	Message string `json:"message" example:"student not found"`
}

// JSON writes v with the given status code.
func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

// Error writes a plain-message error body with the given status code.
func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}
