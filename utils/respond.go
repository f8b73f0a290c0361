// utils/respond.go - shared JSON response helpers
package utils

import (
	"teamlift/apperrors"

	"github.com/gofiber/fiber/v2"
)

// Error renders a service error with its kind so clients can branch on it
// (e.g. prompt NDA acceptance vs. show a hard block).
func Error(c *fiber.Ctx, err error) error {
	status := apperrors.Status(err)
	message := err.Error()
	if status == 500 {
		// Don't leak store internals
		message = "An error occurred. Please try again later."
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
		"code":    apperrors.Kind(err),
	})
}

// Success merges data into the standard success envelope.
func Success(c *fiber.Ctx, data fiber.Map) error {
	response := fiber.Map{"success": true}
	for k, v := range data {
		response[k] = v
	}
	return c.JSON(response)
}

// Created is Success with a 201 status.
func Created(c *fiber.Ctx, data fiber.Map) error {
	response := fiber.Map{"success": true}
	for k, v := range data {
		response[k] = v
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}
