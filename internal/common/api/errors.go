package api

import (
	"errors"

	"go-transfer/internal/common/errs"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse maps the shared error taxonomy onto HTTP responses
func ErrorResponse(c *fiber.Ctx, err error) error {
	var pe *errs.PersistenceError
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, errs.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied", "detail": err.Error()})
	case errors.Is(err, errs.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, errs.ErrSuperseded):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &pe):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not save changes: " + pe.Err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
