package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/tutor-system2025/tutor-system/internal/dto"
	"github.com/tutor-system2025/tutor-system/internal/services"
)

// serviceError maps service sentinel errors onto HTTP statuses in one place.
// Unknown errors become an opaque 500; the cause goes to the log, not the
// client.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case services.IsValidation(err),
		errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrTutorTaken),
		errors.Is(err, services.ErrSubjectTaken),
		errors.Is(err, services.ErrBookingNotOpen):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTutorNotFound),
		errors.Is(err, services.ErrSubjectNotFound),
		errors.Is(err, services.ErrBookingNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrNotAssignedTutor):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		slog.Error("unhandled service error",
			"method", c.Method(), "path", c.Path(), "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}
