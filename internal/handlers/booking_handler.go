package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tutor-system2025/tutor-system/internal/dto"
	"github.com/tutor-system2025/tutor-system/internal/middleware"
	"github.com/tutor-system2025/tutor-system/internal/services"
)

type BookingHandler struct {
	bookings *services.BookingService
}

func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func (h *BookingHandler) Create(c *fiber.Ctx) error {
	ident, err := middleware.CurrentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	booking, err := h.bookings.Create(ident.UserID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.BookingResponse{
		Message: "Booking created successfully",
		Booking: booking,
	})
}

func (h *BookingHandler) ListForUser(c *fiber.Ctx) error {
	ident, err := middleware.CurrentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}

	bookings, err := h.bookings.ListForUser(ident.UserID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(bookings)
}

func (h *BookingHandler) ListForTutor(c *fiber.Ctx) error {
	ident, err := middleware.CurrentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}

	bookings, err := h.bookings.ListForTutor(ident.Email)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(bookings)
}

func (h *BookingHandler) ListAll(c *fiber.Ctx) error {
	bookings, err := h.bookings.ListAll()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(bookings)
}

func (h *BookingHandler) Update(c *fiber.Ctx) error {
	ident, err := middleware.CurrentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid booking ID")
	}

	var req dto.UpdateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	booking, err := h.bookings.Update(id, ident.UserID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.BookingResponse{
		Message: "Booking updated successfully",
		Booking: booking,
	})
}

func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	ident, err := middleware.CurrentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid booking ID")
	}

	if err := h.bookings.Cancel(id, ident.UserID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.MessageResponse{Message: "Booking cancelled successfully"})
}

func (h *BookingHandler) Accept(c *fiber.Ctx) error {
	ident, err := middleware.CurrentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid booking ID")
	}

	booking, err := h.bookings.Accept(id, ident.Email)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.BookingResponse{
		Message: "Booking accepted successfully",
		Booking: booking,
	})
}

func (h *BookingHandler) Complete(c *fiber.Ctx) error {
	ident, err := middleware.CurrentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid booking ID")
	}

	var req dto.CompleteBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if _, err := h.bookings.Complete(id, ident.Email, req.Duration); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.MessageResponse{Message: "Session completed successfully"})
}

func (h *BookingHandler) Message(c *fiber.Ctx) error {
	ident, err := middleware.CurrentIdentity(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid booking ID")
	}

	var req dto.BookingMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.bookings.Message(id, ident.Email, &req); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.MessageResponse{
		Message: "Message sent successfully to student and tutor",
	})
}
