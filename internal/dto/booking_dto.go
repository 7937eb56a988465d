package dto

import "github.com/tutor-system2025/tutor-system/internal/models"

type CreateBookingRequest struct {
	TutorID     string `json:"tutorId"`
	Subject     string `json:"subject"`
	TimePeriod  string `json:"timePeriod"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

type UpdateBookingRequest struct {
	TimePeriod  string `json:"timePeriod"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

type CompleteBookingRequest struct {
	Duration string `json:"duration"`
}

type BookingMessageRequest struct {
	StudentEmail   string `json:"studentEmail"`
	Subject        string `json:"subject"`
	MessageContent string `json:"messageContent"`
}

type BookingResponse struct {
	Message string          `json:"message"`
	Booking *models.Booking `json:"booking,omitempty"`
}
