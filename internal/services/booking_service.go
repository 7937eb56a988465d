package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tutor-system2025/tutor-system/internal/dto"
	"github.com/tutor-system2025/tutor-system/internal/mail"
	"github.com/tutor-system2025/tutor-system/internal/models"
	"gorm.io/gorm"
)

// BookingService drives the booking lifecycle: pending on creation, accepted
// and completed by the assigned tutor, deleted on user cancellation. Every
// transition commits its notification into the outbox in the same
// transaction as the state change.
type BookingService struct {
	db       *gorm.DB
	notifier *mail.Notifier
}

func NewBookingService(db *gorm.DB, notifier *mail.Notifier) *BookingService {
	return &BookingService{db: db, notifier: notifier}
}

func parseBookingDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, NewValidationError("invalid date format")
}

func (s *BookingService) Create(userID uuid.UUID, req *dto.CreateBookingRequest) (*models.Booking, error) {
	if req.TutorID == "" || req.Subject == "" || req.TimePeriod == "" ||
		req.Description == "" || req.Date == "" {
		return nil, NewValidationError("all fields are required")
	}

	tutorID, err := uuid.Parse(req.TutorID)
	if err != nil {
		return nil, NewValidationError("invalid tutor id")
	}

	date, err := parseBookingDate(req.Date)
	if err != nil {
		return nil, err
	}

	var tutor models.Tutor
	if err := s.db.First(&tutor, "id = ?", tutorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTutorNotFound
		}
		return nil, err
	}

	var subject models.Subject
	if err := s.db.Where("name = ?", req.Subject).First(&subject).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	booking := models.Booking{
		ID:          uuid.New(),
		UserID:      userID,
		TutorID:     tutorID,
		Subject:     req.Subject,
		TimePeriod:  req.TimePeriod,
		Description: req.Description,
		Date:        date,
		Status:      models.BookingPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		return s.notifier.BookingRequested(tx, &booking, &user, &tutor)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return &booking, nil
}

func (s *BookingService) ListForUser(userID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Preload("Tutor").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// ListForTutor resolves the caller's tutor record by email, then lists the
// bookings assigned to it.
func (s *BookingService) ListForTutor(callerEmail string) ([]models.Booking, error) {
	var tutor models.Tutor
	if err := s.db.Where("email = ?", callerEmail).First(&tutor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTutorNotFound
		}
		return nil, err
	}

	var bookings []models.Booking
	err := s.db.Preload("User").
		Where("tutor_id = ?", tutor.ID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (s *BookingService) ListAll() ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Preload("User").Preload("Tutor").
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// ownedBooking loads a booking only if it belongs to the calling user.
// A booking owned by somebody else reads as not found.
func (s *BookingService) ownedBooking(id, userID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Preload("Tutor").Preload("User").
		Where("id = ? AND user_id = ?", id, userID).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// Update edits schedule fields on a pending booking; absent fields keep
// their stored values. User and tutor references never change.
func (s *BookingService) Update(id, userID uuid.UUID, req *dto.UpdateBookingRequest) (*models.Booking, error) {
	booking, err := s.ownedBooking(id, userID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingPending {
		return nil, ErrBookingNotOpen
	}

	if req.TimePeriod != "" {
		booking.TimePeriod = req.TimePeriod
	}
	if req.Description != "" {
		booking.Description = req.Description
	}
	if req.Date != "" {
		date, err := parseBookingDate(req.Date)
		if err != nil {
			return nil, err
		}
		booking.Date = date
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(booking).Updates(map[string]interface{}{
			"time_period": booking.TimePeriod,
			"description": booking.Description,
			"date":        booking.Date,
		}).Error; err != nil {
			return err
		}
		return s.notifier.BookingUpdated(tx, booking, booking.User, booking.Tutor)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	return booking, nil
}

// Cancel hard-deletes a pending booking owned by the caller.
func (s *BookingService) Cancel(id, userID uuid.UUID) error {
	booking, err := s.ownedBooking(id, userID)
	if err != nil {
		return err
	}
	if booking.Status != models.BookingPending {
		return ErrBookingNotOpen
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Booking{}, "id = ?", booking.ID).Error; err != nil {
			return err
		}
		return s.notifier.BookingCancelled(tx, booking, booking.User, booking.Tutor)
	})
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	return nil
}

// assignedBooking loads a booking and verifies the caller is its tutor,
// matched through the tutor record carrying the caller's email.
func (s *BookingService) assignedBooking(id uuid.UUID, callerEmail string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Preload("User").Preload("Tutor").
		First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	var tutor models.Tutor
	if err := s.db.Where("email = ?", callerEmail).First(&tutor).Error; err != nil {
		return nil, ErrNotAssignedTutor
	}
	if booking.TutorID != tutor.ID {
		return nil, ErrNotAssignedTutor
	}
	return &booking, nil
}

// Accept moves a pending booking to accepted and notifies the student.
// Accepting an already-accepted booking is a no-op.
func (s *BookingService) Accept(id uuid.UUID, callerEmail string) (*models.Booking, error) {
	booking, err := s.assignedBooking(id, callerEmail)
	if err != nil {
		return nil, err
	}

	if booking.Status == models.BookingAccepted {
		return booking, nil
	}
	if booking.Status == models.BookingCompleted {
		return nil, ErrBookingNotOpen
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(booking).Update("status", models.BookingAccepted).Error; err != nil {
			return err
		}
		return s.notifier.BookingAccepted(tx, booking, booking.User, booking.Tutor)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to accept booking: %w", err)
	}
	booking.Status = models.BookingAccepted
	return booking, nil
}

// Complete marks the session completed and files the session report.
// Completing an already-completed booking is a no-op.
func (s *BookingService) Complete(id uuid.UUID, callerEmail, duration string) (*models.Booking, error) {
	if duration == "" {
		return nil, NewValidationError("session duration is required")
	}

	booking, err := s.assignedBooking(id, callerEmail)
	if err != nil {
		return nil, err
	}

	if booking.Status == models.BookingCompleted {
		return booking, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(booking).Update("status", models.BookingCompleted).Error; err != nil {
			return err
		}
		return s.notifier.SessionCompleted(tx, booking, booking.User, booking.Tutor, duration)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to complete booking: %w", err)
	}
	booking.Status = models.BookingCompleted
	return booking, nil
}

// Message emails the student and the tutor jointly about a booking. No
// booking state changes.
func (s *BookingService) Message(id uuid.UUID, callerEmail string, req *dto.BookingMessageRequest) error {
	if req.StudentEmail == "" || req.Subject == "" || req.MessageContent == "" {
		return NewValidationError("studentEmail, subject and messageContent are required")
	}

	booking, err := s.assignedBooking(id, callerEmail)
	if err != nil {
		return err
	}

	return s.notifier.TutorMessage(s.db, booking, booking.User, booking.Tutor,
		req.StudentEmail, req.Subject, req.MessageContent)
}
