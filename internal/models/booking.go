package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingAccepted  BookingStatus = "accepted"
	BookingCompleted BookingStatus = "completed"
)

// Booking references its student and tutor by id and carries a copy of the
// subject name. Cancellation deletes the row, so there is no cancelled state.
type Booking struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"userId"`
	User        *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TutorID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"tutorId"`
	Tutor       *Tutor        `gorm:"foreignKey:TutorID" json:"tutor,omitempty"`
	Subject     string        `gorm:"size:100;not null" json:"subject"`
	TimePeriod  string        `gorm:"size:100;not null" json:"timePeriod"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Date        time.Time     `gorm:"not null" json:"date"`
	Status      BookingStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	CreatedAt   time.Time     `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}
