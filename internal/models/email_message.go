package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type EmailStatus string

const (
	EmailPending EmailStatus = "pending"
	EmailSent    EmailStatus = "sent"
	EmailFailed  EmailStatus = "failed"
)

// EmailMessage is an outbox row: written in the same transaction as the state
// change it announces, delivered later by the mail worker.
type EmailMessage struct {
	ID         uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Recipients datatypes.JSONSlice[string] `json:"recipients"`
	Subject    string                      `gorm:"size:255;not null" json:"subject"`
	Body       string                      `gorm:"type:text;not null" json:"-"`
	Status     EmailStatus                 `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Attempts   int                         `gorm:"default:0" json:"attempts"`
	LastError  string                      `gorm:"type:text" json:"lastError,omitempty"`
	SendAfter  time.Time                   `gorm:"index" json:"sendAfter"`
	SentAt     *time.Time                  `json:"sentAt,omitempty"`
	CreatedAt  time.Time                   `json:"createdAt"`
	UpdatedAt  time.Time                   `json:"-"`
}
