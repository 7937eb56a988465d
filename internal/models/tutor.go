package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Tutor is a tutoring application until IsApproved is set by the manager;
// only approved tutors appear in the public directory. Subjects holds
// subject names, not ids.
type Tutor struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName   string                      `gorm:"size:100;not null" json:"firstName"`
	Surname     string                      `gorm:"size:100;not null" json:"surname"`
	Email       string                      `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Subjects    datatypes.JSONSlice[string] `json:"subjects"`
	Description string                      `gorm:"type:text" json:"description,omitempty"`
	IsApproved  bool                        `gorm:"default:false;index" json:"isApproved"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

// PublicView strips the free-text description from directory listings.
type TutorPublicView struct {
	ID         uuid.UUID `json:"id"`
	FirstName  string    `json:"firstName"`
	Surname    string    `json:"surname"`
	Email      string    `json:"email"`
	Subjects   []string  `json:"subjects"`
	IsApproved bool      `json:"isApproved"`
}

func (t *Tutor) PublicView() TutorPublicView {
	return TutorPublicView{
		ID:         t.ID,
		FirstName:  t.FirstName,
		Surname:    t.Surname,
		Email:      t.Email,
		Subjects:   t.Subjects,
		IsApproved: t.IsApproved,
	}
}
