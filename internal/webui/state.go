package webui

import (
	"github.com/google/uuid"
	"github.com/tutor-system2025/tutor-system/internal/models"
)

// View names the router dispatches on.
const (
	ViewLogin         = "login"
	ViewRegister      = "register"
	ViewSubjects      = "subjects"
	ViewTutors        = "tutors"
	ViewBookingForm   = "bookingForm"
	ViewMyBookings    = "myBookings"
	ViewTutorBookings = "tutorBookings"
	ViewBecomeTutor   = "becomeTutor"
	ViewProfile       = "profile"
	ViewManager       = "manager"
)

// Session is the signed-in identity slice of the UI state.
type Session struct {
	UserID    uuid.UUID
	Name      string
	Email     string
	IsManager bool
}

// Flash is a one-shot status banner.
type Flash struct {
	Kind string // "success" or "error"
	Text string
}

// State is the complete input to a view render: identity, cached entity
// lists, the current navigation target with its history, and transient
// selections. Views read it; only Reduce writes it.
type State struct {
	Session *Session
	View    string
	History []string
	Flash   *Flash

	Subjects      []models.Subject
	Tutors        []models.TutorPublicView
	MyBookings    []models.Booking
	TutorBookings []models.Booking
	AllBookings   []models.Booking
	TutorRequests []models.Tutor
	AllTutors     []models.Tutor

	SelectedSubject *models.Subject
	SelectedTutor   *models.TutorPublicView
}

// NewState starts at the login view with empty history.
func NewState() State {
	return State{View: ViewLogin}
}
