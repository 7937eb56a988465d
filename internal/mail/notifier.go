package mail

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tutor-system2025/tutor-system/internal/models"
	"gorm.io/gorm"
)

const dateLayout = "2 Jan 2006"

// Notifier renders notification emails and writes them to the outbox.
// It is handed the caller's *gorm.DB, which may be a transaction, so the
// outbox row commits or rolls back together with the state change.
type Notifier struct {
	managerEmail string
}

func NewNotifier(managerEmail string) *Notifier {
	return &Notifier{managerEmail: managerEmail}
}

func (n *Notifier) enqueue(db *gorm.DB, recipients []string, subject, body string) error {
	msg := models.EmailMessage{
		ID:         uuid.New(),
		Recipients: recipients,
		Subject:    subject,
		Body:       body,
		Status:     models.EmailPending,
		SendAfter:  time.Now(),
	}
	return db.Create(&msg).Error
}

func (n *Notifier) TutorRegistration(db *gorm.DB, tutor *models.Tutor) error {
	body, err := render("tutorRegistration", map[string]string{
		"FirstName":   tutor.FirstName,
		"Surname":     tutor.Surname,
		"Email":       tutor.Email,
		"SubjectList": strings.Join(tutor.Subjects, ", "),
		"Description": tutor.Description,
	})
	if err != nil {
		return err
	}
	return n.enqueue(db, []string{n.managerEmail}, "New Tutor Registration", body)
}

func (n *Notifier) TutorApproved(db *gorm.DB, tutor *models.Tutor) error {
	body, err := render("tutorApproved", nil)
	if err != nil {
		return err
	}
	return n.enqueue(db, []string{tutor.Email}, "Tutor Registration Approved", body)
}

func (n *Notifier) TutorRejected(db *gorm.DB, tutor *models.Tutor) error {
	body, err := render("tutorRejected", nil)
	if err != nil {
		return err
	}
	return n.enqueue(db, []string{tutor.Email}, "Tutor Registration Update", body)
}

func (n *Notifier) TutorRemoved(db *gorm.DB, tutor *models.Tutor) error {
	body, err := render("tutorRemoved", nil)
	if err != nil {
		return err
	}
	return n.enqueue(db, []string{tutor.Email}, "Tutor Account Removed", body)
}

type bookingMail struct {
	StudentName  string
	StudentEmail string
	TutorName    string
	TutorEmail   string
	Subject      string
	TimePeriod   string
	Date         string
	Description  string
	Duration     string
	CompletedAt  string
	Body         string
}

func newBookingMail(b *models.Booking, user *models.User, tutor *models.Tutor) bookingMail {
	m := bookingMail{
		Subject:     b.Subject,
		TimePeriod:  b.TimePeriod,
		Date:        b.Date.Format(dateLayout),
		Description: b.Description,
	}
	if m.Description == "" {
		m.Description = "No description provided"
	}
	if user != nil {
		m.StudentName = user.FirstName + " " + user.Surname
		m.StudentEmail = user.Email
	}
	if tutor != nil {
		m.TutorName = tutor.FirstName + " " + tutor.Surname
		m.TutorEmail = tutor.Email
	}
	return m
}

func (n *Notifier) BookingRequested(db *gorm.DB, b *models.Booking, user *models.User, tutor *models.Tutor) error {
	body, err := render("bookingRequested", newBookingMail(b, user, tutor))
	if err != nil {
		return err
	}
	return n.enqueue(db, []string{tutor.Email}, "New Booking Request", body)
}

func (n *Notifier) BookingUpdated(db *gorm.DB, b *models.Booking, user *models.User, tutor *models.Tutor) error {
	// The tutor may have been removed since the booking was made; then
	// there is nobody to notify.
	if tutor == nil {
		return nil
	}
	body, err := render("bookingUpdated", newBookingMail(b, user, tutor))
	if err != nil {
		return err
	}
	return n.enqueue(db, []string{tutor.Email}, "Booking Updated", body)
}

func (n *Notifier) BookingCancelled(db *gorm.DB, b *models.Booking, user *models.User, tutor *models.Tutor) error {
	if tutor == nil {
		return nil
	}
	body, err := render("bookingCancelled", newBookingMail(b, user, tutor))
	if err != nil {
		return err
	}
	return n.enqueue(db, []string{tutor.Email}, "Booking Cancelled", body)
}

func (n *Notifier) BookingAccepted(db *gorm.DB, b *models.Booking, user *models.User, tutor *models.Tutor) error {
	body, err := render("bookingAccepted", newBookingMail(b, user, tutor))
	if err != nil {
		return err
	}
	return n.enqueue(db, []string{user.Email}, "Booking Accepted - Tutoring Session Confirmed", body)
}

func (n *Notifier) SessionCompleted(db *gorm.DB, b *models.Booking, user *models.User, tutor *models.Tutor, duration string) error {
	data := newBookingMail(b, user, tutor)
	data.Duration = duration
	data.CompletedAt = time.Now().Format("2 Jan 2006 15:04")
	if data.TimePeriod == "" {
		data.TimePeriod = "Not specified"
	}
	body, err := render("sessionCompleted", data)
	if err != nil {
		return err
	}
	return n.enqueue(db, []string{n.managerEmail}, "Session Completed - "+b.Subject, body)
}

// TutorMessage goes to the student and the tutor in one email so a
// reply-all keeps both sides in the thread.
func (n *Notifier) TutorMessage(db *gorm.DB, b *models.Booking, user *models.User, tutor *models.Tutor, studentEmail, subjectLine, messageBody string) error {
	data := newBookingMail(b, user, tutor)
	data.Subject = subjectLine
	data.Body = messageBody
	body, err := render("tutorMessage", data)
	if err != nil {
		return err
	}
	return n.enqueue(db, []string{studentEmail, tutor.Email}, "Message from Tutor - "+subjectLine, body)
}
