package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutor-system2025/tutor-system/internal/dto"
	"github.com/tutor-system2025/tutor-system/internal/models"
	"gorm.io/gorm"
)

func createBooking(t *testing.T, bookings *BookingService, userID uuid.UUID, tutorID uuid.UUID) *models.Booking {
	t.Helper()
	booking, err := bookings.Create(userID, &dto.CreateBookingRequest{
		TutorID:     tutorID.String(),
		Subject:     "Math",
		TimePeriod:  "10:00-11:00",
		Description: "Algebra help",
		Date:        "2025-01-01T10:00",
	})
	require.NoError(t, err)
	return booking
}

func bookingFixture(t *testing.T) (*gorm.DB, *AuthService, *BookingService, *models.User, *models.Tutor) {
	t.Helper()
	db, auth, directory, bookings := newFixture(t)
	addSubject(t, directory, "Math")
	user := registerUser(t, auth, "student@x.com")
	tutor := approvedTutor(t, db, directory, "tutor@x.com", "Math")
	return db, auth, bookings, user, tutor
}

func TestCreateBooking(t *testing.T) {
	db, _, bookings, user, tutor := bookingFixture(t)

	booking := createBooking(t, bookings, user.ID, tutor.ID)
	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Equal(t, user.ID, booking.UserID)
	assert.Equal(t, tutor.ID, booking.TutorID)

	messages := outboxMessages(t, db)
	last := messages[len(messages)-1]
	assert.Equal(t, "New Booking Request", last.Subject)
	assert.Equal(t, []string{"tutor@x.com"}, []string(last.Recipients))
}

func TestCreateBookingUnknownTutor(t *testing.T) {
	_, _, bookings, user, _ := bookingFixture(t)

	_, err := bookings.Create(user.ID, &dto.CreateBookingRequest{
		TutorID:     uuid.NewString(),
		Subject:     "Math",
		TimePeriod:  "10:00-11:00",
		Description: "help",
		Date:        "2025-01-01",
	})
	assert.ErrorIs(t, err, ErrTutorNotFound)
}

func TestCreateBookingMissingFields(t *testing.T) {
	_, _, bookings, user, tutor := bookingFixture(t)

	_, err := bookings.Create(user.ID, &dto.CreateBookingRequest{
		TutorID: tutor.ID.String(),
		Subject: "Math",
	})
	assert.True(t, IsValidation(err))
}

func TestListsSeeOwnBookingsOnly(t *testing.T) {
	_, auth, bookings, user, tutor := bookingFixture(t)
	other := registerUser(t, auth, "other@x.com")

	booking := createBooking(t, bookings, user.ID, tutor.ID)

	mine, err := bookings.ListForUser(user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, booking.ID, mine[0].ID)
	require.NotNil(t, mine[0].Tutor)
	assert.Equal(t, "tutor@x.com", mine[0].Tutor.Email)

	theirs, err := bookings.ListForUser(other.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	assigned, err := bookings.ListForTutor("tutor@x.com")
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	require.NotNil(t, assigned[0].User)
	assert.Equal(t, "student@x.com", assigned[0].User.Email)

	_, err = bookings.ListForTutor("nobody@x.com")
	assert.ErrorIs(t, err, ErrTutorNotFound)
}

func TestUpdateKeepsUnsetFieldsAndReferences(t *testing.T) {
	_, _, bookings, user, tutor := bookingFixture(t)
	booking := createBooking(t, bookings, user.ID, tutor.ID)

	updated, err := bookings.Update(booking.ID, user.ID, &dto.UpdateBookingRequest{
		TimePeriod: "14:00-15:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "14:00-15:00", updated.TimePeriod)
	assert.Equal(t, "Algebra help", updated.Description)
	assert.Equal(t, user.ID, updated.UserID)
	assert.Equal(t, tutor.ID, updated.TutorID)
}

func TestUpdateByNonOwnerReadsAsNotFound(t *testing.T) {
	_, auth, bookings, user, tutor := bookingFixture(t)
	other := registerUser(t, auth, "other@x.com")
	booking := createBooking(t, bookings, user.ID, tutor.ID)

	_, err := bookings.Update(booking.ID, other.ID, &dto.UpdateBookingRequest{
		TimePeriod: "hijacked",
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancelRemovesBooking(t *testing.T) {
	_, _, bookings, user, tutor := bookingFixture(t)
	booking := createBooking(t, bookings, user.ID, tutor.ID)

	require.NoError(t, bookings.Cancel(booking.ID, user.ID))

	mine, err := bookings.ListForUser(user.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	err = bookings.Cancel(booking.ID, user.ID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancelAfterTutorRemoved(t *testing.T) {
	db, auth, directory, bookings := newFixture(t)
	addSubject(t, directory, "Math")
	user := registerUser(t, auth, "student@x.com")
	tutor := approvedTutor(t, db, directory, "tutor@x.com", "Math")
	booking := createBooking(t, bookings, user.ID, tutor.ID)

	_, err := directory.RemoveTutor(tutor.ID)
	require.NoError(t, err)

	before := len(outboxMessages(t, db))
	require.NoError(t, bookings.Cancel(booking.ID, user.ID))

	mine, err := bookings.ListForUser(user.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	// No recipient left, so no cancellation email is queued.
	assert.Len(t, outboxMessages(t, db), before)
}

func TestUpdateAfterTutorRemoved(t *testing.T) {
	db, auth, directory, bookings := newFixture(t)
	addSubject(t, directory, "Math")
	user := registerUser(t, auth, "student@x.com")
	tutor := approvedTutor(t, db, directory, "tutor@x.com", "Math")
	booking := createBooking(t, bookings, user.ID, tutor.ID)

	_, err := directory.RemoveTutor(tutor.ID)
	require.NoError(t, err)

	before := len(outboxMessages(t, db))
	updated, err := bookings.Update(booking.ID, user.ID, &dto.UpdateBookingRequest{
		TimePeriod: "16:00-17:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "16:00-17:00", updated.TimePeriod)
	assert.Len(t, outboxMessages(t, db), before)
}

func TestCancelAcceptedBookingRefused(t *testing.T) {
	_, _, bookings, user, tutor := bookingFixture(t)
	booking := createBooking(t, bookings, user.ID, tutor.ID)

	_, err := bookings.Accept(booking.ID, tutor.Email)
	require.NoError(t, err)

	err = bookings.Cancel(booking.ID, user.ID)
	assert.ErrorIs(t, err, ErrBookingNotOpen)

	mine, err := bookings.ListForUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestAcceptOnlyByAssignedTutor(t *testing.T) {
	db, _, bookings, user, tutor := bookingFixture(t)
	booking := createBooking(t, bookings, user.ID, tutor.ID)

	otherTutor := models.Tutor{
		ID:         uuid.New(),
		FirstName:  "Other",
		Surname:    "Tutor",
		Email:      "other-tutor@x.com",
		IsApproved: true,
	}
	require.NoError(t, db.Create(&otherTutor).Error)

	_, err := bookings.Accept(booking.ID, "other-tutor@x.com")
	assert.ErrorIs(t, err, ErrNotAssignedTutor)

	var reloaded models.Booking
	require.NoError(t, db.First(&reloaded, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingPending, reloaded.Status)

	accepted, err := bookings.Accept(booking.ID, tutor.Email)
	require.NoError(t, err)
	assert.Equal(t, models.BookingAccepted, accepted.Status)

	messages := outboxMessages(t, db)
	last := messages[len(messages)-1]
	assert.Equal(t, "Booking Accepted - Tutoring Session Confirmed", last.Subject)
	assert.Equal(t, []string{"student@x.com"}, []string(last.Recipients))
}

func TestAcceptIdempotent(t *testing.T) {
	db, _, bookings, user, tutor := bookingFixture(t)
	booking := createBooking(t, bookings, user.ID, tutor.ID)

	_, err := bookings.Accept(booking.ID, tutor.Email)
	require.NoError(t, err)
	before := len(outboxMessages(t, db))

	_, err = bookings.Accept(booking.ID, tutor.Email)
	require.NoError(t, err)
	assert.Len(t, outboxMessages(t, db), before, "repeat accept must not queue another email")
}

func TestCompleteRequiresDuration(t *testing.T) {
	_, _, bookings, user, tutor := bookingFixture(t)
	booking := createBooking(t, bookings, user.ID, tutor.ID)

	_, err := bookings.Complete(booking.ID, tutor.Email, "")
	assert.True(t, IsValidation(err))
}

func TestCompleteReportsToManager(t *testing.T) {
	db, _, bookings, user, tutor := bookingFixture(t)
	booking := createBooking(t, bookings, user.ID, tutor.ID)

	_, err := bookings.Accept(booking.ID, tutor.Email)
	require.NoError(t, err)

	completed, err := bookings.Complete(booking.ID, tutor.Email, "1 hour")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, completed.Status)

	messages := outboxMessages(t, db)
	last := messages[len(messages)-1]
	assert.Equal(t, "Session Completed - Math", last.Subject)
	assert.Equal(t, []string{testManagerEmail}, []string(last.Recipients))

	// Repeat completion is a no-op.
	before := len(messages)
	_, err = bookings.Complete(booking.ID, tutor.Email, "1 hour")
	require.NoError(t, err)
	assert.Len(t, outboxMessages(t, db), before)
}

func TestMessageGoesToStudentAndTutor(t *testing.T) {
	db, _, bookings, user, tutor := bookingFixture(t)
	booking := createBooking(t, bookings, user.ID, tutor.ID)

	err := bookings.Message(booking.ID, tutor.Email, &dto.BookingMessageRequest{
		StudentEmail:   "student@x.com",
		Subject:        "Math session",
		MessageContent: "See you\ntomorrow",
	})
	require.NoError(t, err)

	messages := outboxMessages(t, db)
	last := messages[len(messages)-1]
	assert.Equal(t, "Message from Tutor - Math session", last.Subject)
	assert.Equal(t, []string{"student@x.com", "tutor@x.com"}, []string(last.Recipients))
	assert.Contains(t, last.Body, "See you<br>tomorrow")
}

func TestMessageByNonAssignedTutorForbidden(t *testing.T) {
	db, _, bookings, user, tutor := bookingFixture(t)
	booking := createBooking(t, bookings, user.ID, tutor.ID)

	otherTutor := models.Tutor{
		ID:         uuid.New(),
		FirstName:  "Other",
		Surname:    "Tutor",
		Email:      "other-tutor@x.com",
		IsApproved: true,
	}
	require.NoError(t, db.Create(&otherTutor).Error)

	err := bookings.Message(booking.ID, "other-tutor@x.com", &dto.BookingMessageRequest{
		StudentEmail:   "student@x.com",
		Subject:        "s",
		MessageContent: "m",
	})
	assert.ErrorIs(t, err, ErrNotAssignedTutor)
}

func TestListAllJoinsBothSides(t *testing.T) {
	_, _, bookings, user, tutor := bookingFixture(t)
	createBooking(t, bookings, user.ID, tutor.ID)

	all, err := bookings.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].User)
	require.NotNil(t, all[0].Tutor)
	assert.Equal(t, "student@x.com", all[0].User.Email)
	assert.Equal(t, "tutor@x.com", all[0].Tutor.Email)
}
