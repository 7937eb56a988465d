package mail

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutor-system2025/tutor-system/internal/database"
	"github.com/tutor-system2025/tutor-system/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// fakeSender fails the first `failures` deliveries, then succeeds.
type fakeSender struct {
	failures int
	sent     []models.EmailMessage
}

func (f *fakeSender) Send(_ context.Context, msg *models.EmailMessage) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, *msg)
	return nil
}

func enqueueTest(t *testing.T, db *gorm.DB) models.EmailMessage {
	t.Helper()
	msg := models.EmailMessage{
		ID:         uuid.New(),
		Recipients: []string{"student@x.com"},
		Subject:    "Test",
		Body:       "<p>hello</p>",
		Status:     models.EmailPending,
		SendAfter:  time.Now().Add(-time.Second),
	}
	require.NoError(t, db.Create(&msg).Error)
	return msg
}

func reload(t *testing.T, db *gorm.DB, id uuid.UUID) models.EmailMessage {
	t.Helper()
	var msg models.EmailMessage
	require.NoError(t, db.First(&msg, "id = ?", id).Error)
	return msg
}

func TestWorkerMarksSent(t *testing.T) {
	db := setupTestDB(t)
	sender := &fakeSender{}
	worker := NewWorker(db, sender)

	msg := enqueueTest(t, db)
	worker.DrainOnce(context.Background())

	require.Len(t, sender.sent, 1)
	assert.Equal(t, msg.ID, sender.sent[0].ID)

	got := reload(t, db, msg.ID)
	assert.Equal(t, models.EmailSent, got.Status)
	assert.Equal(t, 1, got.Attempts)
	require.NotNil(t, got.SentAt)
}

func TestWorkerBacksOffAfterFailure(t *testing.T) {
	db := setupTestDB(t)
	sender := &fakeSender{failures: 1}
	worker := NewWorker(db, sender)

	msg := enqueueTest(t, db)
	worker.DrainOnce(context.Background())

	got := reload(t, db, msg.ID)
	assert.Equal(t, models.EmailPending, got.Status)
	assert.Equal(t, 1, got.Attempts)
	assert.Equal(t, "smtp unavailable", got.LastError)
	assert.True(t, got.SendAfter.After(time.Now()), "retry must be deferred")

	// Still deferred, so another pass must not pick it up.
	worker.DrainOnce(context.Background())
	assert.Empty(t, sender.sent)

	// Once due again, delivery succeeds.
	require.NoError(t, db.Model(&models.EmailMessage{}).
		Where("id = ?", msg.ID).
		Update("send_after", time.Now().Add(-time.Second)).Error)
	worker.DrainOnce(context.Background())

	got = reload(t, db, msg.ID)
	assert.Equal(t, models.EmailSent, got.Status)
	assert.Equal(t, 2, got.Attempts)
}

func TestWorkerGivesUpAfterMaxAttempts(t *testing.T) {
	db := setupTestDB(t)
	sender := &fakeSender{failures: maxAttempts}
	worker := NewWorker(db, sender)

	msg := enqueueTest(t, db)
	for i := 0; i < maxAttempts; i++ {
		require.NoError(t, db.Model(&models.EmailMessage{}).
			Where("id = ?", msg.ID).
			Update("send_after", time.Now().Add(-time.Second)).Error)
		worker.DrainOnce(context.Background())
	}

	got := reload(t, db, msg.ID)
	assert.Equal(t, models.EmailFailed, got.Status)
	assert.Equal(t, maxAttempts, got.Attempts)
	assert.Empty(t, sender.sent)

	// Failed messages are never retried.
	require.NoError(t, db.Model(&models.EmailMessage{}).
		Where("id = ?", msg.ID).
		Update("send_after", time.Now().Add(-time.Second)).Error)
	worker.DrainOnce(context.Background())
	assert.Empty(t, sender.sent)
}

func TestBackoffDoubles(t *testing.T) {
	assert.Equal(t, 30*time.Second, backoff(1))
	assert.Equal(t, time.Minute, backoff(2))
	assert.Equal(t, 2*time.Minute, backoff(3))
	assert.Equal(t, 4*time.Minute, backoff(4))
}

func TestNl2brEscapesMarkup(t *testing.T) {
	got := string(nl2br("<script>alert(1)</script>\nnext line"))
	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, "&lt;script&gt;")
	assert.Contains(t, got, "<br>")
}

func TestTutorMessageBodyIsEscaped(t *testing.T) {
	db := setupTestDB(t)
	notifier := NewNotifier("manager@example.com")

	booking := &models.Booking{Subject: "Math", TimePeriod: "10:00-11:00", Date: time.Now()}
	user := &models.User{FirstName: "Jane", Surname: "Doe", Email: "student@x.com"}
	tutor := &models.Tutor{FirstName: "John", Surname: "Smith", Email: "tutor@x.com"}

	err := notifier.TutorMessage(db, booking, user, tutor,
		"student@x.com", "Schedule", "<img src=x onerror=alert(1)>\nSecond line")
	require.NoError(t, err)

	var msg models.EmailMessage
	require.NoError(t, db.First(&msg).Error)
	assert.Equal(t, "Message from Tutor - Schedule", msg.Subject)
	assert.NotContains(t, msg.Body, "<img")
	assert.Contains(t, msg.Body, "&lt;img")
	assert.Contains(t, msg.Body, "<br>")
}

func TestSessionCompletedReportFields(t *testing.T) {
	db := setupTestDB(t)
	notifier := NewNotifier("manager@example.com")

	booking := &models.Booking{Subject: "Physics", TimePeriod: "", Date: time.Now()}
	user := &models.User{FirstName: "Jane", Surname: "Doe", Email: "student@x.com"}
	tutor := &models.Tutor{FirstName: "John", Surname: "Smith", Email: "tutor@x.com"}

	err := notifier.SessionCompleted(db, booking, user, tutor, "90 minutes")
	require.NoError(t, err)

	var msg models.EmailMessage
	require.NoError(t, db.First(&msg).Error)
	assert.Equal(t, []string{"manager@example.com"}, []string(msg.Recipients))
	assert.Equal(t, "Session Completed - Physics", msg.Subject)
	assert.Contains(t, msg.Body, "90 minutes")
	assert.Contains(t, msg.Body, "Not specified")
}
