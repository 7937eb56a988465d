package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tutor-system2025/tutor-system/internal/config"
	"github.com/tutor-system2025/tutor-system/internal/database"
	"github.com/tutor-system2025/tutor-system/internal/dto"
	"github.com/tutor-system2025/tutor-system/internal/mail"
	"github.com/tutor-system2025/tutor-system/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testManagerEmail = "manager@example.com"

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

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		JWTExpiry:       24 * time.Hour,
		ManagerEmail:    testManagerEmail,
		ManagerPassword: "manager-password",
	}
}

func newFixture(t *testing.T) (*gorm.DB, *AuthService, *DirectoryService, *BookingService) {
	t.Helper()
	db := setupTestDB(t)
	cfg := testConfig()
	notifier := mail.NewNotifier(cfg.ManagerEmail)
	return db,
		NewAuthService(db, cfg),
		NewDirectoryService(db, notifier),
		NewBookingService(db, notifier)
}

func registerUser(t *testing.T, auth *AuthService, email string) *models.User {
	t.Helper()
	user, err := auth.Register(&dto.RegisterRequest{
		FirstName: "Test",
		Surname:   "Student",
		Email:     email,
		Password:  "password123",
	})
	require.NoError(t, err)
	return user
}

func approvedTutor(t *testing.T, db *gorm.DB, directory *DirectoryService, email string, subjects ...string) *models.Tutor {
	t.Helper()
	tutor, err := directory.RegisterTutor(&dto.TutorRegisterRequest{
		FirstName:   "Test",
		Surname:     "Tutor",
		Email:       email,
		Subjects:    subjects,
		Description: "Experienced tutor",
	})
	require.NoError(t, err)
	approved, err := directory.ApproveTutor(tutor.ID)
	require.NoError(t, err)
	return approved
}

func addSubject(t *testing.T, directory *DirectoryService, name string) *models.Subject {
	t.Helper()
	subject, err := directory.AddSubject(name)
	require.NoError(t, err)
	return subject
}

func outboxMessages(t *testing.T, db *gorm.DB) []models.EmailMessage {
	t.Helper()
	var messages []models.EmailMessage
	require.NoError(t, db.Order("created_at").Find(&messages).Error)
	return messages
}
