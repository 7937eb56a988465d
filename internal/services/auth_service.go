package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tutor-system2025/tutor-system/internal/config"
	"github.com/tutor-system2025/tutor-system/internal/dto"
	"github.com/tutor-system2025/tutor-system/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*models.User, error) {
	if req.FirstName == "" || req.Surname == "" || req.Email == "" || req.Password == "" {
		return nil, NewValidationError("all fields are required")
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:        uuid.New(),
		FirstName: req.FirstName,
		Surname:   req.Surname,
		Email:     req.Email,
		Password:  string(hash),
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User: dto.UserResponse{
			ID:        user.ID,
			FirstName: user.FirstName,
			Surname:   user.Surname,
			Email:     user.Email,
			IsAdmin:   user.IsAdmin,
		},
	}, nil
}

// UpdateProfile changes the caller's own identity fields; empty fields keep
// their current values.
func (s *AuthService) UpdateProfile(userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.Surname != "" {
		user.Surname = req.Surname
	}
	if req.Email != "" && req.Email != user.Email {
		var taken models.User
		if err := s.db.Where("email = ? AND id <> ?", req.Email, userID).First(&taken).Error; err == nil {
			return nil, ErrEmailTaken
		}
		user.Email = req.Email
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &user, nil
}

// SeedManager creates the admin account on first startup if it is absent.
func (s *AuthService) SeedManager() error {
	if s.cfg.ManagerEmail == "" || s.cfg.ManagerPassword == "" {
		slog.Warn("manager credentials not configured, skipping seed")
		return nil
	}

	var existing models.User
	if err := s.db.Where("email = ?", s.cfg.ManagerEmail).First(&existing).Error; err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.ManagerPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash manager password: %w", err)
	}

	manager := models.User{
		ID:        uuid.New(),
		FirstName: "Manager",
		Surname:   "Account",
		Email:     s.cfg.ManagerEmail,
		Password:  string(hash),
		IsAdmin:   true,
	}
	if err := s.db.Create(&manager).Error; err != nil {
		return fmt.Errorf("failed to create manager account: %w", err)
	}

	slog.Info("default manager account created", "email", s.cfg.ManagerEmail)
	return nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"email":    user.Email,
		"name":     user.FirstName + " " + user.Surname,
		"is_admin": user.IsAdmin,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(s.cfg.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
