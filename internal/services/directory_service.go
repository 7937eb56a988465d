package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tutor-system2025/tutor-system/internal/dto"
	"github.com/tutor-system2025/tutor-system/internal/mail"
	"github.com/tutor-system2025/tutor-system/internal/models"
	"gorm.io/gorm"
)

const DefaultPageSize = 9

// DirectoryService owns the subject catalogue and the tutor directory,
// including the application/approval workflow.
type DirectoryService struct {
	db       *gorm.DB
	notifier *mail.Notifier
}

func NewDirectoryService(db *gorm.DB, notifier *mail.Notifier) *DirectoryService {
	return &DirectoryService{db: db, notifier: notifier}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	return page, limit
}

func (s *DirectoryService) ListSubjects(page, limit int) (*dto.SubjectListResponse, error) {
	page, limit = normalizePage(page, limit)

	var total int64
	if err := s.db.Model(&models.Subject{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var subjects []models.Subject
	if err := s.db.Offset((page - 1) * limit).Limit(limit).Find(&subjects).Error; err != nil {
		return nil, err
	}
	return &dto.SubjectListResponse{Subjects: subjects, Total: total}, nil
}

func (s *DirectoryService) AddSubject(name string) (*models.Subject, error) {
	if name == "" {
		return nil, NewValidationError("subject name required")
	}

	var existing models.Subject
	if err := s.db.Where("name = ?", name).First(&existing).Error; err == nil {
		return nil, ErrSubjectTaken
	}

	subject := models.Subject{ID: uuid.New(), Name: name}
	if err := s.db.Create(&subject).Error; err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}
	return &subject, nil
}

// RemoveSubject deletes the subject and strips its name from every tutor's
// subject list in the same transaction, so tutors never advertise a subject
// that no longer exists.
func (s *DirectoryService) RemoveSubject(id uuid.UUID) (*models.Subject, error) {
	var subject models.Subject
	if err := s.db.First(&subject, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&subject).Error; err != nil {
			return err
		}

		var tutors []models.Tutor
		if err := tx.Find(&tutors).Error; err != nil {
			return err
		}
		for i := range tutors {
			kept := tutors[i].Subjects[:0:0]
			removed := false
			for _, name := range tutors[i].Subjects {
				if name == subject.Name {
					removed = true
					continue
				}
				kept = append(kept, name)
			}
			if removed {
				if err := tx.Model(&tutors[i]).Update("subjects", kept).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// RegisterTutor files a tutoring application and notifies the manager.
func (s *DirectoryService) RegisterTutor(req *dto.TutorRegisterRequest) (*models.Tutor, error) {
	if req.FirstName == "" || req.Surname == "" || req.Email == "" ||
		len(req.Subjects) == 0 || req.Description == "" {
		return nil, NewValidationError("all fields are required")
	}

	var existing models.Tutor
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrTutorTaken
	}

	tutor := models.Tutor{
		ID:          uuid.New(),
		FirstName:   req.FirstName,
		Surname:     req.Surname,
		Email:       req.Email,
		Subjects:    req.Subjects,
		Description: req.Description,
		IsApproved:  false,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tutor).Error; err != nil {
			return err
		}
		return s.notifier.TutorRegistration(tx, &tutor)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register tutor: %w", err)
	}
	return &tutor, nil
}

// TutorsBySubject lists approved tutors advertising the subject name.
// Descriptions are withheld from the public listing.
func (s *DirectoryService) TutorsBySubject(subject string, page, limit int) (*dto.TutorListResponse, error) {
	page, limit = normalizePage(page, limit)

	var tutors []models.Tutor
	if err := s.db.Where("is_approved = ?", true).Find(&tutors).Error; err != nil {
		return nil, err
	}

	// Subjects live in a JSON column; membership is filtered here rather
	// than with driver-specific JSON operators.
	matched := make([]models.Tutor, 0, len(tutors))
	for _, t := range tutors {
		for _, name := range t.Subjects {
			if name == subject {
				matched = append(matched, t)
				break
			}
		}
	}

	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	views := make([]models.TutorPublicView, 0, end-start)
	for _, t := range matched[start:end] {
		views = append(views, t.PublicView())
	}
	return &dto.TutorListResponse{Tutors: views, Total: total}, nil
}

func (s *DirectoryService) ListApprovedTutors() ([]models.TutorPublicView, error) {
	var tutors []models.Tutor
	if err := s.db.Where("is_approved = ?", true).Find(&tutors).Error; err != nil {
		return nil, err
	}
	views := make([]models.TutorPublicView, 0, len(tutors))
	for _, t := range tutors {
		views = append(views, t.PublicView())
	}
	return views, nil
}

func (s *DirectoryService) ListAllTutors() ([]models.Tutor, error) {
	var tutors []models.Tutor
	err := s.db.Order("created_at DESC").Find(&tutors).Error
	return tutors, err
}

func (s *DirectoryService) ListPendingTutors() ([]models.Tutor, error) {
	var tutors []models.Tutor
	err := s.db.Where("is_approved = ?", false).Order("created_at DESC").Find(&tutors).Error
	return tutors, err
}

func (s *DirectoryService) getTutor(id uuid.UUID) (*models.Tutor, error) {
	var tutor models.Tutor
	if err := s.db.First(&tutor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTutorNotFound
		}
		return nil, err
	}
	return &tutor, nil
}

func (s *DirectoryService) ApproveTutor(id uuid.UUID) (*models.Tutor, error) {
	tutor, err := s.getTutor(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(tutor).Update("is_approved", true).Error; err != nil {
			return err
		}
		return s.notifier.TutorApproved(tx, tutor)
	})
	if err != nil {
		return nil, err
	}
	tutor.IsApproved = true
	return tutor, nil
}

// RejectTutor removes the pending application and notifies the applicant.
func (s *DirectoryService) RejectTutor(id uuid.UUID) (*models.Tutor, error) {
	tutor, err := s.getTutor(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(tutor).Error; err != nil {
			return err
		}
		return s.notifier.TutorRejected(tx, tutor)
	})
	if err != nil {
		return nil, err
	}
	return tutor, nil
}

func (s *DirectoryService) RemoveTutor(id uuid.UUID) (*models.Tutor, error) {
	tutor, err := s.getTutor(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(tutor).Error; err != nil {
			return err
		}
		return s.notifier.TutorRemoved(tx, tutor)
	})
	if err != nil {
		return nil, err
	}
	return tutor, nil
}

// AssignSubject adds one subject to the tutor's list if not already present.
func (s *DirectoryService) AssignSubject(tutorID, subjectID uuid.UUID) (*models.Tutor, error) {
	var subject models.Subject
	if err := s.db.First(&subject, "id = ?", subjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}

	tutor, err := s.getTutor(tutorID)
	if err != nil {
		return nil, err
	}

	for _, name := range tutor.Subjects {
		if name == subject.Name {
			return tutor, nil
		}
	}

	tutor.Subjects = append(tutor.Subjects, subject.Name)
	if err := s.db.Model(tutor).Update("subjects", tutor.Subjects).Error; err != nil {
		return nil, err
	}
	return tutor, nil
}

// AssignSubjects replaces the tutor's subject list wholesale with the names
// resolved from subjectIDs.
func (s *DirectoryService) AssignSubjects(tutorID uuid.UUID, subjectIDs []uuid.UUID) (*models.Tutor, error) {
	seen := make(map[uuid.UUID]struct{}, len(subjectIDs))
	unique := make([]uuid.UUID, 0, len(subjectIDs))
	for _, id := range subjectIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	var subjects []models.Subject
	if err := s.db.Where("id IN ?", unique).Find(&subjects).Error; err != nil {
		return nil, err
	}
	if len(subjects) != len(unique) {
		return nil, ErrSubjectNotFound
	}

	tutor, err := s.getTutor(tutorID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(subjects))
	for _, sub := range subjects {
		names = append(names, sub.Name)
	}

	tutor.Subjects = names
	if err := s.db.Model(tutor).Update("subjects", tutor.Subjects).Error; err != nil {
		return nil, err
	}
	return tutor, nil
}
