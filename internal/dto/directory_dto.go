package dto

import "github.com/tutor-system2025/tutor-system/internal/models"

type TutorRegisterRequest struct {
	FirstName   string   `json:"firstName"`
	Surname     string   `json:"surname"`
	Email       string   `json:"email"`
	Subjects    []string `json:"subjects"`
	Description string   `json:"description"`
}

type AddSubjectRequest struct {
	Name string `json:"name"`
}

type AssignSubjectRequest struct {
	SubjectID string `json:"subjectId"`
}

type AssignSubjectsRequest struct {
	SubjectIDs []string `json:"subjectIds"`
}

type SubjectListResponse struct {
	Subjects []models.Subject `json:"subjects"`
	Total    int64            `json:"total"`
}

type TutorListResponse struct {
	Tutors []models.TutorPublicView `json:"tutors"`
	Total  int64                    `json:"total"`
}
