package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tutor-system2025/tutor-system/internal/dto"
	"github.com/tutor-system2025/tutor-system/internal/services"
)

// DirectoryHandler serves the public subject/tutor directory and the
// manager's administration endpoints.
type DirectoryHandler struct {
	directory *services.DirectoryService
}

func NewDirectoryHandler(directory *services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

func (h *DirectoryHandler) ListSubjects(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", services.DefaultPageSize)

	resp, err := h.directory.ListSubjects(page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

func (h *DirectoryHandler) TutorsBySubject(c *fiber.Ctx) error {
	subject, err := subjectParam(c)
	if err != nil {
		return badRequest(c, "Invalid subject name")
	}
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", services.DefaultPageSize)

	resp, err := h.directory.TutorsBySubject(subject, page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

func (h *DirectoryHandler) ListApprovedTutors(c *fiber.Ctx) error {
	tutors, err := h.directory.ListApprovedTutors()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(tutors)
}

func (h *DirectoryHandler) RegisterTutor(c *fiber.Ctx) error {
	var req dto.TutorRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if _, err := h.directory.RegisterTutor(&req); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{
		Message: "Tutor registration submitted successfully",
	})
}

// --- manager endpoints ---

func (h *DirectoryHandler) AddSubject(c *fiber.Ctx) error {
	var req dto.AddSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	subject, err := h.directory.AddSubject(req.Name)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Subject added",
		"subject": subject,
	})
}

func (h *DirectoryHandler) RemoveSubject(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid subject ID")
	}

	subject, err := h.directory.RemoveSubject(id)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Subject removed",
		"subject": subject,
	})
}

func (h *DirectoryHandler) ListAllTutors(c *fiber.Ctx) error {
	tutors, err := h.directory.ListAllTutors()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(tutors)
}

func (h *DirectoryHandler) ListPendingTutors(c *fiber.Ctx) error {
	tutors, err := h.directory.ListPendingTutors()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(tutors)
}

func (h *DirectoryHandler) ApproveTutor(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid tutor ID")
	}

	tutor, err := h.directory.ApproveTutor(id)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Tutor approved successfully",
		"tutor":   tutor,
	})
}

func (h *DirectoryHandler) RejectTutor(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid tutor ID")
	}

	tutor, err := h.directory.RejectTutor(id)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Tutor application rejected and removed",
		"tutor":   tutor,
	})
}

func (h *DirectoryHandler) RemoveTutor(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid tutor ID")
	}

	tutor, err := h.directory.RemoveTutor(id)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Tutor removed successfully",
		"tutor":   tutor,
	})
}

func (h *DirectoryHandler) AssignSubject(c *fiber.Ctx) error {
	tutorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid tutor ID")
	}

	var req dto.AssignSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	subjectID, err := uuid.Parse(req.SubjectID)
	if err != nil {
		return badRequest(c, "Invalid subject ID")
	}

	tutor, err := h.directory.AssignSubject(tutorID, subjectID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Tutor assigned to subject",
		"tutor":   tutor,
	})
}

func (h *DirectoryHandler) AssignSubjects(c *fiber.Ctx) error {
	tutorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid tutor ID")
	}

	var req dto.AssignSubjectsRequest
	if err := c.BodyParser(&req); err != nil || req.SubjectIDs == nil {
		return badRequest(c, "subjectIds must be an array")
	}

	ids := make([]uuid.UUID, 0, len(req.SubjectIDs))
	for _, raw := range req.SubjectIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid subject ID")
		}
		ids = append(ids, id)
	}

	tutor, err := h.directory.AssignSubjects(tutorID, ids)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Tutor assigned to multiple subjects",
		"tutor":   tutor,
	})
}

// subjectParam decodes the :subject path segment; subject names may
// contain spaces.
func subjectParam(c *fiber.Ctx) (string, error) {
	return url.PathUnescape(c.Params("subject"))
}
