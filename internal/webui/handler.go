package webui

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tutor-system2025/tutor-system/internal/config"
	"github.com/tutor-system2025/tutor-system/internal/dto"
	"github.com/tutor-system2025/tutor-system/internal/services"
)

// Cookie names carrying the parts of State that survive across requests:
// the session credential, the navigation stack, selections, and the flash.
const (
	cookieSession = "session"
	cookieView    = "ui_view"
	cookieHistory = "ui_history"
	cookieSubject = "ui_subject"
	cookieTutor   = "ui_tutor"
	cookieFlash   = "ui_flash"
)

// Handler serves the server-rendered UI. Every GET rebuilds State from the
// store plus the navigation cookies, runs it through the reducer, and
// renders the resulting view; every POST calls a service, sets a flash, and
// redirects.
type Handler struct {
	cfg       *config.Config
	auth      *services.AuthService
	directory *services.DirectoryService
	bookings  *services.BookingService
}

func NewHandler(cfg *config.Config, auth *services.AuthService, directory *services.DirectoryService, bookings *services.BookingService) *Handler {
	return &Handler{cfg: cfg, auth: auth, directory: directory, bookings: bookings}
}

func (h *Handler) RegisterRoutes(app fiber.Router) {
	ui := app.Group("/app")
	ui.Get("/", h.Home)
	ui.Get("/back", h.Back)
	ui.Get("/logout", h.Logout)

	ui.Post("/login", h.Login)
	ui.Post("/register", h.Register)
	ui.Post("/book", h.Book)
	ui.Post("/cancel", h.CancelBooking)
	ui.Post("/accept", h.AcceptBooking)
	ui.Post("/complete", h.CompleteBooking)
	ui.Post("/becomeTutor", h.BecomeTutor)
	ui.Post("/profile", h.UpdateProfile)

	ui.Post("/admin/addSubject", h.AddSubject)
	ui.Post("/admin/removeSubject", h.RemoveSubject)
	ui.Post("/admin/approveTutor", h.ApproveTutor)
	ui.Post("/admin/rejectTutor", h.RejectTutor)

	// Must be last: catches every view name.
	ui.Get("/:view", h.View)
}

// --- session cookie ---

func (h *Handler) session(c *fiber.Ctx) *Session {
	raw := c.Cookies(cookieSession)
	if raw == "" {
		return nil
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(h.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil
	}
	email, _ := claims["email"].(string)
	isAdmin, _ := claims["is_admin"].(bool)
	name, _ := claims["name"].(string)

	return &Session{UserID: userID, Name: name, Email: email, IsManager: isAdmin}
}

func setCookie(c *fiber.Ctx, name, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/app",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:    name,
		Value:   "",
		Path:    "/app",
		Expires: time.Now().Add(-time.Hour),
	})
}

func (h *Handler) flash(c *fiber.Ctx, kind, text string) {
	setCookie(c, cookieFlash, kind+"|"+text)
}

// --- state assembly ---

func (h *Handler) loadState(c *fiber.Ctx) State {
	s := NewState()
	s.Session = h.session(c)

	if v := c.Cookies(cookieView); v != "" && KnownView(v) {
		s.View = v
	}
	if raw := c.Cookies(cookieHistory); raw != "" {
		for _, v := range strings.Split(raw, ",") {
			if KnownView(v) {
				s.History = append(s.History, v)
			}
		}
	}
	if raw := c.Cookies(cookieFlash); raw != "" {
		if kind, text, ok := strings.Cut(raw, "|"); ok {
			s.Flash = &Flash{Kind: kind, Text: text}
		}
		clearCookie(c, cookieFlash)
	}

	if id, err := uuid.Parse(c.Cookies(cookieSubject)); err == nil {
		if resp, err := h.directory.ListSubjects(1, 1000); err == nil {
			for i := range resp.Subjects {
				if resp.Subjects[i].ID == id {
					s.SelectedSubject = &resp.Subjects[i]
					break
				}
			}
		}
	}
	return s
}

func (h *Handler) saveNav(c *fiber.Ctx, s State) {
	setCookie(c, cookieView, s.View)
	if len(s.History) == 0 {
		clearCookie(c, cookieHistory)
	} else {
		setCookie(c, cookieHistory, strings.Join(s.History, ","))
	}
}

// populate fetches the entity slices the target view reads.
func (h *Handler) populate(c *fiber.Ctx, s *State) {
	switch s.View {
	case ViewSubjects:
		if resp, err := h.directory.ListSubjects(1, 1000); err == nil {
			s.Subjects = resp.Subjects
		}

	case ViewTutors:
		if id, err := uuid.Parse(c.Query("subject")); err == nil {
			setCookie(c, cookieSubject, id.String())
			if resp, err := h.directory.ListSubjects(1, 1000); err == nil {
				for i := range resp.Subjects {
					if resp.Subjects[i].ID == id {
						s.SelectedSubject = &resp.Subjects[i]
						break
					}
				}
			}
		}
		if s.SelectedSubject != nil {
			if resp, err := h.directory.TutorsBySubject(s.SelectedSubject.Name, 1, 1000); err == nil {
				s.Tutors = resp.Tutors
			}
		}

	case ViewBookingForm:
		raw := c.Query("tutor")
		if raw == "" {
			raw = c.Cookies(cookieTutor)
		}
		if id, err := uuid.Parse(raw); err == nil {
			setCookie(c, cookieTutor, id.String())
			if tutors, err := h.directory.ListApprovedTutors(); err == nil {
				for i := range tutors {
					if tutors[i].ID == id {
						s.SelectedTutor = &tutors[i]
						break
					}
				}
			}
		}

	case ViewMyBookings:
		if s.Session != nil {
			if bookings, err := h.bookings.ListForUser(s.Session.UserID); err == nil {
				s.MyBookings = bookings
			}
		}

	case ViewTutorBookings:
		if s.Session != nil {
			if bookings, err := h.bookings.ListForTutor(s.Session.Email); err == nil {
				s.TutorBookings = bookings
			}
		}

	case ViewManager:
		if resp, err := h.directory.ListSubjects(1, 1000); err == nil {
			s.Subjects = resp.Subjects
		}
		if tutors, err := h.directory.ListPendingTutors(); err == nil {
			s.TutorRequests = tutors
		}
		if tutors, err := h.directory.ListAllTutors(); err == nil {
			s.AllTutors = tutors
		}
		if bookings, err := h.bookings.ListAll(); err == nil {
			s.AllBookings = bookings
		}
	}
}

func (h *Handler) render(c *fiber.Ctx, s State) error {
	h.populate(c, &s)
	markup, err := Render(s)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "view render failed")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(string(markup))
}

// --- navigation ---

func (h *Handler) Home(c *fiber.Ctx) error {
	if sess := h.session(c); sess != nil {
		if sess.IsManager {
			return c.Redirect("/app/" + ViewManager)
		}
		return c.Redirect("/app/" + ViewSubjects)
	}
	return c.Redirect("/app/" + ViewLogin)
}

func (h *Handler) View(c *fiber.Ctx) error {
	target := c.Params("view")
	if !KnownView(target) {
		return c.Status(fiber.StatusNotFound).SendString("Unknown view")
	}

	s := h.loadState(c)
	if requiresSession(target) && s.Session == nil {
		s = Reduce(s, SetFlash{Kind: "error", Text: "Please log in first."})
		s.View = ViewLogin
		h.saveNav(c, s)
		return h.render(c, s)
	}
	if target == ViewManager && (s.Session == nil || !s.Session.IsManager) {
		return c.Status(fiber.StatusForbidden).SendString("Manager access required")
	}

	s = Reduce(s, Navigate{View: target})
	h.saveNav(c, s)
	return h.render(c, s)
}

func (h *Handler) Back(c *fiber.Ctx) error {
	s := h.loadState(c)
	s = Reduce(s, Back{})
	h.saveNav(c, s)
	return c.Redirect("/app/" + s.View)
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	for _, name := range []string{cookieSession, cookieView, cookieHistory, cookieSubject, cookieTutor} {
		clearCookie(c, name)
	}
	return c.Redirect("/app/" + ViewLogin)
}

func requiresSession(view string) bool {
	switch view {
	case ViewLogin, ViewRegister, ViewBecomeTutor:
		return false
	}
	return true
}

// --- actions ---

func (h *Handler) Login(c *fiber.Ctx) error {
	resp, err := h.auth.Login(&dto.LoginRequest{
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	})
	if err != nil {
		h.flash(c, "error", "Invalid email or password.")
		return c.Redirect("/app/" + ViewLogin)
	}

	setCookie(c, cookieSession, resp.Token)
	s := Reduce(h.loadState(c), SignIn{Session: Session{
		UserID:    resp.User.ID,
		Name:      resp.User.FirstName + " " + resp.User.Surname,
		Email:     resp.User.Email,
		IsManager: resp.User.IsAdmin,
	}})
	h.saveNav(c, s)
	return c.Redirect("/app/" + s.View)
}

func (h *Handler) Register(c *fiber.Ctx) error {
	_, err := h.auth.Register(&dto.RegisterRequest{
		FirstName: c.FormValue("firstName"),
		Surname:   c.FormValue("surname"),
		Email:     c.FormValue("email"),
		Password:  c.FormValue("password"),
	})
	if err != nil {
		h.flash(c, "error", err.Error())
		return c.Redirect("/app/" + ViewRegister)
	}
	h.flash(c, "success", "Registration successful! Please login.")
	return c.Redirect("/app/" + ViewLogin)
}

func (h *Handler) Book(c *fiber.Ctx) error {
	sess := h.session(c)
	if sess == nil {
		return c.Redirect("/app/" + ViewLogin)
	}

	_, err := h.bookings.Create(sess.UserID, &dto.CreateBookingRequest{
		TutorID:     c.FormValue("tutorId"),
		Subject:     c.FormValue("subject"),
		TimePeriod:  c.FormValue("timePeriod"),
		Description: c.FormValue("description"),
		Date:        c.FormValue("date"),
	})
	if err != nil {
		h.flash(c, "error", err.Error())
		return c.Redirect("/app/" + ViewBookingForm)
	}
	h.flash(c, "success", "Booking submitted! The tutor has been notified.")
	return c.Redirect("/app/" + ViewMyBookings)
}

func (h *Handler) CancelBooking(c *fiber.Ctx) error {
	sess := h.session(c)
	if sess == nil {
		return c.Redirect("/app/" + ViewLogin)
	}

	id, err := uuid.Parse(c.FormValue("bookingId"))
	if err == nil {
		err = h.bookings.Cancel(id, sess.UserID)
	}
	if err != nil {
		h.flash(c, "error", "Could not cancel the booking.")
	} else {
		h.flash(c, "success", "Booking cancelled.")
	}
	return c.Redirect("/app/" + ViewMyBookings)
}

func (h *Handler) AcceptBooking(c *fiber.Ctx) error {
	sess := h.session(c)
	if sess == nil {
		return c.Redirect("/app/" + ViewLogin)
	}

	id, err := uuid.Parse(c.FormValue("bookingId"))
	if err == nil {
		_, err = h.bookings.Accept(id, sess.Email)
	}
	if err != nil {
		h.flash(c, "error", "Could not accept the booking.")
	} else {
		h.flash(c, "success", "Booking accepted. The student has been notified.")
	}
	return c.Redirect("/app/" + ViewTutorBookings)
}

func (h *Handler) CompleteBooking(c *fiber.Ctx) error {
	sess := h.session(c)
	if sess == nil {
		return c.Redirect("/app/" + ViewLogin)
	}

	id, err := uuid.Parse(c.FormValue("bookingId"))
	if err == nil {
		_, err = h.bookings.Complete(id, sess.Email, c.FormValue("duration"))
	}
	if err != nil {
		h.flash(c, "error", "Could not complete the session.")
	} else {
		h.flash(c, "success", "Session completed.")
	}
	return c.Redirect("/app/" + ViewTutorBookings)
}

func (h *Handler) BecomeTutor(c *fiber.Ctx) error {
	subjects := make([]string, 0)
	for _, part := range strings.Split(c.FormValue("subjects"), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			subjects = append(subjects, trimmed)
		}
	}

	_, err := h.directory.RegisterTutor(&dto.TutorRegisterRequest{
		FirstName:   c.FormValue("firstName"),
		Surname:     c.FormValue("surname"),
		Email:       c.FormValue("email"),
		Subjects:    subjects,
		Description: c.FormValue("description"),
	})
	if err != nil {
		h.flash(c, "error", err.Error())
		return c.Redirect("/app/" + ViewBecomeTutor)
	}
	h.flash(c, "success", "Tutor registration submitted! The manager has been notified.")
	return c.Redirect("/app/" + ViewSubjects)
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	sess := h.session(c)
	if sess == nil {
		return c.Redirect("/app/" + ViewLogin)
	}

	_, err := h.auth.UpdateProfile(sess.UserID, &dto.UpdateProfileRequest{
		FirstName: c.FormValue("firstName"),
		Surname:   c.FormValue("surname"),
		Email:     c.FormValue("email"),
	})
	if err != nil {
		h.flash(c, "error", err.Error())
	} else {
		h.flash(c, "success", "Profile updated.")
	}
	return c.Redirect("/app/" + ViewProfile)
}

// --- manager actions ---

func (h *Handler) requireManager(c *fiber.Ctx) *Session {
	sess := h.session(c)
	if sess == nil || !sess.IsManager {
		return nil
	}
	return sess
}

func (h *Handler) AddSubject(c *fiber.Ctx) error {
	if h.requireManager(c) == nil {
		return c.Status(fiber.StatusForbidden).SendString("Manager access required")
	}

	if _, err := h.directory.AddSubject(c.FormValue("name")); err != nil {
		h.flash(c, "error", err.Error())
	} else {
		h.flash(c, "success", "Subject added.")
	}
	return c.Redirect("/app/" + ViewManager)
}

func (h *Handler) RemoveSubject(c *fiber.Ctx) error {
	if h.requireManager(c) == nil {
		return c.Status(fiber.StatusForbidden).SendString("Manager access required")
	}

	id, err := uuid.Parse(c.FormValue("subjectId"))
	if err == nil {
		_, err = h.directory.RemoveSubject(id)
	}
	if err != nil {
		h.flash(c, "error", "Could not remove the subject.")
	} else {
		h.flash(c, "success", "Subject removed.")
	}
	return c.Redirect("/app/" + ViewManager)
}

func (h *Handler) ApproveTutor(c *fiber.Ctx) error {
	if h.requireManager(c) == nil {
		return c.Status(fiber.StatusForbidden).SendString("Manager access required")
	}

	id, err := uuid.Parse(c.FormValue("tutorId"))
	if err == nil {
		_, err = h.directory.ApproveTutor(id)
	}
	if err != nil {
		h.flash(c, "error", "Could not approve the tutor.")
	} else {
		h.flash(c, "success", "Tutor approved.")
	}
	return c.Redirect("/app/" + ViewManager)
}

func (h *Handler) RejectTutor(c *fiber.Ctx) error {
	if h.requireManager(c) == nil {
		return c.Status(fiber.StatusForbidden).SendString("Manager access required")
	}

	id, err := uuid.Parse(c.FormValue("tutorId"))
	if err == nil {
		_, err = h.directory.RejectTutor(id)
	}
	if err != nil {
		h.flash(c, "error", "Could not reject the tutor.")
	} else {
		h.flash(c, "success", "Tutor application rejected.")
	}
	return c.Redirect("/app/" + ViewManager)
}
