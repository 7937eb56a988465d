package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/tutor-system2025/tutor-system/internal/config"
	"github.com/tutor-system2025/tutor-system/internal/handlers"
	"github.com/tutor-system2025/tutor-system/internal/metrics"
	"github.com/tutor-system2025/tutor-system/internal/middleware"
	"github.com/tutor-system2025/tutor-system/internal/webui"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	directoryHandler *handlers.DirectoryHandler,
	bookingHandler *handlers.BookingHandler,
	healthHandler *handlers.HealthHandler,
	uiHandler *webui.Handler,
) {
	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", metrics.Handler())

	uiHandler.RegisterRoutes(app)

	api := app.Group("/api", middleware.NoStore())

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Account creation and login get a stricter limit: 10 req/min per IP
	strict := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})

	// Public
	api.Post("/register", strict, authHandler.Register)
	api.Post("/login", strict, authHandler.Login)
	api.Get("/subjects", directoryHandler.ListSubjects)
	api.Get("/tutors", directoryHandler.ListApprovedTutors)
	api.Get("/tutors/:subject", directoryHandler.TutorsBySubject)
	api.Post("/tutor/register", strict, directoryHandler.RegisterTutor)

	// Authenticated users
	protected := middleware.JWTProtected(cfg)
	api.Put("/profile", protected, authHandler.UpdateProfile)
	api.Post("/bookings", protected, bookingHandler.Create)
	api.Get("/bookings/user", protected, bookingHandler.ListForUser)
	api.Get("/bookings/tutor", protected, bookingHandler.ListForTutor)
	api.Put("/bookings/:id", protected, bookingHandler.Update)
	api.Delete("/bookings/:id", protected, bookingHandler.Cancel)

	// Assigned-tutor lifecycle transitions (ownership checked in the service)
	api.Put("/bookings/:id/accept", protected, bookingHandler.Accept)
	api.Put("/bookings/:id/complete", protected, bookingHandler.Complete)
	api.Post("/bookings/:id/message", protected, bookingHandler.Message)

	// Manager
	admin := api.Group("/admin", protected, middleware.AdminRequired())
	admin.Get("/bookings", bookingHandler.ListAll)
	admin.Post("/subjects", directoryHandler.AddSubject)
	admin.Delete("/subjects/:id", directoryHandler.RemoveSubject)
	admin.Get("/tutors", directoryHandler.ListAllTutors)
	admin.Get("/tutor-requests", directoryHandler.ListPendingTutors)
	admin.Put("/tutors/:id/approve", directoryHandler.ApproveTutor)
	admin.Put("/tutors/:id/reject", directoryHandler.RejectTutor)
	admin.Delete("/tutors/:id/remove", directoryHandler.RemoveTutor)
	admin.Put("/tutors/:id/assign", directoryHandler.AssignSubject)
	admin.Put("/tutors/:id/assign-multiple", directoryHandler.AssignSubjects)
}
