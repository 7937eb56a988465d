package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/tutor-system2025/tutor-system/internal/config"
	"github.com/tutor-system2025/tutor-system/internal/database"
	"github.com/tutor-system2025/tutor-system/internal/handlers"
	"github.com/tutor-system2025/tutor-system/internal/logging"
	"github.com/tutor-system2025/tutor-system/internal/mail"
	"github.com/tutor-system2025/tutor-system/internal/metrics"
	"github.com/tutor-system2025/tutor-system/internal/middleware"
	"github.com/tutor-system2025/tutor-system/internal/routes"
	"github.com/tutor-system2025/tutor-system/internal/services"
	"github.com/tutor-system2025/tutor-system/internal/webui"
)

func main() {
	logging.Setup()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		fatal("JWT_SECRET must be set")
	}
	if cfg.DBPassword == "" {
		fatal("DB_PASSWORD must be set")
	}

	if err := database.Connect(cfg); err != nil {
		fatal("database connection failed", "error", err)
	}
	if err := database.Migrate(database.DB); err != nil {
		fatal("migration failed", "error", err)
	}

	// ERROR+ records also land in system_logs, batched off the hot path.
	dbLogHandler := logging.NewDBHandler(database.DB)
	slog.SetDefault(slog.New(logging.Fanout(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logging.LevelFromEnv()}),
		dbLogHandler,
	)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	metrics.Register()

	notifier := mail.NewNotifier(cfg.ManagerEmail)
	authService := services.NewAuthService(database.DB, cfg)
	directoryService := services.NewDirectoryService(database.DB, notifier)
	bookingService := services.NewBookingService(database.DB, notifier)

	if err := authService.SeedManager(); err != nil {
		fatal("manager seed failed", "error", err)
	}

	mailWorker := mail.NewWorker(database.DB, mail.NewSMTPSender(cfg))
	mailWorker.Start()

	authHandler := handlers.NewAuthHandler(authService)
	directoryHandler := handlers.NewDirectoryHandler(directoryService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	healthHandler := handlers.NewHealthHandler()
	uiHandler := webui.NewHandler(cfg, authService, directoryService, bookingService)

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		})
		if err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{Repanic: true}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(securityHeaders)
	app.Use(metrics.Middleware())

	routes.Setup(app, cfg, authHandler, directoryHandler, bookingHandler, healthHandler, uiHandler)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	close(cleanupDone)
	mailWorker.Stop()
	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)
	if sqlDB, err := database.DB.DB(); err == nil {
		sqlDB.Close()
	}
	slog.Info("server stopped")
}

func securityHeaders(c *fiber.Ctx) error {
	c.Set("X-Content-Type-Options", "nosniff")
	c.Set("X-Frame-Options", "DENY")
	return c.Next()
}

// errorHandler keeps 4xx messages intact and hides everything behind an
// opaque message for 5xx, logging the cause instead.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}
	if code >= 500 {
		slog.Error("unhandled server error",
			"method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}
	return c.Status(code).JSON(fiber.Map{"error": true, "message": message})
}

func fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}
