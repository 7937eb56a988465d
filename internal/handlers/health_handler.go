package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tutor-system2025/tutor-system/internal/database"
	"github.com/tutor-system2025/tutor-system/internal/dto"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Check reports overall and store health. The endpoint stays 200 even when
// the store is down so load balancers can tell "degraded" from "gone".
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status, db := "ok", "ok"
	if err := database.Ping(); err != nil {
		status, db = "degraded", "unhealthy"
	}
	return c.JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        db,
	})
}
