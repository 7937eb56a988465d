package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// NoStore disables caching on API responses so clients always see the
// current booking and directory state.
func NoStore() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")
		return c.Next()
	}
}
