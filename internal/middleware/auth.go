package middleware

import (
	"errors"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tutor-system2025/tutor-system/internal/config"
	"github.com/tutor-system2025/tutor-system/internal/dto"
)

// Identity is the verified caller attached to every authenticated request.
type Identity struct {
	UserID  uuid.UUID
	Email   string
	IsAdmin bool
}

// JWTProtected verifies the bearer credential. A missing credential is 401;
// a present but invalid or expired one is 403.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if c.Get(fiber.HeaderAuthorization) == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Error: true, Message: "Access token required",
				})
			}
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid token",
			})
		},
	})
}

// CurrentIdentity extracts the verified claims stored by JWTProtected.
func CurrentIdentity(c *fiber.Ctx) (Identity, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return Identity{}, errors.New("no token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid claims")
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return Identity{}, errors.New("missing or malformed sub claim")
	}

	email, _ := claims["email"].(string)
	isAdmin, _ := claims["is_admin"].(bool)

	return Identity{UserID: userID, Email: email, IsAdmin: isAdmin}, nil
}
