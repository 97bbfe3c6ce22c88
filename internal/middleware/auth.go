package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/talash/backend/internal/dto"
	"github.com/talash/backend/internal/models"
	"github.com/talash/backend/internal/services"
)

const callerKey = "caller"

// RequireAuth resolves the bearer token into a local user exactly once and
// stores it in the request context. Downstream handlers and services receive
// the caller explicitly; nothing re-derives identity from ambient state.
func RequireAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _, err := auth.ResolveCaller(bearerToken(c))
		if err != nil {
			if errors.Is(err, services.ErrUpstreamUnavailable) {
				return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
					Error: true, Message: "Identity service unavailable, please retry",
				})
			}
			if errors.Is(err, services.ErrNeedsRegistration) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Error: true, Message: "User needs to complete signup",
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid or expired token",
			})
		}
		c.Locals(callerKey, user)
		return c.Next()
	}
}

// OptionalAuth resolves the caller when a bearer token is present. Requests
// without a usable identity proceed anonymously; the visibility rules
// downstream decide what an anonymous caller may see.
func OptionalAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Next()
		}
		user, _, err := auth.ResolveCaller(token)
		if err == nil {
			c.Locals(callerKey, user)
		}
		return c.Next()
	}
}

// AdminRequired gates a route on the admin role. Must run after RequireAuth.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !Caller(c).IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}
		return c.Next()
	}
}

// Caller returns the resolved user for this request, or nil for anonymous.
func Caller(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals(callerKey).(*models.User); ok {
		return user
	}
	return nil
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
