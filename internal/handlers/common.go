package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/talash/backend/internal/dto"
	"github.com/talash/backend/internal/services"
)

// respondError is the single boundary translation from the service error
// taxonomy to HTTP. Handlers never pick status codes ad hoc.
func respondError(c *fiber.Ctx, err error) error {
	var ve *services.ValidationError

	switch {
	case errors.As(err, &ve):
		return fail(c, fiber.StatusBadRequest, ve.Error())
	case errors.Is(err, services.ErrInvalidDomain):
		return fail(c, fiber.StatusBadRequest, "Only institutional email addresses are allowed")
	case errors.Is(err, services.ErrEmailTaken):
		return fail(c, fiber.StatusConflict, "User with this email already exists")
	case errors.Is(err, services.ErrInvalidAdminKey):
		return fail(c, fiber.StatusUnauthorized, "Invalid admin registration key")
	case errors.Is(err, services.ErrUnauthenticated):
		return fail(c, fiber.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, services.ErrNeedsRegistration):
		return fail(c, fiber.StatusUnauthorized, "User needs to complete signup")
	case errors.Is(err, services.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "Admin access required")
	case errors.Is(err, services.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "Item not found")
	case errors.Is(err, services.ErrInvalidTransition):
		return fail(c, fiber.StatusConflict, "Item status changed, please refresh and retry")
	case errors.Is(err, services.ErrImageTooLarge):
		return fail(c, fiber.StatusRequestEntityTooLarge, "File size exceeds the 5MB limit")
	case errors.Is(err, services.ErrUpstreamUnavailable):
		return fail(c, fiber.StatusBadGateway, "Upstream service unavailable, please retry")
	default:
		slog.Error("unhandled request error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		return fail(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}
