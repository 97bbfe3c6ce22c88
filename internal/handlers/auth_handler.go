package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/talash/backend/internal/dto"
	"github.com/talash/backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid request body")
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Login resolves the Firebase token against the claimed email. The token may
// arrive as a bearer header or, matching the web client, in the body.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid request body")
	}

	token := req.Token
	if bearer := bearerFromHeader(c); bearer != "" {
		token = bearer
	}

	user, err := h.authService.Login(token, req.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LoginResponse{
		Status: "success",
		User:   dto.NewUserResponse(user),
		Token:  token,
	})
}

// VerifyToken resolves the caller, or tells a verified-but-unregistered
// client to complete signup.
func (h *AuthHandler) VerifyToken(c *fiber.Ctx) error {
	user, tok, err := h.authService.ResolveCaller(bearerFromHeader(c))
	if err != nil {
		if errors.Is(err, services.ErrNeedsRegistration) {
			return c.JSON(dto.VerifyTokenResponse{
				Status:  "needs_signup",
				Email:   tok.Email,
				Message: "User needs to complete signup",
			})
		}
		return respondError(c, err)
	}

	resp := dto.NewUserResponse(user)
	return c.JSON(dto.VerifyTokenResponse{Status: "valid", User: &resp})
}

// Logout exists for client symmetry. Sessions live entirely in the Firebase
// token, so there is nothing to revoke server-side.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "success", "message": "Logged out successfully"})
}

func bearerFromHeader(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > 7 && (header[:7] == "Bearer " || header[:7] == "bearer ") {
		return header[7:]
	}
	return ""
}
