package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/talash/backend/internal/dto"
	"github.com/talash/backend/internal/middleware"
	"github.com/talash/backend/internal/models"
	"github.com/talash/backend/internal/services"
)

type AdminHandler struct {
	authService *services.AuthService
	itemService *services.ItemService
}

func NewAdminHandler(authService *services.AuthService, itemService *services.ItemService) *AdminHandler {
	return &AdminHandler{authService: authService, itemService: itemService}
}

// Signup registers an admin account, gated by the admin registration key.
func (h *AdminHandler) Signup(c *fiber.Ctx) error {
	var req dto.AdminSignupRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid request body")
	}

	user, err := h.authService.RegisterAdmin(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Login resolves the token and additionally requires the admin role.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
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
	if err := h.authService.RequireRole(user, models.RoleAdmin); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"status":   "success",
		"admin":    dto.NewUserResponse(user),
		"redirect": "/admin/dashboard",
	})
}

// Dashboard returns live moderation statistics for both report kinds.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	found, err := h.itemService.Stats(models.KindFound)
	if err != nil {
		return respondError(c, err)
	}
	lost, err := h.itemService.Stats(models.KindLost)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.DashboardResponse{
		Status: "success",
		Admin:  dto.NewUserResponse(middleware.Caller(c)),
		Statistics: dto.DashboardCounts{
			FoundItems: *found,
			LostItems:  *lost,
		},
	})
}

func (h *AdminHandler) Approve(kind models.ItemKind) fiber.Handler {
	return h.transition(kind, h.itemService.Approve, "Item approved successfully")
}

func (h *AdminHandler) Reject(kind models.ItemKind) fiber.Handler {
	return h.transition(kind, h.itemService.Reject, "Item rejected successfully")
}

func (h *AdminHandler) transition(
	kind models.ItemKind,
	op func(*models.User, models.ItemKind, uuid.UUID) (*models.Item, error),
	message string,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid item ID")
		}
		item, err := op(middleware.Caller(c), kind, id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": message,
			"item":    dto.NewItemResponse(item),
		})
	}
}

// AddFound lets an admin create a found item that skips moderation.
func (h *AdminHandler) AddFound(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		file = nil
	}

	item, err := h.itemService.Submit(middleware.Caller(c), services.SubmitItemInput{
		Kind:        models.KindFound,
		Description: c.FormValue("description"),
		Location:    c.FormValue("location"),
		EventDate:   c.FormValue("date_found"),
		File:        file,
		Approved:    true,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Found item added successfully",
		"item":    dto.NewItemResponse(item),
	})
}

// ListByStatus backs the fixed admin review listings
// (/admin/items/pending and friends).
func (h *AdminHandler) ListByStatus(kind models.ItemKind, status string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		skip, limit := pageParams(c)
		items, total, err := h.itemService.List(middleware.Caller(c), services.ListFilter{
			Kind:   kind,
			Status: status,
			Skip:   skip,
			Limit:  limit,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.ItemListResponse{
			Items: dto.NewItemResponses(items),
			Total: total,
			Skip:  skip,
			Limit: limit,
		})
	}
}
