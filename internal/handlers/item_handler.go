package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/talash/backend/internal/dto"
	"github.com/talash/backend/internal/middleware"
	"github.com/talash/backend/internal/models"
	"github.com/talash/backend/internal/services"
)

type ItemHandler struct {
	itemService *services.ItemService
}

func NewItemHandler(itemService *services.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// Submit handles the multipart found/lost submission for the authenticated
// caller. The date form field is date_found or date_lost depending on kind.
func (h *ItemHandler) Submit(kind models.ItemKind) fiber.Handler {
	dateField := "date_found"
	if kind == models.KindLost {
		dateField = "date_lost"
	}

	return func(c *fiber.Ctx) error {
		file, err := c.FormFile("file")
		if err != nil {
			file = nil
		}

		item, err := h.itemService.Submit(middleware.Caller(c), services.SubmitItemInput{
			Kind:        kind,
			Description: c.FormValue("description"),
			Location:    c.FormValue("location"),
			EventDate:   c.FormValue(dateField),
			File:        file,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(dto.NewItemResponse(item))
	}
}

// List is the public paginated listing. The status filter defaults to
// approved; restricted filters are rejected inside the service based on the
// caller's role.
func (h *ItemHandler) List(kind models.ItemKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		skip, limit := pageParams(c)
		items, total, err := h.itemService.List(middleware.Caller(c), services.ListFilter{
			Kind:   kind,
			Status: c.Query("status_filter"),
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

func (h *ItemHandler) Get(kind models.ItemKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid item ID")
		}
		item, err := h.itemService.GetByID(middleware.Caller(c), kind, id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.NewItemResponse(item))
	}
}

func (h *ItemHandler) ListMine(kind models.ItemKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := h.itemService.ListMine(middleware.Caller(c), kind)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"status": "success",
			"items":  dto.NewItemResponses(items),
			"total":  len(items),
		})
	}
}

// Claim resolves an approved report (claimed for found items, found for lost).
func (h *ItemHandler) Claim(kind models.ItemKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid item ID")
		}
		item, err := h.itemService.Claim(middleware.Caller(c), kind, id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.NewItemResponse(item))
	}
}

func pageParams(c *fiber.Ctx) (skip, limit int) {
	skip, _ = strconv.Atoi(c.Query("skip", "0"))
	limit, _ = strconv.Atoi(c.Query("limit", "10"))
	return skip, limit
}
