package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/talash/backend/internal/models"
)

// ItemResponse mirrors the original API: the event timestamp is serialized as
// date_found or date_lost depending on the report kind.
type ItemResponse struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Kind        string     `json:"kind"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	DateFound   *time.Time `json:"date_found,omitempty"`
	DateLost    *time.Time `json:"date_lost,omitempty"`
	ImageURL    string     `json:"image_url"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewItemResponse(item *models.Item) ItemResponse {
	resp := ItemResponse{
		ID:          item.ID,
		UserID:      item.UserID,
		Kind:        string(item.Kind),
		Description: item.Description,
		Location:    item.Location,
		ImageURL:    item.ImageURL,
		Status:      string(item.Status),
		CreatedAt:   item.CreatedAt,
	}
	eventDate := item.EventDate
	if item.Kind == models.KindLost {
		resp.DateLost = &eventDate
	} else {
		resp.DateFound = &eventDate
	}
	return resp
}

func NewItemResponses(items []models.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = NewItemResponse(&items[i])
	}
	return out
}

type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Total int64          `json:"total"`
	Skip  int            `json:"skip"`
	Limit int            `json:"limit"`
}

// KindStats are live per-status counts for one item kind.
type KindStats struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Resolved int64 `json:"resolved"`
	Total    int64 `json:"total"`
}

type DashboardResponse struct {
	Status     string          `json:"status"`
	Admin      UserResponse    `json:"admin"`
	Statistics DashboardCounts `json:"statistics"`
}

type DashboardCounts struct {
	FoundItems KindStats `json:"found_items"`
	LostItems  KindStats `json:"lost_items"`
}
