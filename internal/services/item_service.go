package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/talash/backend/internal/dto"
	"github.com/talash/backend/internal/models"
	"gorm.io/gorm"
)

const (
	maxDescriptionLen = 500
	maxLocationLen    = 255
	defaultPageSize   = 10
	maxPageSize       = 50
	// listMine has no client-side pagination; the ceiling just keeps a
	// pathological account from dumping the table.
	maxOwnListSize = 200
)

// eventDateLayouts accepts RFC 3339 and the zone-less ISO form the web client
// sends ("2024-01-15T14:30:00").
var eventDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

// ItemService owns found/lost reports and enforces the moderation state
// machine. Every transition is a single status-guarded UPDATE, so two racing
// moderation requests cannot both succeed.
type ItemService struct {
	db      *gorm.DB
	storage *StorageService
}

func NewItemService(db *gorm.DB, storage *StorageService) *ItemService {
	return &ItemService{db: db, storage: storage}
}

// SubmitItemInput carries the multipart submission fields.
type SubmitItemInput struct {
	Kind        models.ItemKind
	Description string
	Location    string
	EventDate   string
	File        *multipart.FileHeader
	// Approved is the admin direct-add path: the item skips moderation.
	Approved bool
}

// Submit validates the fields and the image, stores the image, and creates the
// report in pending status owned by the caller.
func (s *ItemService) Submit(caller *models.User, in SubmitItemInput) (*models.Item, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, invalidField("description", "must not be empty")
	}
	if len(description) > maxDescriptionLen {
		return nil, invalidField("description", fmt.Sprintf("must be at most %d characters", maxDescriptionLen))
	}

	location := strings.TrimSpace(in.Location)
	if location == "" {
		return nil, invalidField("location", "must not be empty")
	}
	if len(location) > maxLocationLen {
		return nil, invalidField("location", fmt.Sprintf("must be at most %d characters", maxLocationLen))
	}

	eventDate, err := parseEventDate(in.EventDate)
	if err != nil {
		return nil, invalidField(dateField(in.Kind), "invalid date, use ISO format: 2024-01-15T14:30:00")
	}

	// Image validation runs before anything is written, so an invalid upload
	// never leaves an orphan record or file.
	stored, err := s.storage.Save(in.File)
	if err != nil {
		return nil, err
	}

	status := models.StatusPending
	if in.Approved {
		status = models.StatusApproved
	}

	item := models.Item{
		ID:          uuid.New(),
		Kind:        in.Kind,
		UserID:      caller.ID,
		Description: description,
		Location:    location,
		EventDate:   eventDate,
		ImageURL:    stored.URL,
		ImageMeta:   stored.Meta,
		Status:      status,
	}
	if err := s.db.Create(&item).Error; err != nil {
		s.storage.Remove(stored.URL)
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return &item, nil
}

// Approve moves a pending report to approved. Admin only.
func (s *ItemService) Approve(caller *models.User, kind models.ItemKind, id uuid.UUID) (*models.Item, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.transition(kind, id, models.StatusPending, models.StatusApproved)
}

// Reject moves a pending report to rejected. The record is retained with the
// marker rather than deleted, so moderation decisions stay auditable.
func (s *ItemService) Reject(caller *models.User, kind models.ItemKind, id uuid.UUID) (*models.Item, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.transition(kind, id, models.StatusPending, models.StatusRejected)
}

// Claim resolves an approved report: claimed for found items, found for lost
// items. Any authenticated caller may claim.
func (s *ItemService) Claim(caller *models.User, kind models.ItemKind, id uuid.UUID) (*models.Item, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	return s.transition(kind, id, models.StatusApproved, kind.ResolvedStatus())
}

// transition performs the compare-and-swap: the UPDATE only matches when the
// current status equals the required source state. Zero rows affected means
// either no such report or a stale status, distinguished by a follow-up read.
func (s *ItemService) transition(kind models.ItemKind, id uuid.UUID, from, to models.ItemStatus) (*models.Item, error) {
	if !models.CanTransition(kind, from, to) {
		return nil, ErrInvalidTransition
	}

	result := s.db.Model(&models.Item{}).
		Scopes(models.ForKind(kind)).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := s.db.Model(&models.Item{}).Scopes(models.ForKind(kind)).Where("id = ?", id).Count(&exists).Error; err != nil {
			return nil, err
		}
		if exists == 0 {
			return nil, ErrNotFound
		}
		return nil, ErrInvalidTransition
	}

	var item models.Item
	if err := s.db.Scopes(models.ForKind(kind)).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListFilter is the recognized listing configuration. Status defaults to
// approved; pending, rejected and all are admin-only views.
type ListFilter struct {
	Kind    models.ItemKind
	Status  string
	Skip    int
	Limit   int
	OwnerID *uuid.UUID
}

// List returns a page of reports most-recent-first (id as the stable
// tie-break, so pagination is reproducible).
func (s *ItemService) List(caller *models.User, f ListFilter) ([]models.Item, int64, error) {
	status := models.ItemStatus(strings.ToLower(strings.TrimSpace(f.Status)))
	if status == "" {
		status = models.StatusApproved
	}
	if status != "all" && !f.Kind.ValidStatus(status) {
		return nil, 0, invalidField("status_filter", "unknown status for this listing")
	}
	if err := checkListVisibility(caller, status); err != nil {
		return nil, 0, err
	}

	if f.Skip < 0 {
		return nil, 0, invalidField("skip", "must not be negative")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	query := s.db.Model(&models.Item{}).Scopes(models.ForKind(f.Kind))
	if status != "all" {
		query = query.Where("status = ?", status)
	}
	if f.OwnerID != nil {
		query = query.Where("user_id = ?", *f.OwnerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Item
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(f.Skip).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// checkListVisibility gates status filters: approved is public, resolved
// states need an authenticated caller, everything else needs an admin.
func checkListVisibility(caller *models.User, status models.ItemStatus) error {
	switch status {
	case models.StatusApproved:
		return nil
	case models.StatusClaimed, models.StatusFound:
		if caller == nil {
			return ErrForbidden
		}
		return nil
	default: // pending, rejected, all
		if !caller.IsAdmin() {
			return ErrForbidden
		}
		return nil
	}
}

// GetByID fetches one report, applying the same visibility predicate used by
// listing. A hidden report reads as absent rather than forbidden so its
// existence is not leaked.
func (s *ItemService) GetByID(caller *models.User, kind models.ItemKind, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := s.db.Scopes(models.ForKind(kind)).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !CanView(caller, &item) {
		return nil, ErrNotFound
	}
	return &item, nil
}

// CanView is the single visibility predicate: owners and admins always see
// their reports, approved reports are public, resolved reports are visible to
// any authenticated caller, pending and rejected stay private.
func CanView(caller *models.User, item *models.Item) bool {
	if item == nil {
		return false
	}
	if caller != nil && (caller.IsAdmin() || caller.ID == item.UserID) {
		return true
	}
	switch item.Status {
	case models.StatusApproved:
		return true
	case models.StatusClaimed, models.StatusFound:
		return caller != nil
	default:
		return false
	}
}

// ListMine returns the caller's own reports of a kind, any status.
func (s *ItemService) ListMine(caller *models.User, kind models.ItemKind) ([]models.Item, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	var items []models.Item
	err := s.db.Scopes(models.ForKind(kind)).
		Where("user_id = ?", caller.ID).
		Order("created_at DESC, id DESC").
		Limit(maxOwnListSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Stats re-queries counts for the dashboard. Volumes are small, so freshness
// wins over caching.
func (s *ItemService) Stats(kind models.ItemKind) (*dto.KindStats, error) {
	stats := &dto.KindStats{}
	counts := []struct {
		status models.ItemStatus
		dest   *int64
	}{
		{models.StatusPending, &stats.Pending},
		{models.StatusApproved, &stats.Approved},
		{models.StatusRejected, &stats.Rejected},
		{kind.ResolvedStatus(), &stats.Resolved},
	}
	for _, c := range counts {
		if err := s.db.Model(&models.Item{}).Scopes(models.ForKind(kind)).
			Where("status = ?", c.status).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	if err := s.db.Model(&models.Item{}).Scopes(models.ForKind(kind)).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func parseEventDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", raw)
}

func dateField(kind models.ItemKind) string {
	if kind == models.KindLost {
		return "date_lost"
	}
	return "date_found"
}
