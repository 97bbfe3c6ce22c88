package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ItemKind string

const (
	KindFound ItemKind = "found"
	KindLost  ItemKind = "lost"
)

type ItemStatus string

const (
	StatusPending  ItemStatus = "pending"
	StatusApproved ItemStatus = "approved"
	StatusRejected ItemStatus = "rejected"
	// Terminal resolution differs per kind: a found item gets claimed by its
	// owner, a lost item gets marked found.
	StatusClaimed ItemStatus = "claimed"
	StatusFound   ItemStatus = "found"
)

// ResolvedStatus is the terminal state an approved item of this kind moves to.
func (k ItemKind) ResolvedStatus() ItemStatus {
	if k == KindLost {
		return StatusFound
	}
	return StatusClaimed
}

// Statuses returns the closed status vocabulary for a kind.
func (k ItemKind) Statuses() []ItemStatus {
	return []ItemStatus{StatusPending, StatusApproved, StatusRejected, k.ResolvedStatus()}
}

// ValidStatus reports whether s belongs to the kind's vocabulary.
func (k ItemKind) ValidStatus(s ItemStatus) bool {
	for _, v := range k.Statuses() {
		if v == s {
			return true
		}
	}
	return false
}

// itemTransitions encodes the moderation graph. rejected and the resolved
// statuses are terminal.
var itemTransitions = map[ItemStatus][]ItemStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusClaimed, StatusFound},
}

// CanTransition reports whether an item of kind k may move from one status to
// another.
func CanTransition(k ItemKind, from, to ItemStatus) bool {
	if !k.ValidStatus(to) {
		return false
	}
	for _, next := range itemTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ImageMeta is captured when the upload is validated and stored alongside the
// item as JSON.
type ImageMeta struct {
	ContentType  string `json:"content_type"`
	SizeBytes    int64  `json:"size_bytes"`
	OriginalName string `json:"original_name"`
}

// Item is a found or lost report. Ownership is immutable and status only moves
// along the transition graph above.
type Item struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Kind        ItemKind       `gorm:"size:10;not null;index:idx_items_kind_status" json:"kind"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Description string         `gorm:"size:500;not null" json:"description"`
	Location    string         `gorm:"size:255;not null" json:"location"`
	EventDate   time.Time      `gorm:"not null" json:"event_date"`
	ImageURL    string         `gorm:"size:512" json:"image_url"`
	ImageMeta   datatypes.JSON `json:"image_meta,omitempty"`
	Status      ItemStatus     `gorm:"size:20;not null;default:'pending';index:idx_items_kind_status" json:"status"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	User        User           `gorm:"foreignKey:UserID" json:"-"`
}

// ForKind returns a GORM scope that filters by item kind.
func ForKind(kind ItemKind) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("kind = ?", kind)
	}
}
