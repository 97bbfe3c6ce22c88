package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a campus account backed by an externally verified Firebase identity.
// The portal never stores credentials; the email is the join key between the
// identity provider and this record.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Role      Role      `gorm:"size:20;not null;default:'user'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin is nil-safe so handlers can pass an anonymous caller through.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
