package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GuideRequest asks a faculty guide to take on a group. At most one request
// per group may be active (pending or accepted) at a time; the partial
// unique index behind that rule lives in cmd/migrate.
type GuideRequest struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	GroupID   uuid.UUID      `gorm:"type:uuid;index;not null" json:"group_id" validate:"required"`
	GuideID   uuid.UUID      `gorm:"type:uuid;index;not null" json:"guide_id" validate:"required"`
	Message   string         `gorm:"type:text;not null" json:"message" validate:"required"`
	Status    string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"status" validate:"required,oneof=pending accepted rejected"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
