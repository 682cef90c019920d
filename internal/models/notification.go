package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification is a best-effort message fanned out by the worker after a
// workflow decision. Never part of the synchronous request path.
type Notification struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;index;not null" json:"user_id" validate:"required"`
	Kind      string         `gorm:"type:varchar(64);not null;index" json:"kind" validate:"required"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Data      datatypes.JSON `gorm:"type:jsonb" json:"data"`
	ReadAt    *time.Time     `json:"read_at"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
