package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CoordinatorApproval gates a group's progression. One per group, created
// once; approved and rejected are terminal.
type CoordinatorApproval struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	GroupID       uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"group_id" validate:"required"`
	CoordinatorID uuid.UUID      `gorm:"type:uuid;index;not null" json:"coordinator_id" validate:"required"`
	Status        string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"status" validate:"required,oneof=pending approved rejected"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
