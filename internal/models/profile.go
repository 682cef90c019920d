package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentProfile marks a user as a student and carries class placement.
type StudentProfile struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"user_id" validate:"required"`
	ClassName      string         `gorm:"type:varchar(100)" json:"class_name"`
	RollNumber     string         `gorm:"type:varchar(50)" json:"roll_number"`
	RegisterNumber string         `gorm:"type:varchar(50)" json:"register_number"`
	Department     string         `gorm:"type:varchar(100)" json:"department"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// FacultyProfile marks a user as faculty. Guide and coordinator capability
// are independent flags; both may be set.
type FacultyProfile struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"user_id" validate:"required"`
	Department    string         `gorm:"type:varchar(100)" json:"department"`
	IsGuide       bool           `gorm:"not null;default:false;index" json:"is_guide"`
	IsCoordinator bool           `gorm:"not null;default:false;index" json:"is_coordinator"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
