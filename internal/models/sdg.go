package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SustainableDevelopmentGoal is a one-time structured declaration per group:
// five SDG/justification pairs, five WP pairs, five PO codes and two PSO
// codes. Immutable once created.
type SustainableDevelopmentGoal struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	GroupID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"group_id" validate:"required"`

	SDG1              string `gorm:"type:varchar(255);not null;default:''" json:"sdg1"`
	SDG1Justification string `gorm:"type:text;not null;default:''" json:"sdg1_justification"`
	SDG2              string `gorm:"type:varchar(255);not null;default:''" json:"sdg2"`
	SDG2Justification string `gorm:"type:text;not null;default:''" json:"sdg2_justification"`
	SDG3              string `gorm:"type:varchar(255);not null;default:''" json:"sdg3"`
	SDG3Justification string `gorm:"type:text;not null;default:''" json:"sdg3_justification"`
	SDG4              string `gorm:"type:varchar(255);not null;default:''" json:"sdg4"`
	SDG4Justification string `gorm:"type:text;not null;default:''" json:"sdg4_justification"`
	SDG5              string `gorm:"type:varchar(255);not null;default:''" json:"sdg5"`
	SDG5Justification string `gorm:"type:text;not null;default:''" json:"sdg5_justification"`

	WP1              string `gorm:"type:varchar(255);not null;default:''" json:"wp1"`
	WP1Justification string `gorm:"type:text;not null;default:''" json:"wp1_justification"`
	WP2              string `gorm:"type:varchar(255);not null;default:''" json:"wp2"`
	WP2Justification string `gorm:"type:text;not null;default:''" json:"wp2_justification"`
	WP3              string `gorm:"type:varchar(255);not null;default:''" json:"wp3"`
	WP3Justification string `gorm:"type:text;not null;default:''" json:"wp3_justification"`
	WP4              string `gorm:"type:varchar(255);not null;default:''" json:"wp4"`
	WP4Justification string `gorm:"type:text;not null;default:''" json:"wp4_justification"`
	WP5              string `gorm:"type:varchar(255);not null;default:''" json:"wp5"`
	WP5Justification string `gorm:"type:text;not null;default:''" json:"wp5_justification"`

	PO1  string `gorm:"type:varchar(100);not null;default:''" json:"po1"`
	PO2  string `gorm:"type:varchar(100);not null;default:''" json:"po2"`
	PO3  string `gorm:"type:varchar(100);not null;default:''" json:"po3"`
	PO4  string `gorm:"type:varchar(100);not null;default:''" json:"po4"`
	PO5  string `gorm:"type:varchar(100);not null;default:''" json:"po5"`
	PSO1 string `gorm:"type:varchar(100);not null;default:''" json:"pso1"`
	PSO2 string `gorm:"type:varchar(100);not null;default:''" json:"pso2"`

	SubmittedByID uuid.UUID      `gorm:"type:uuid;index;not null" json:"submitted_by_id" validate:"required"`
	IsSubmitted   bool           `gorm:"not null;default:false" json:"is_submitted"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
