package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Abstract is one project-topic submission by a group. Groups may submit
// repeatedly; each submission passes guide review, then coordinator review.
// Status is derived, never set directly; see ApplyDerivedStatus.
type Abstract struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	GroupID uuid.UUID `gorm:"type:uuid;index;not null" json:"group_id" validate:"required"`

	Title        string `gorm:"type:varchar(255);not null" json:"title" validate:"required"`
	AbstractText string `gorm:"type:text;not null" json:"abstract_text" validate:"required"`

	PDFData     []byte `gorm:"type:bytea" json:"-"`
	PDFFilename string `gorm:"type:varchar(255)" json:"pdf_filename"`
	PDFSize     int64  `json:"pdf_size"`
	PDFChecksum string `gorm:"type:varchar(64)" json:"pdf_checksum"`

	Status            string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status" validate:"required,oneof=pending approved rejected"`
	GuideStatus       string `gorm:"type:varchar(20);not null;default:'pending';index" json:"guide_status" validate:"required,oneof=pending approved rejected"`
	CoordinatorStatus string `gorm:"type:varchar(20);not null;default:'pending';index" json:"coordinator_status" validate:"required,oneof=pending approved rejected"`
	IsFinalApproved   bool   `gorm:"not null;default:false;index" json:"is_final_approved"`

	Feedback     string         `gorm:"type:text" json:"feedback"`
	SubmittedAt  time.Time      `gorm:"autoCreateTime;index" json:"submitted_at"`
	ReviewedAt   *time.Time     `json:"reviewed_at"`
	ReviewedByID *uuid.UUID     `gorm:"type:uuid;index" json:"reviewed_by_id"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// ApplyDerivedStatus recomputes Status from the review sub-statuses and the
// final-approval flag. Callers persist the result in the same transaction
// as the triggering change so the stored value never drifts.
func (a *Abstract) ApplyDerivedStatus() {
	switch {
	case a.IsFinalApproved:
		a.Status = ReviewApproved
	case a.GuideStatus == ReviewRejected || a.CoordinatorStatus == ReviewRejected:
		a.Status = ReviewRejected
	default:
		a.Status = ReviewPending
	}
}
