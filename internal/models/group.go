package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Group is a student project group. A user leads at most one group.
type Group struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	LeaderID  uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"leader_id" validate:"required"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// GroupMember records membership. The unique index on UserID keeps a user
// in at most one group; size limits are re-validated inside transactions.
type GroupMember struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	GroupID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_group_members_pair,unique" json:"group_id" validate:"required"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_group_members_pair,unique;uniqueIndex:idx_group_members_user" json:"user_id" validate:"required"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// GroupRequest is an invitation from a (prospective) leader to a student.
type GroupRequest struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SenderID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_group_requests_pair,unique" json:"sender_id" validate:"required"`
	RecipientID uuid.UUID      `gorm:"type:uuid;not null;index:idx_group_requests_pair,unique" json:"recipient_id" validate:"required"`
	Status      string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"status" validate:"required,oneof=pending accepted rejected"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
