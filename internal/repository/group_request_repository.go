package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/projectflow/engine/internal/models"
	appErr "github.com/projectflow/engine/pkg/errors"
	"gorm.io/gorm"
)

type GroupRequestRepository interface {
	BaseRepository[models.GroupRequest]
	PendingExists(ctx context.Context, senderID, recipientID uuid.UUID) (bool, error)
	ListBySender(ctx context.Context, senderID uuid.UUID) ([]models.GroupRequest, error)
	ListPendingForRecipient(ctx context.Context, recipientID uuid.UUID) ([]models.GroupRequest, error)
}

type groupRequestRepository struct {
	BaseRepository[models.GroupRequest]
	db *gorm.DB
}

func NewGroupRequestRepository(db *gorm.DB) GroupRequestRepository {
	return &groupRequestRepository{BaseRepository: NewBaseRepository[models.GroupRequest](db), db: db}
}

func (r *groupRequestRepository) PendingExists(ctx context.Context, senderID, recipientID uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.GroupRequest{}).
		Where("sender_id = ? AND recipient_id = ? AND status = ?", senderID, recipientID, models.RequestPending).
		Count(&n).Error; err != nil {
		return false, appErr.Wrap(err, appErr.CodeInternal, "pending request check failed")
	}
	return n > 0, nil
}

func (r *groupRequestRepository) ListBySender(ctx context.Context, senderID uuid.UUID) ([]models.GroupRequest, error) {
	var out []models.GroupRequest
	if err := r.db.WithContext(ctx).Where("sender_id = ?", senderID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list sent requests failed")
	}
	return out, nil
}

func (r *groupRequestRepository) ListPendingForRecipient(ctx context.Context, recipientID uuid.UUID) ([]models.GroupRequest, error) {
	var out []models.GroupRequest
	if err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND status = ?", recipientID, models.RequestPending).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list pending requests failed")
	}
	return out, nil
}
