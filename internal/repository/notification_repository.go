package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/projectflow/engine/internal/models"
	appErr "github.com/projectflow/engine/pkg/errors"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	BaseRepository[models.Notification]
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
}

type notificationRepository struct {
	BaseRepository[models.Notification]
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{BaseRepository: NewBaseRepository[models.Notification](db), db: db}
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	var out []models.Notification
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Limit(100).Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list notifications failed")
	}
	return out, nil
}
