package tasks

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/projectflow/engine/internal/models"
	"github.com/projectflow/engine/internal/repository"
	"github.com/projectflow/engine/internal/services"
	"github.com/projectflow/engine/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// NotifyTaskHandler persists workflow notifications enqueued by the API.
type NotifyTaskHandler struct {
	notificationRepo repository.NotificationRepository
}

func NewNotifyTaskHandler(notificationRepo repository.NotificationRepository) *NotifyTaskHandler {
	return &NotifyTaskHandler{notificationRepo: notificationRepo}
}

func (h *NotifyTaskHandler) HandleDeliver(ctx context.Context, t *asynq.Task) error {
	var p services.NotificationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.L().Error("invalid notification task payload", zap.Error(err))
		return err
	}
	userID, err := uuid.Parse(p.UserID)
	if err != nil {
		logger.L().Error("invalid user id in notification task", zap.Error(err))
		return err
	}

	n := &models.Notification{
		UserID:  userID,
		Kind:    p.Kind,
		Message: p.Message,
	}
	if p.Data != nil {
		db, err := json.Marshal(p.Data)
		if err != nil {
			logger.L().Error("marshal notification data failed", zap.Error(err))
			return err
		}
		n.Data = datatypes.JSON(db)
	}

	if err := h.notificationRepo.Create(ctx, n); err != nil {
		logger.L().Error("store notification failed", zap.Error(err), zap.String("user_id", p.UserID))
		return err
	}

	logger.L().Info("notification delivered",
		zap.String("notification_id", n.ID.String()),
		zap.String("user_id", p.UserID),
		zap.String("kind", p.Kind),
	)
	return nil
}
