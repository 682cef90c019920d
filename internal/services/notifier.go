package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/projectflow/engine/pkg/logger"
	"go.uber.org/zap"
)

// TypeNotificationDeliver is the asynq task type for notification delivery.
const TypeNotificationDeliver = "notification:deliver"

// NotificationPayload is the task payload for notification delivery.
type NotificationPayload struct {
	UserID  string         `json:"user_id"`
	Kind    string         `json:"kind"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// Notifier fans out workflow events. Delivery is best effort and never
// affects the outcome of the operation that triggered it.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, message string, data map[string]any)
}

type asynqNotifier struct {
	client *asynq.Client
}

func NewNotifier(client *asynq.Client) Notifier {
	return &asynqNotifier{client: client}
}

var _ Notifier = (*asynqNotifier)(nil)

func (n *asynqNotifier) Notify(ctx context.Context, userID uuid.UUID, kind, message string, data map[string]any) {
	p := NotificationPayload{UserID: userID.String(), Kind: kind, Message: message, Data: data}
	pb, err := json.Marshal(p)
	if err != nil {
		logger.L().Error("marshal notification payload failed", zap.Error(err))
		return
	}
	task := asynq.NewTask(TypeNotificationDeliver, pb)
	if n.client == nil {
		logger.L().Warn("asynq client not configured, skipping notification", zap.String("kind", kind))
		return
	}
	if _, err := n.client.EnqueueContext(ctx, task); err != nil {
		logger.L().Error("enqueue notification failed", zap.Error(err), zap.String("kind", kind))
	}
}
