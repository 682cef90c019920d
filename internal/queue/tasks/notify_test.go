package tasks

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/projectflow/engine/internal/models"
	"github.com/projectflow/engine/internal/services"
	"github.com/projectflow/engine/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests (required by tasks)
	_, err := logger.Init("info", "json")
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

type mockNotificationRepository struct {
	mock.Mock
}

func (m *mockNotificationRepository) Create(ctx context.Context, obj *models.Notification) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockNotificationRepository) GetByID(ctx context.Context, id any, dest *models.Notification) error {
	args := m.Called(ctx, id, dest)
	return args.Error(0)
}

func (m *mockNotificationRepository) Update(ctx context.Context, obj *models.Notification) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockNotificationRepository) Delete(ctx context.Context, id any) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]models.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestNotifyTaskHandler_HandleDeliver(t *testing.T) {
	userID := uuid.New()

	t.Run("successful delivery", func(t *testing.T) {
		repo := &mockNotificationRepository{}
		handler := NewNotifyTaskHandler(repo)

		payload := services.NotificationPayload{
			UserID:  userID.String(),
			Kind:    "guide_accepted",
			Message: "Your guide request was accepted.",
			Data:    map[string]any{"request_id": uuid.New().String()},
		}
		pb, _ := json.Marshal(payload)
		task := asynq.NewTask(services.TypeNotificationDeliver, pb)

		repo.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
			return n.UserID == userID && n.Kind == "guide_accepted" && len(n.Data) > 0
		})).Return(nil).Once()

		err := handler.HandleDeliver(context.Background(), task)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("invalid payload", func(t *testing.T) {
		repo := &mockNotificationRepository{}
		handler := NewNotifyTaskHandler(repo)

		task := asynq.NewTask(services.TypeNotificationDeliver, []byte("{not json"))
		err := handler.HandleDeliver(context.Background(), task)
		require.Error(t, err)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("invalid user id", func(t *testing.T) {
		repo := &mockNotificationRepository{}
		handler := NewNotifyTaskHandler(repo)

		payload := services.NotificationPayload{UserID: "not-a-uuid", Kind: "x", Message: "y"}
		pb, _ := json.Marshal(payload)
		task := asynq.NewTask(services.TypeNotificationDeliver, pb)

		err := handler.HandleDeliver(context.Background(), task)
		require.Error(t, err)
		repo.AssertNotCalled(t, "Create")
	})
}
