package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/projectflow/engine/internal/models"
	appErr "github.com/projectflow/engine/pkg/errors"
	"gorm.io/gorm"
)

type GuideRequestRepository interface {
	BaseRepository[models.GuideRequest]
	GetAcceptedByGroup(ctx context.Context, groupID uuid.UUID, dest *models.GuideRequest) error
	ListPendingForGuide(ctx context.Context, guideID uuid.UUID) ([]models.GuideRequest, error)
	ListAcceptedForGuide(ctx context.Context, guideID uuid.UUID) ([]models.GuideRequest, error)
	IsAcceptedGuide(ctx context.Context, groupID, guideID uuid.UUID) (bool, error)
	GetLatestByGroup(ctx context.Context, groupID uuid.UUID, dest *models.GuideRequest) error
}

type guideRequestRepository struct {
	BaseRepository[models.GuideRequest]
	db *gorm.DB
}

func NewGuideRequestRepository(db *gorm.DB) GuideRequestRepository {
	return &guideRequestRepository{BaseRepository: NewBaseRepository[models.GuideRequest](db), db: db}
}

func (r *guideRequestRepository) GetAcceptedByGroup(ctx context.Context, groupID uuid.UUID, dest *models.GuideRequest) error {
	return r.first(ctx, dest, "group_id = ? AND status = ?", groupID, models.RequestAccepted)
}

func (r *guideRequestRepository) first(ctx context.Context, dest *models.GuideRequest, cond string, args ...any) error {
	if err := r.db.WithContext(ctx).Where(cond, args...).First(dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "guide request not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get guide request failed")
	}
	return nil
}

func (r *guideRequestRepository) ListPendingForGuide(ctx context.Context, guideID uuid.UUID) ([]models.GuideRequest, error) {
	return r.list(ctx, "guide_id = ? AND status = ?", guideID, models.RequestPending)
}

func (r *guideRequestRepository) ListAcceptedForGuide(ctx context.Context, guideID uuid.UUID) ([]models.GuideRequest, error) {
	return r.list(ctx, "guide_id = ? AND status = ?", guideID, models.RequestAccepted)
}

func (r *guideRequestRepository) list(ctx context.Context, cond string, args ...any) ([]models.GuideRequest, error) {
	var out []models.GuideRequest
	if err := r.db.WithContext(ctx).Where(cond, args...).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list guide requests failed")
	}
	return out, nil
}

func (r *guideRequestRepository) IsAcceptedGuide(ctx context.Context, groupID, guideID uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.GuideRequest{}).
		Where("group_id = ? AND guide_id = ? AND status = ?", groupID, guideID, models.RequestAccepted).
		Count(&n).Error; err != nil {
		return false, appErr.Wrap(err, appErr.CodeInternal, "accepted guide check failed")
	}
	return n > 0, nil
}

func (r *guideRequestRepository) GetLatestByGroup(ctx context.Context, groupID uuid.UUID, dest *models.GuideRequest) error {
	if err := r.db.WithContext(ctx).Where("group_id = ?", groupID).Order("created_at DESC").First(dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "guide request not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get latest guide request failed")
	}
	return nil
}
