package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/projectflow/engine/internal/models"
	appErr "github.com/projectflow/engine/pkg/errors"
	"gorm.io/gorm"
)

type SDGRepository interface {
	BaseRepository[models.SustainableDevelopmentGoal]
	GetByGroup(ctx context.Context, groupID uuid.UUID, dest *models.SustainableDevelopmentGoal) error
	ExistsForGroup(ctx context.Context, groupID uuid.UUID) (bool, error)
	ListByGroups(ctx context.Context, groupIDs []uuid.UUID) ([]models.SustainableDevelopmentGoal, error)
}

type sdgRepository struct {
	BaseRepository[models.SustainableDevelopmentGoal]
	db *gorm.DB
}

func NewSDGRepository(db *gorm.DB) SDGRepository {
	return &sdgRepository{BaseRepository: NewBaseRepository[models.SustainableDevelopmentGoal](db), db: db}
}

func (r *sdgRepository) GetByGroup(ctx context.Context, groupID uuid.UUID, dest *models.SustainableDevelopmentGoal) error {
	if err := r.db.WithContext(ctx).Where("group_id = ?", groupID).First(dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "sdg declaration not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get sdg declaration failed")
	}
	return nil
}

func (r *sdgRepository) ExistsForGroup(ctx context.Context, groupID uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.SustainableDevelopmentGoal{}).
		Where("group_id = ?", groupID).
		Count(&n).Error; err != nil {
		return false, appErr.Wrap(err, appErr.CodeInternal, "sdg existence check failed")
	}
	return n > 0, nil
}

func (r *sdgRepository) ListByGroups(ctx context.Context, groupIDs []uuid.UUID) ([]models.SustainableDevelopmentGoal, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	var out []models.SustainableDevelopmentGoal
	if err := r.db.WithContext(ctx).Where("group_id IN ?", groupIDs).Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list sdg declarations failed")
	}
	return out, nil
}
