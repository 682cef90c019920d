package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/projectflow/engine/internal/models"
	appErr "github.com/projectflow/engine/pkg/errors"
	"gorm.io/gorm"
)

type AbstractRepository interface {
	BaseRepository[models.Abstract]
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]models.Abstract, error)
	GetFinalByGroup(ctx context.Context, groupID uuid.UUID, dest *models.Abstract) error
	ListByGuideStatus(ctx context.Context, groupIDs []uuid.UUID, guideStatus string) ([]models.Abstract, error)
	ListPendingCoordinatorReview(ctx context.Context, classes []string) ([]models.Abstract, error)
}

type abstractRepository struct {
	BaseRepository[models.Abstract]
	db *gorm.DB
}

func NewAbstractRepository(db *gorm.DB) AbstractRepository {
	return &abstractRepository{BaseRepository: NewBaseRepository[models.Abstract](db), db: db}
}

func (r *abstractRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]models.Abstract, error) {
	var out []models.Abstract
	if err := r.db.WithContext(ctx).Where("group_id = ?", groupID).Order("submitted_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list abstracts failed")
	}
	return out, nil
}

func (r *abstractRepository) GetFinalByGroup(ctx context.Context, groupID uuid.UUID, dest *models.Abstract) error {
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND is_final_approved = true", groupID).
		Order("submitted_at DESC").
		First(dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "no selected topic")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get selected topic failed")
	}
	return nil
}

// ListByGuideStatus lists abstracts from the given groups bucketed by guide
// review state. Used for the guide's review queue.
func (r *abstractRepository) ListByGuideStatus(ctx context.Context, groupIDs []uuid.UUID, guideStatus string) ([]models.Abstract, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	var out []models.Abstract
	if err := r.db.WithContext(ctx).
		Where("group_id IN ? AND guide_status = ?", groupIDs, guideStatus).
		Order("submitted_at DESC").
		Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list abstracts by guide status failed")
	}
	return out, nil
}

// ListPendingCoordinatorReview lists guide-approved abstracts awaiting
// coordinator review for groups whose leader is in one of the classes.
func (r *abstractRepository) ListPendingCoordinatorReview(ctx context.Context, classes []string) ([]models.Abstract, error) {
	if len(classes) == 0 {
		return nil, nil
	}
	var out []models.Abstract
	if err := r.db.WithContext(ctx).
		Joins("JOIN groups ON groups.id = abstracts.group_id AND groups.deleted_at IS NULL").
		Joins("JOIN student_profiles ON student_profiles.user_id = groups.leader_id AND student_profiles.deleted_at IS NULL").
		Where("abstracts.guide_status = ? AND abstracts.coordinator_status = ?", models.ReviewApproved, models.ReviewPending).
		Where("student_profiles.class_name IN ?", classes).
		Order("abstracts.submitted_at DESC").
		Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list pending coordinator reviews failed")
	}
	return out, nil
}
