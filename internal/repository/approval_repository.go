package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/projectflow/engine/internal/models"
	appErr "github.com/projectflow/engine/pkg/errors"
	"gorm.io/gorm"
)

type ApprovalRepository interface {
	BaseRepository[models.CoordinatorApproval]
	GetByGroup(ctx context.Context, groupID uuid.UUID, dest *models.CoordinatorApproval) error
	ListPendingForCoordinator(ctx context.Context, coordinatorID uuid.UUID) ([]models.CoordinatorApproval, error)
	AssignedClasses(ctx context.Context, coordinatorID uuid.UUID) ([]string, error)
}

type approvalRepository struct {
	BaseRepository[models.CoordinatorApproval]
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) ApprovalRepository {
	return &approvalRepository{BaseRepository: NewBaseRepository[models.CoordinatorApproval](db), db: db}
}

func (r *approvalRepository) GetByGroup(ctx context.Context, groupID uuid.UUID, dest *models.CoordinatorApproval) error {
	if err := r.db.WithContext(ctx).Where("group_id = ?", groupID).First(dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "coordinator approval not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get coordinator approval failed")
	}
	return nil
}

func (r *approvalRepository) ListPendingForCoordinator(ctx context.Context, coordinatorID uuid.UUID) ([]models.CoordinatorApproval, error) {
	var out []models.CoordinatorApproval
	if err := r.db.WithContext(ctx).
		Where("coordinator_id = ? AND status = ?", coordinatorID, models.ReviewPending).
		Order("created_at").
		Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list pending approvals failed")
	}
	return out, nil
}

// AssignedClasses derives the classes a coordinator can see from the leader
// profiles of groups that have requested approval from them. A coordinator
// with no approvals sees no classes; seeding the first assignment is an
// out-of-band concern.
func (r *approvalRepository) AssignedClasses(ctx context.Context, coordinatorID uuid.UUID) ([]string, error) {
	var out []string
	if err := r.db.WithContext(ctx).Model(&models.CoordinatorApproval{}).
		Distinct("student_profiles.class_name").
		Joins("JOIN groups ON groups.id = coordinator_approvals.group_id AND groups.deleted_at IS NULL").
		Joins("JOIN student_profiles ON student_profiles.user_id = groups.leader_id AND student_profiles.deleted_at IS NULL").
		Where("coordinator_approvals.coordinator_id = ?", coordinatorID).
		Where("student_profiles.class_name <> ''").
		Pluck("student_profiles.class_name", &out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list assigned classes failed")
	}
	return out, nil
}
