package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/projectflow/engine/internal/models"
	appErr "github.com/projectflow/engine/pkg/errors"
	"gorm.io/gorm"
)

type GroupRepository interface {
	BaseRepository[models.Group]
	GetByLeader(ctx context.Context, leaderID uuid.UUID, dest *models.Group) error
	GetForUser(ctx context.Context, userID uuid.UUID, dest *models.Group) error
	CountMembers(ctx context.Context, groupID uuid.UUID) (int64, error)
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]models.User, error)
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	ListByLeaderClasses(ctx context.Context, classes []string) ([]models.Group, error)
}

type groupRepository struct {
	BaseRepository[models.Group]
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{BaseRepository: NewBaseRepository[models.Group](db), db: db}
}

func (r *groupRepository) GetByLeader(ctx context.Context, leaderID uuid.UUID, dest *models.Group) error {
	if err := r.db.WithContext(ctx).Where("leader_id = ?", leaderID).First(dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "group not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get group by leader failed")
	}
	return nil
}

// GetForUser resolves the group a user belongs to, as leader or member.
func (r *groupRepository) GetForUser(ctx context.Context, userID uuid.UUID, dest *models.Group) error {
	err := r.GetByLeader(ctx, userID, dest)
	if err == nil {
		return nil
	}
	if !appErr.IsCode(err, appErr.CodeNotFound) {
		return err
	}
	var membership models.GroupMember
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&membership).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "group not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get membership failed")
	}
	return r.GetByID(ctx, membership.GroupID, dest)
}

func (r *groupRepository) CountMembers(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.GroupMember{}).Where("group_id = ?", groupID).Count(&n).Error; err != nil {
		return 0, appErr.Wrap(err, appErr.CodeInternal, "count members failed")
	}
	return n, nil
}

func (r *groupRepository) ListMembers(ctx context.Context, groupID uuid.UUID) ([]models.User, error) {
	var out []models.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN group_members ON group_members.user_id = users.id AND group_members.deleted_at IS NULL").
		Where("group_members.group_id = ?", groupID).
		Order("group_members.created_at").
		Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list members failed")
	}
	return out, nil
}

func (r *groupRepository) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&n).Error; err != nil {
		return false, appErr.Wrap(err, appErr.CodeInternal, "membership check failed")
	}
	return n > 0, nil
}

// ListByLeaderClasses lists groups whose leader's student profile is in one
// of the given classes. Used for coordinator dashboard scoping.
func (r *groupRepository) ListByLeaderClasses(ctx context.Context, classes []string) ([]models.Group, error) {
	if len(classes) == 0 {
		return nil, nil
	}
	var out []models.Group
	if err := r.db.WithContext(ctx).
		Joins("JOIN student_profiles ON student_profiles.user_id = groups.leader_id AND student_profiles.deleted_at IS NULL").
		Where("student_profiles.class_name IN ?", classes).
		Order("groups.created_at").
		Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list groups by class failed")
	}
	return out, nil
}
