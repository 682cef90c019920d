package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/projectflow/engine/internal/models"
	"github.com/projectflow/engine/internal/repository"
	appErr "github.com/projectflow/engine/pkg/errors"
	"github.com/projectflow/engine/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Coordinator approval gate: one approval record per group, created once
// by the leader and decided once by the coordinator.
type ApprovalService interface {
	RequestApproval(ctx context.Context, leaderID, coordinatorID uuid.UUID) (*models.CoordinatorApproval, error)
	Decide(ctx context.Context, coordinatorID, approvalID uuid.UUID, approve bool) (*models.CoordinatorApproval, error)
	AssignedClasses(ctx context.Context, coordinatorID uuid.UUID) ([]string, error)
	Dashboard(ctx context.Context, coordinatorID uuid.UUID) (*CoordinatorDashboard, error)
	ListCoordinators(ctx context.Context) ([]models.User, error)
}

// CoordinatorDashboard aggregates the coordinator's pending work and the
// state of every group in their classes.
type CoordinatorDashboard struct {
	Classes          []string                     `json:"classes"`
	PendingApprovals []models.CoordinatorApproval `json:"pending_approvals"`
	PendingReviews   []models.Abstract            `json:"pending_reviews"`
	Groups           []CoordinatorGroupDetail     `json:"groups"`
}

// CoordinatorGroupDetail is one group row on the coordinator dashboard.
type CoordinatorGroupDetail struct {
	Group         models.Group                       `json:"group"`
	Members       []models.User                      `json:"members"`
	Approval      *models.CoordinatorApproval        `json:"approval"`
	SelectedTopic *models.Abstract                   `json:"selected_topic"`
	SDG           *models.SustainableDevelopmentGoal `json:"sdg"`
}

type approvalService struct {
	db           *gorm.DB
	approvalRepo repository.ApprovalRepository
	groupRepo    repository.GroupRepository
	userRepo     repository.UserRepository
	abstractRepo repository.AbstractRepository
	sdgRepo      repository.SDGRepository
	notifier     Notifier
}

func NewApprovalService(
	db *gorm.DB,
	approvalRepo repository.ApprovalRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	abstractRepo repository.AbstractRepository,
	sdgRepo repository.SDGRepository,
	notifier Notifier,
) ApprovalService {
	return &approvalService{
		db:           db,
		approvalRepo: approvalRepo,
		groupRepo:    groupRepo,
		userRepo:     userRepo,
		abstractRepo: abstractRepo,
		sdgRepo:      sdgRepo,
		notifier:     notifier,
	}
}

var _ ApprovalService = (*approvalService)(nil)

// RequestApproval creates the group's approval record. A repeat call is
// informational, not an error path a client must avoid, so it reports the
// existing record's state instead of creating another.
func (s *approvalService) RequestApproval(ctx context.Context, leaderID, coordinatorID uuid.UUID) (*models.CoordinatorApproval, error) {
	logger.L().Info("request coordinator approval",
		zap.String("leader_id", leaderID.String()),
		zap.String("coordinator_id", coordinatorID.String()),
	)

	var group models.Group
	if err := s.groupRepo.GetByLeader(ctx, leaderID, &group); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeIneligible, "only the group leader can request approval")
		}
		return nil, err
	}

	size, err := s.groupRepo.CountMembers(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	if size < models.GroupReadySize {
		return nil, appErr.New(appErr.CodeIneligible, "group needs at least 4 members to request approval")
	}

	var coordinator models.FacultyProfile
	if err := s.userRepo.GetFacultyProfile(ctx, coordinatorID, &coordinator); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeInvalidTarget, "selected user is not a coordinator")
		}
		return nil, err
	}
	if !coordinator.IsCoordinator {
		return nil, appErr.New(appErr.CodeInvalidTarget, "selected user is not a coordinator")
	}

	var existing models.CoordinatorApproval
	err = s.approvalRepo.GetByGroup(ctx, group.ID, &existing)
	if err == nil {
		return &existing, appErr.New(appErr.CodeAlreadyExists, "approval already "+existing.Status)
	}
	if !appErr.IsCode(err, appErr.CodeNotFound) {
		return nil, err
	}

	approval := &models.CoordinatorApproval{
		GroupID:       group.ID,
		CoordinatorID: coordinatorID,
		Status:        models.ReviewPending,
	}
	if err := s.approvalRepo.Create(ctx, approval); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, coordinatorID, "approval_requested", "A group has requested your approval.", map[string]any{
		"approval_id": approval.ID.String(),
		"group_id":    group.ID.String(),
	})
	logger.L().Info("coordinator approval requested", zap.String("approval_id", approval.ID.String()))
	return approval, nil
}

// Decide resolves a pending approval. Approved and rejected are terminal.
func (s *approvalService) Decide(ctx context.Context, coordinatorID, approvalID uuid.UUID, approve bool) (*models.CoordinatorApproval, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, appErr.Wrap(tx.Error, appErr.CodeInternal, "begin transaction failed")
	}

	var approval models.CoordinatorApproval
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND coordinator_id = ?", approvalID, coordinatorID).
		First(&approval).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			return nil, appErr.New(appErr.CodeNotFound, "approval not found")
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "get approval failed")
	}
	if approval.Status != models.ReviewPending {
		tx.Rollback()
		return nil, appErr.New(appErr.CodeConflict, "approval has already been decided")
	}

	if approve {
		approval.Status = models.ReviewApproved
	} else {
		approval.Status = models.ReviewRejected
	}
	if err := tx.Save(&approval).Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "update approval failed")
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "commit transaction failed")
	}

	var group models.Group
	if err := s.groupRepo.GetByID(ctx, approval.GroupID, &group); err == nil {
		kind := "approval_rejected"
		msg := "Your group's approval request was rejected."
		if approve {
			kind = "approval_granted"
			msg = "Your group has been approved by the coordinator."
		}
		s.notifier.Notify(ctx, group.LeaderID, kind, msg, map[string]any{
			"approval_id": approval.ID.String(),
		})
	}

	logger.L().Info("coordinator approval decided",
		zap.String("approval_id", approval.ID.String()),
		zap.String("status", approval.Status),
	)
	return &approval, nil
}

func (s *approvalService) AssignedClasses(ctx context.Context, coordinatorID uuid.UUID) ([]string, error) {
	return s.approvalRepo.AssignedClasses(ctx, coordinatorID)
}

func (s *approvalService) ListCoordinators(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListCoordinators(ctx)
}

func (s *approvalService) Dashboard(ctx context.Context, coordinatorID uuid.UUID) (*CoordinatorDashboard, error) {
	classes, err := s.approvalRepo.AssignedClasses(ctx, coordinatorID)
	if err != nil {
		return nil, err
	}
	pending, err := s.approvalRepo.ListPendingForCoordinator(ctx, coordinatorID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.abstractRepo.ListPendingCoordinatorReview(ctx, classes)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		reviews[i].PDFData = nil
	}

	groups, err := s.groupRepo.ListByLeaderClasses(ctx, classes)
	if err != nil {
		return nil, err
	}
	details := make([]CoordinatorGroupDetail, 0, len(groups))
	for _, g := range groups {
		d := CoordinatorGroupDetail{Group: g}

		if d.Members, err = s.groupRepo.ListMembers(ctx, g.ID); err != nil {
			return nil, err
		}

		var approval models.CoordinatorApproval
		if err := s.approvalRepo.GetByGroup(ctx, g.ID, &approval); err == nil {
			d.Approval = &approval
		} else if !appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, err
		}

		var topic models.Abstract
		if err := s.abstractRepo.GetFinalByGroup(ctx, g.ID, &topic); err == nil {
			topic.PDFData = nil
			d.SelectedTopic = &topic
		} else if !appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, err
		}

		var sdg models.SustainableDevelopmentGoal
		if err := s.sdgRepo.GetByGroup(ctx, g.ID, &sdg); err == nil {
			d.SDG = &sdg
		} else if !appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, err
		}

		details = append(details, d)
	}

	return &CoordinatorDashboard{
		Classes:          classes,
		PendingApprovals: pending,
		PendingReviews:   reviews,
		Groups:           details,
	}, nil
}
