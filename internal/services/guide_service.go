package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/projectflow/engine/internal/models"
	"github.com/projectflow/engine/internal/repository"
	appErr "github.com/projectflow/engine/pkg/errors"
	"github.com/projectflow/engine/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Guide assignment: an approved group asks one guide at a time; the guide
// accepts or rejects. A rejection frees the slot for a new request.
type GuideService interface {
	RequestGuide(ctx context.Context, leaderID, guideID uuid.UUID, message string) (*models.GuideRequest, error)
	Decide(ctx context.Context, guideID, requestID uuid.UUID, accept bool) (*models.GuideRequest, error)
	AcceptedGuideOf(ctx context.Context, groupID uuid.UUID) (*models.User, error)
	PendingForGuide(ctx context.Context, guideID uuid.UUID) ([]models.GuideRequest, error)
	AssignedGroups(ctx context.Context, guideID uuid.UUID) ([]GuideGroupDetail, error)
	ListGuides(ctx context.Context) ([]models.User, error)
	LatestForGroup(ctx context.Context, groupID uuid.UUID) (*models.GuideRequest, error)
}

// GuideGroupDetail is one supervised group on the guide dashboard.
type GuideGroupDetail struct {
	Group         models.Group                       `json:"group"`
	Members       []models.User                      `json:"members"`
	Abstracts     []models.Abstract                  `json:"abstracts"`
	SelectedTopic *models.Abstract                   `json:"selected_topic"`
	SDG           *models.SustainableDevelopmentGoal `json:"sdg"`
}

type guideService struct {
	db           *gorm.DB
	guideRepo    repository.GuideRequestRepository
	groupRepo    repository.GroupRepository
	userRepo     repository.UserRepository
	approvalRepo repository.ApprovalRepository
	abstractRepo repository.AbstractRepository
	sdgRepo      repository.SDGRepository
	notifier     Notifier
}

func NewGuideService(
	db *gorm.DB,
	guideRepo repository.GuideRequestRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	approvalRepo repository.ApprovalRepository,
	abstractRepo repository.AbstractRepository,
	sdgRepo repository.SDGRepository,
	notifier Notifier,
) GuideService {
	return &guideService{
		db:           db,
		guideRepo:    guideRepo,
		groupRepo:    groupRepo,
		userRepo:     userRepo,
		approvalRepo: approvalRepo,
		abstractRepo: abstractRepo,
		sdgRepo:      sdgRepo,
		notifier:     notifier,
	}
}

var _ GuideService = (*guideService)(nil)

// RequestGuide sends a guide request for the leader's group. Requires a
// ready-sized, coordinator-approved group with no active request.
func (s *guideService) RequestGuide(ctx context.Context, leaderID, guideID uuid.UUID, message string) (*models.GuideRequest, error) {
	logger.L().Info("request guide",
		zap.String("leader_id", leaderID.String()),
		zap.String("guide_id", guideID.String()),
	)

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, appErr.New(appErr.CodeInvalid, "message is required")
	}

	var group models.Group
	if err := s.groupRepo.GetByLeader(ctx, leaderID, &group); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeIneligible, "only the group leader can request a guide")
		}
		return nil, err
	}

	size, err := s.groupRepo.CountMembers(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	if size < models.GroupReadySize {
		return nil, appErr.New(appErr.CodeIneligible, "group needs at least 4 members to request a guide")
	}

	var approval models.CoordinatorApproval
	if err := s.approvalRepo.GetByGroup(ctx, group.ID, &approval); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeNotApproved, "group is not approved by a coordinator")
		}
		return nil, err
	}
	if approval.Status != models.ReviewApproved {
		return nil, appErr.New(appErr.CodeNotApproved, "group is not approved by a coordinator")
	}

	var guide models.FacultyProfile
	if err := s.userRepo.GetFacultyProfile(ctx, guideID, &guide); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeInvalidTarget, "selected user is not a guide")
		}
		return nil, err
	}
	if !guide.IsGuide {
		return nil, appErr.New(appErr.CodeInvalidTarget, "selected user is not a guide")
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, appErr.Wrap(tx.Error, appErr.CodeInternal, "begin transaction failed")
	}

	// One active request per group; a partial unique index backs this up.
	var active int64
	if err := tx.Model(&models.GuideRequest{}).
		Where("group_id = ? AND status IN ?", group.ID, []string{models.RequestPending, models.RequestAccepted}).
		Count(&active).Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "active request check failed")
	}
	if active > 0 {
		tx.Rollback()
		return nil, appErr.New(appErr.CodeDuplicate, "group already has an active guide request")
	}

	req := &models.GuideRequest{
		GroupID: group.ID,
		GuideID: guideID,
		Message: message,
		Status:  models.RequestPending,
	}
	if err := tx.Create(req).Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "create guide request failed")
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "commit transaction failed")
	}

	s.notifier.Notify(ctx, guideID, "guide_requested", "A group has requested you as their guide.", map[string]any{
		"request_id": req.ID.String(),
		"group_id":   group.ID.String(),
	})
	logger.L().Info("guide request sent", zap.String("request_id", req.ID.String()))
	return req, nil
}

// Decide accepts or rejects a pending guide request addressed to the guide.
func (s *guideService) Decide(ctx context.Context, guideID, requestID uuid.UUID, accept bool) (*models.GuideRequest, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, appErr.Wrap(tx.Error, appErr.CodeInternal, "begin transaction failed")
	}

	var req models.GuideRequest
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND guide_id = ?", requestID, guideID).
		First(&req).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			return nil, appErr.New(appErr.CodeNotFound, "guide request not found")
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "get guide request failed")
	}
	if req.Status != models.RequestPending {
		tx.Rollback()
		return nil, appErr.New(appErr.CodeConflict, "request has already been handled")
	}

	if accept {
		req.Status = models.RequestAccepted
	} else {
		req.Status = models.RequestRejected
	}
	if err := tx.Save(&req).Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "update guide request failed")
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "commit transaction failed")
	}

	var group models.Group
	if err := s.groupRepo.GetByID(ctx, req.GroupID, &group); err == nil {
		kind := "guide_rejected"
		msg := "Your guide request was rejected. You may request another guide."
		if accept {
			kind = "guide_accepted"
			msg = "Your guide request was accepted."
		}
		s.notifier.Notify(ctx, group.LeaderID, kind, msg, map[string]any{
			"request_id": req.ID.String(),
		})
	}

	logger.L().Info("guide request decided",
		zap.String("request_id", req.ID.String()),
		zap.String("status", req.Status),
	)
	return &req, nil
}

func (s *guideService) AcceptedGuideOf(ctx context.Context, groupID uuid.UUID) (*models.User, error) {
	var req models.GuideRequest
	if err := s.guideRepo.GetAcceptedByGroup(ctx, groupID, &req); err != nil {
		return nil, err
	}
	var guide models.User
	if err := s.userRepo.GetByID(ctx, req.GuideID, &guide); err != nil {
		return nil, err
	}
	return &guide, nil
}

func (s *guideService) PendingForGuide(ctx context.Context, guideID uuid.UUID) ([]models.GuideRequest, error) {
	return s.guideRepo.ListPendingForGuide(ctx, guideID)
}

func (s *guideService) ListGuides(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListGuides(ctx)
}

func (s *guideService) LatestForGroup(ctx context.Context, groupID uuid.UUID) (*models.GuideRequest, error) {
	var req models.GuideRequest
	if err := s.guideRepo.GetLatestByGroup(ctx, groupID, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// AssignedGroups lists the groups a guide supervises with their submission
// state. Feeds the guide dashboard.
func (s *guideService) AssignedGroups(ctx context.Context, guideID uuid.UUID) ([]GuideGroupDetail, error) {
	accepted, err := s.guideRepo.ListAcceptedForGuide(ctx, guideID)
	if err != nil {
		return nil, err
	}

	details := make([]GuideGroupDetail, 0, len(accepted))
	for _, req := range accepted {
		var group models.Group
		if err := s.groupRepo.GetByID(ctx, req.GroupID, &group); err != nil {
			if appErr.IsCode(err, appErr.CodeNotFound) {
				continue
			}
			return nil, err
		}
		d := GuideGroupDetail{Group: group}

		if d.Members, err = s.groupRepo.ListMembers(ctx, group.ID); err != nil {
			return nil, err
		}

		if d.Abstracts, err = s.abstractRepo.ListByGroup(ctx, group.ID); err != nil {
			return nil, err
		}
		for i := range d.Abstracts {
			d.Abstracts[i].PDFData = nil
		}

		var topic models.Abstract
		if err := s.abstractRepo.GetFinalByGroup(ctx, group.ID, &topic); err == nil {
			topic.PDFData = nil
			d.SelectedTopic = &topic
		} else if !appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, err
		}

		var sdg models.SustainableDevelopmentGoal
		if err := s.sdgRepo.GetByGroup(ctx, group.ID, &sdg); err == nil {
			d.SDG = &sdg
		} else if !appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, err
		}

		details = append(details, d)
	}
	return details, nil
}
