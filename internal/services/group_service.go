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

// Group formation: invite/accept flow with capacity caps. Every mutation
// runs in one transaction and re-validates capacity under row locks, so
// racing accepts cannot push a group past the member cap.
type GroupService interface {
	Invite(ctx context.Context, actorID, targetID uuid.UUID) (*models.GroupRequest, error)
	RespondToRequest(ctx context.Context, recipientID, requestID uuid.UUID, accept bool) (*models.GroupRequest, error)
	PendingRequests(ctx context.Context, recipientID uuid.UUID) ([]models.GroupRequest, error)
	SentRequests(ctx context.Context, senderID uuid.UUID) ([]models.GroupRequest, error)
	SearchStudents(ctx context.Context, actorID uuid.UUID, query string) ([]models.User, error)
	Overview(ctx context.Context, userID uuid.UUID) (*ProjectOverview, error)
}

// ProjectOverview is the student's view of their project state.
type ProjectOverview struct {
	Group         *models.Group                      `json:"group"`
	IsLeader      bool                               `json:"is_leader"`
	Members       []models.User                      `json:"members"`
	GroupSize     int                                `json:"group_size"`
	GroupReady    bool                               `json:"group_ready"`
	GroupFull     bool                               `json:"group_full"`
	Approval      *models.CoordinatorApproval        `json:"coordinator_approval"`
	AssignedGuide *models.User                       `json:"assigned_guide"`
	SDG           *models.SustainableDevelopmentGoal `json:"sdg"`
	SelectedTopic *models.Abstract                   `json:"selected_topic"`
	CanSubmitSDG  bool                               `json:"can_submit_sdg"`
}

type groupService struct {
	db           *gorm.DB
	groupRepo    repository.GroupRepository
	requestRepo  repository.GroupRequestRepository
	userRepo     repository.UserRepository
	approvalRepo repository.ApprovalRepository
	guideRepo    repository.GuideRequestRepository
	abstractRepo repository.AbstractRepository
	sdgRepo      repository.SDGRepository
	notifier     Notifier
}

func NewGroupService(
	db *gorm.DB,
	groupRepo repository.GroupRepository,
	requestRepo repository.GroupRequestRepository,
	userRepo repository.UserRepository,
	approvalRepo repository.ApprovalRepository,
	guideRepo repository.GuideRequestRepository,
	abstractRepo repository.AbstractRepository,
	sdgRepo repository.SDGRepository,
	notifier Notifier,
) GroupService {
	return &groupService{
		db:           db,
		groupRepo:    groupRepo,
		requestRepo:  requestRepo,
		userRepo:     userRepo,
		approvalRepo: approvalRepo,
		guideRepo:    guideRepo,
		abstractRepo: abstractRepo,
		sdgRepo:      sdgRepo,
		notifier:     notifier,
	}
}

var _ GroupService = (*groupService)(nil)

// Invite sends a group request to a student, lazily creating the sender's
// group on first invite.
func (s *groupService) Invite(ctx context.Context, actorID, targetID uuid.UUID) (*models.GroupRequest, error) {
	logger.L().Info("group invite", zap.String("actor_id", actorID.String()), zap.String("target_id", targetID.String()))

	if actorID == targetID {
		return nil, appErr.New(appErr.CodeInvalid, "you cannot invite yourself")
	}

	var targetProfile models.StudentProfile
	if err := s.userRepo.GetStudentProfile(ctx, targetID, &targetProfile); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeInvalidTarget, "selected user is not a student")
		}
		return nil, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, appErr.Wrap(tx.Error, appErr.CodeInternal, "begin transaction failed")
	}

	// Resolve the sender's group, locking it so a racing accept cannot
	// change its size under us.
	var group models.Group
	haveGroup := true
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("leader_id = ?", actorID).First(&group).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			tx.Rollback()
			return nil, appErr.Wrap(err, appErr.CodeInternal, "get group failed")
		}
		haveGroup = false
		// A member of someone else's group cannot invite.
		var membership models.GroupMember
		if err := tx.Where("user_id = ?", actorID).First(&membership).Error; err == nil {
			tx.Rollback()
			return nil, appErr.New(appErr.CodeIneligible, "only the group leader can send invitations")
		} else if err != gorm.ErrRecordNotFound {
			tx.Rollback()
			return nil, appErr.Wrap(err, appErr.CodeInternal, "get membership failed")
		}
	}

	if haveGroup {
		var size int64
		if err := tx.Model(&models.GroupMember{}).Where("group_id = ?", group.ID).Count(&size).Error; err != nil {
			tx.Rollback()
			return nil, appErr.Wrap(err, appErr.CodeInternal, "count members failed")
		}
		if size >= models.GroupMaxSize {
			tx.Rollback()
			return nil, appErr.New(appErr.CodeIneligible, "group is full")
		}
	}

	// Target must not already lead or belong to a group.
	var n int64
	if err := tx.Model(&models.Group{}).Where("leader_id = ?", targetID).Count(&n).Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "target leadership check failed")
	}
	if n == 0 {
		if err := tx.Model(&models.GroupMember{}).Where("user_id = ?", targetID).Count(&n).Error; err != nil {
			tx.Rollback()
			return nil, appErr.Wrap(err, appErr.CodeInternal, "target membership check failed")
		}
	}
	if n > 0 {
		tx.Rollback()
		return nil, appErr.New(appErr.CodeConflict, "user is already in a group")
	}

	var dup int64
	if err := tx.Model(&models.GroupRequest{}).
		Where("sender_id = ? AND recipient_id = ? AND status = ?", actorID, targetID, models.RequestPending).
		Count(&dup).Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "duplicate request check failed")
	}
	if dup > 0 {
		tx.Rollback()
		return nil, appErr.New(appErr.CodeDuplicate, "request already sent")
	}

	if !haveGroup {
		group = models.Group{LeaderID: actorID}
		if err := tx.Create(&group).Error; err != nil {
			tx.Rollback()
			return nil, appErr.Wrap(err, appErr.CodeInternal, "create group failed")
		}
	}
	if err := tx.Where(models.GroupMember{GroupID: group.ID, UserID: actorID}).
		FirstOrCreate(&models.GroupMember{GroupID: group.ID, UserID: actorID}).Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "add leader membership failed")
	}

	req := &models.GroupRequest{SenderID: actorID, RecipientID: targetID, Status: models.RequestPending}
	if err := tx.Create(req).Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "create group request failed")
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "commit transaction failed")
	}

	s.notifier.Notify(ctx, targetID, "group_invite", "You have been invited to join a project group.", map[string]any{
		"request_id": req.ID.String(),
		"sender_id":  actorID.String(),
	})
	logger.L().Info("group request sent", zap.String("request_id", req.ID.String()), zap.String("group_id", group.ID.String()))
	return req, nil
}

// RespondToRequest accepts or rejects a pending invitation. Accepts that
// would break the grouping invariants are force-rejected so the sender
// learns the invitation is dead.
func (s *groupService) RespondToRequest(ctx context.Context, recipientID, requestID uuid.UUID, accept bool) (*models.GroupRequest, error) {
	logger.L().Info("respond to group request",
		zap.String("recipient_id", recipientID.String()),
		zap.String("request_id", requestID.String()),
		zap.Bool("accept", accept),
	)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, appErr.Wrap(tx.Error, appErr.CodeInternal, "begin transaction failed")
	}

	var req models.GroupRequest
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND recipient_id = ?", requestID, recipientID).
		First(&req).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			return nil, appErr.New(appErr.CodeNotFound, "group request not found")
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "get group request failed")
	}
	if req.Status != models.RequestPending {
		tx.Rollback()
		return nil, appErr.New(appErr.CodeConflict, "request has already been handled")
	}

	if !accept {
		req.Status = models.RequestRejected
		if err := s.saveAndCommit(tx, &req); err != nil {
			return nil, err
		}
		s.notifier.Notify(ctx, req.SenderID, "group_invite_rejected", "Your group invitation was rejected.", map[string]any{
			"request_id": req.ID.String(),
		})
		return &req, nil
	}

	// Recipient joining a second group is force-rejected.
	var n int64
	if err := tx.Model(&models.Group{}).Where("leader_id = ?", recipientID).Count(&n).Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "recipient leadership check failed")
	}
	if n == 0 {
		if err := tx.Model(&models.GroupMember{}).Where("user_id = ?", recipientID).Count(&n).Error; err != nil {
			tx.Rollback()
			return nil, appErr.Wrap(err, appErr.CodeInternal, "recipient membership check failed")
		}
	}
	if n > 0 {
		req.Status = models.RequestRejected
		if err := s.saveAndCommit(tx, &req); err != nil {
			return nil, err
		}
		return &req, appErr.New(appErr.CodeConflict, "you are already in a group")
	}

	// Resolve or lazily create the sender's group, locked for the size check.
	var group models.Group
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("leader_id = ?", req.SenderID).First(&group).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			tx.Rollback()
			return nil, appErr.Wrap(err, appErr.CodeInternal, "get sender group failed")
		}
		group = models.Group{LeaderID: req.SenderID}
		if err := tx.Create(&group).Error; err != nil {
			tx.Rollback()
			return nil, appErr.Wrap(err, appErr.CodeInternal, "create sender group failed")
		}
	}

	var size int64
	if err := tx.Model(&models.GroupMember{}).Where("group_id = ?", group.ID).Count(&size).Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "count members failed")
	}
	var senderIn, recipientIn int64
	if err := tx.Model(&models.GroupMember{}).Where("group_id = ? AND user_id = ?", group.ID, req.SenderID).Count(&senderIn).Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "sender membership check failed")
	}
	if err := tx.Model(&models.GroupMember{}).Where("group_id = ? AND user_id = ?", group.ID, recipientID).Count(&recipientIn).Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "recipient membership check failed")
	}
	additional := int64(0)
	if senderIn == 0 {
		additional++
	}
	if recipientIn == 0 {
		additional++
	}
	if size+additional > models.GroupMaxSize {
		req.Status = models.RequestRejected
		if err := s.saveAndCommit(tx, &req); err != nil {
			return nil, err
		}
		return &req, appErr.New(appErr.CodeIneligible, "group is full")
	}

	if senderIn == 0 {
		if err := tx.Create(&models.GroupMember{GroupID: group.ID, UserID: req.SenderID}).Error; err != nil {
			tx.Rollback()
			return nil, appErr.Wrap(err, appErr.CodeInternal, "add sender membership failed")
		}
	}
	if recipientIn == 0 {
		if err := tx.Create(&models.GroupMember{GroupID: group.ID, UserID: recipientID}).Error; err != nil {
			tx.Rollback()
			return nil, appErr.Wrap(err, appErr.CodeInternal, "add recipient membership failed")
		}
	}

	req.Status = models.RequestAccepted
	if err := s.saveAndCommit(tx, &req); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, req.SenderID, "group_invite_accepted", "Your group invitation was accepted.", map[string]any{
		"request_id": req.ID.String(),
		"group_id":   group.ID.String(),
	})
	logger.L().Info("group request accepted", zap.String("request_id", req.ID.String()), zap.String("group_id", group.ID.String()))
	return &req, nil
}

func (s *groupService) saveAndCommit(tx *gorm.DB, req *models.GroupRequest) error {
	if err := tx.Save(req).Error; err != nil {
		tx.Rollback()
		return appErr.Wrap(err, appErr.CodeInternal, "update group request failed")
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return appErr.Wrap(err, appErr.CodeInternal, "commit transaction failed")
	}
	return nil
}

func (s *groupService) PendingRequests(ctx context.Context, recipientID uuid.UUID) ([]models.GroupRequest, error) {
	return s.requestRepo.ListPendingForRecipient(ctx, recipientID)
}

func (s *groupService) SentRequests(ctx context.Context, senderID uuid.UUID) ([]models.GroupRequest, error) {
	return s.requestRepo.ListBySender(ctx, senderID)
}

func (s *groupService) SearchStudents(ctx context.Context, actorID uuid.UUID, query string) ([]models.User, error) {
	return s.userRepo.SearchStudents(ctx, actorID, query)
}

// Overview assembles the student project dashboard.
func (s *groupService) Overview(ctx context.Context, userID uuid.UUID) (*ProjectOverview, error) {
	out := &ProjectOverview{}

	var group models.Group
	if err := s.groupRepo.GetForUser(ctx, userID, &group); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return out, nil
		}
		return nil, err
	}
	out.Group = &group
	out.IsLeader = group.LeaderID == userID

	members, err := s.groupRepo.ListMembers(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	out.Members = members
	out.GroupSize = len(members)
	out.GroupReady = out.GroupSize >= models.GroupReadySize
	out.GroupFull = out.GroupSize >= models.GroupMaxSize

	var approval models.CoordinatorApproval
	if err := s.approvalRepo.GetByGroup(ctx, group.ID, &approval); err == nil {
		out.Approval = &approval
	} else if !appErr.IsCode(err, appErr.CodeNotFound) {
		return nil, err
	}

	var accepted models.GuideRequest
	if err := s.guideRepo.GetAcceptedByGroup(ctx, group.ID, &accepted); err == nil {
		var guide models.User
		if err := s.userRepo.GetByID(ctx, accepted.GuideID, &guide); err == nil {
			out.AssignedGuide = &guide
		} else if !appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, err
		}
	} else if !appErr.IsCode(err, appErr.CodeNotFound) {
		return nil, err
	}

	var sdg models.SustainableDevelopmentGoal
	if err := s.sdgRepo.GetByGroup(ctx, group.ID, &sdg); err == nil {
		out.SDG = &sdg
	} else if !appErr.IsCode(err, appErr.CodeNotFound) {
		return nil, err
	}

	var topic models.Abstract
	if err := s.abstractRepo.GetFinalByGroup(ctx, group.ID, &topic); err == nil {
		topic.PDFData = nil
		out.SelectedTopic = &topic
	} else if !appErr.IsCode(err, appErr.CodeNotFound) {
		return nil, err
	}

	out.CanSubmitSDG = out.IsLeader &&
		out.Approval != nil && out.Approval.Status == models.ReviewApproved &&
		out.SDG == nil
	return out, nil
}
