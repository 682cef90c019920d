package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/projectflow/engine/internal/models"
	"github.com/projectflow/engine/internal/repository"
	appErr "github.com/projectflow/engine/pkg/errors"
	"github.com/projectflow/engine/pkg/logger"
	"github.com/projectflow/engine/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmitAbstractInput carries one topic submission with its PDF attachment.
type SubmitAbstractInput struct {
	Title        string
	AbstractText string
	PDFFilename  string
	PDFData      []byte
}

// AbstractFile is the downloadable attachment of an abstract.
type AbstractFile struct {
	Filename string
	Data     []byte
}

// GuideReviewQueue buckets a guide's supervised submissions by review state.
type GuideReviewQueue struct {
	Pending  []models.Abstract `json:"pending"`
	Approved []models.Abstract `json:"approved"`
	Rejected []models.Abstract `json:"rejected"`
}

// Abstract review pipeline: students submit topics, the guide reviews
// first, then the coordinator. Coordinator approval marks the group's
// final topic.
type AbstractService interface {
	Submit(ctx context.Context, actorID uuid.UUID, in SubmitAbstractInput) (*models.Abstract, error)
	GuideReview(ctx context.Context, guideID, abstractID uuid.UUID, approve bool, feedback string) (*models.Abstract, error)
	CoordinatorReview(ctx context.Context, coordinatorID, abstractID uuid.UUID, approve bool, feedback string) (*models.Abstract, error)
	Download(ctx context.Context, actorID, abstractID uuid.UUID) (*AbstractFile, error)
	ListForGroupMember(ctx context.Context, actorID uuid.UUID) ([]models.Abstract, error)
	ReviewQueue(ctx context.Context, guideID uuid.UUID) (*GuideReviewQueue, error)
}

type abstractService struct {
	db             *gorm.DB
	abstractRepo   repository.AbstractRepository
	groupRepo      repository.GroupRepository
	guideRepo      repository.GuideRequestRepository
	approvalRepo   repository.ApprovalRepository
	userRepo       repository.UserRepository
	notifier       Notifier
	maxUploadBytes int64
}

func NewAbstractService(
	db *gorm.DB,
	abstractRepo repository.AbstractRepository,
	groupRepo repository.GroupRepository,
	guideRepo repository.GuideRequestRepository,
	approvalRepo repository.ApprovalRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	maxUploadBytes int64,
) AbstractService {
	return &abstractService{
		db:             db,
		abstractRepo:   abstractRepo,
		groupRepo:      groupRepo,
		guideRepo:      guideRepo,
		approvalRepo:   approvalRepo,
		userRepo:       userRepo,
		notifier:       notifier,
		maxUploadBytes: maxUploadBytes,
	}
}

var _ AbstractService = (*abstractService)(nil)

// Submit validates and stores a topic submission for the leader's group.
// The group must be ready-sized and already have an accepted guide to
// review it.
func (s *abstractService) Submit(ctx context.Context, actorID uuid.UUID, in SubmitAbstractInput) (*models.Abstract, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.AbstractText = strings.TrimSpace(in.AbstractText)
	if in.Title == "" {
		return nil, appErr.New(appErr.CodeInvalid, "title is required")
	}
	if in.AbstractText == "" {
		return nil, appErr.New(appErr.CodeInvalid, "abstract text is required")
	}
	if len(in.PDFData) == 0 {
		return nil, appErr.New(appErr.CodeInvalid, "pdf file is required")
	}
	if int64(len(in.PDFData)) > s.maxUploadBytes {
		return nil, appErr.New(appErr.CodeInvalid, "pdf file exceeds the upload size limit")
	}
	if !strings.HasSuffix(strings.ToLower(in.PDFFilename), ".pdf") {
		return nil, appErr.New(appErr.CodeInvalid, "only pdf files are accepted")
	}

	var group models.Group
	if err := s.groupRepo.GetByLeader(ctx, actorID, &group); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeIneligible, "only the group leader can submit an abstract")
		}
		return nil, err
	}

	size, err := s.groupRepo.CountMembers(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	if size < models.GroupReadySize {
		return nil, appErr.New(appErr.CodeIneligible, "group needs at least 4 members to submit an abstract")
	}

	var accepted models.GuideRequest
	if err := s.guideRepo.GetAcceptedByGroup(ctx, group.ID, &accepted); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeIneligible, "group has no assigned guide")
		}
		return nil, err
	}

	abstract := &models.Abstract{
		GroupID:           group.ID,
		Title:             in.Title,
		AbstractText:      in.AbstractText,
		PDFData:           in.PDFData,
		PDFFilename:       in.PDFFilename,
		PDFSize:           int64(len(in.PDFData)),
		PDFChecksum:       utils.HexSHA256(in.PDFData),
		Status:            models.ReviewPending,
		GuideStatus:       models.ReviewPending,
		CoordinatorStatus: models.ReviewPending,
	}
	if err := s.abstractRepo.Create(ctx, abstract); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, accepted.GuideID, "abstract_submitted", "A supervised group submitted a new abstract.", map[string]any{
		"abstract_id": abstract.ID.String(),
		"group_id":    group.ID.String(),
	})
	logger.L().Info("abstract submitted",
		zap.String("abstract_id", abstract.ID.String()),
		zap.String("group_id", group.ID.String()),
		zap.Int64("pdf_size", abstract.PDFSize),
	)
	abstract.PDFData = nil
	return abstract, nil
}

// GuideReview records the guide's verdict on a pending submission.
// Rejections must carry feedback so the group knows what to fix.
func (s *abstractService) GuideReview(ctx context.Context, guideID, abstractID uuid.UUID, approve bool, feedback string) (*models.Abstract, error) {
	feedback = strings.TrimSpace(feedback)
	if !approve && feedback == "" {
		return nil, appErr.New(appErr.CodeInvalid, "feedback is required when rejecting")
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, appErr.Wrap(tx.Error, appErr.CodeInternal, "begin transaction failed")
	}

	var abstract models.Abstract
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", abstractID).First(&abstract).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			return nil, appErr.New(appErr.CodeNotFound, "abstract not found")
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "get abstract failed")
	}

	isGuide, err := s.guideRepo.IsAcceptedGuide(ctx, abstract.GroupID, guideID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if !isGuide {
		tx.Rollback()
		return nil, appErr.New(appErr.CodeForbidden, "you are not the guide of this group")
	}
	if abstract.GuideStatus != models.ReviewPending {
		tx.Rollback()
		return nil, appErr.New(appErr.CodeConflict, "abstract has already been reviewed by the guide")
	}

	if approve {
		abstract.GuideStatus = models.ReviewApproved
	} else {
		abstract.GuideStatus = models.ReviewRejected
	}
	if feedback != "" {
		abstract.Feedback = feedback
	}
	now := time.Now()
	abstract.ReviewedAt = &now
	abstract.ReviewedByID = &guideID
	abstract.ApplyDerivedStatus()

	if err := tx.Save(&abstract).Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "update abstract failed")
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "commit transaction failed")
	}

	s.notifyGroupLeader(ctx, abstract.GroupID, approve,
		"abstract_guide_approved", "Your abstract was approved by your guide.",
		"abstract_guide_rejected", "Your abstract was rejected by your guide.",
		abstract.ID)
	logger.L().Info("guide review recorded",
		zap.String("abstract_id", abstract.ID.String()),
		zap.String("guide_status", abstract.GuideStatus),
	)
	abstract.PDFData = nil
	return &abstract, nil
}

// CoordinatorReview records the coordinator's verdict on a guide-approved
// submission from one of their classes. Approval selects the group's final
// topic and demotes any previously selected one in the same transaction.
func (s *abstractService) CoordinatorReview(ctx context.Context, coordinatorID, abstractID uuid.UUID, approve bool, feedback string) (*models.Abstract, error) {
	feedback = strings.TrimSpace(feedback)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, appErr.Wrap(tx.Error, appErr.CodeInternal, "begin transaction failed")
	}

	var abstract models.Abstract
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", abstractID).First(&abstract).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			return nil, appErr.New(appErr.CodeNotFound, "abstract not found")
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "get abstract failed")
	}

	inScope, err := s.groupInCoordinatorScope(ctx, abstract.GroupID, coordinatorID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if !inScope {
		tx.Rollback()
		return nil, appErr.New(appErr.CodeForbidden, "group is outside your assigned classes")
	}

	if abstract.GuideStatus != models.ReviewApproved || abstract.CoordinatorStatus != models.ReviewPending {
		tx.Rollback()
		return nil, appErr.New(appErr.CodeNotReady, "abstract is not awaiting coordinator review")
	}

	if approve {
		// Only one topic per group stays final.
		if err := tx.Model(&models.Abstract{}).
			Where("group_id = ? AND is_final_approved = true", abstract.GroupID).
			Updates(map[string]any{"is_final_approved": false, "status": models.ReviewPending}).Error; err != nil {
			tx.Rollback()
			return nil, appErr.Wrap(err, appErr.CodeInternal, "demote prior final topic failed")
		}
		abstract.CoordinatorStatus = models.ReviewApproved
		abstract.IsFinalApproved = true
	} else {
		abstract.CoordinatorStatus = models.ReviewRejected
	}
	if feedback != "" {
		abstract.Feedback = feedback
	}
	now := time.Now()
	abstract.ReviewedAt = &now
	abstract.ReviewedByID = &coordinatorID
	abstract.ApplyDerivedStatus()

	if err := tx.Save(&abstract).Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "update abstract failed")
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "commit transaction failed")
	}

	s.notifyGroupLeader(ctx, abstract.GroupID, approve,
		"abstract_final_approved", "Your abstract was selected as the final project topic.",
		"abstract_coordinator_rejected", "Your abstract was rejected by the coordinator.",
		abstract.ID)
	logger.L().Info("coordinator review recorded",
		zap.String("abstract_id", abstract.ID.String()),
		zap.String("coordinator_status", abstract.CoordinatorStatus),
		zap.Bool("is_final_approved", abstract.IsFinalApproved),
	)
	abstract.PDFData = nil
	return &abstract, nil
}

// Download returns the PDF to current group members and the accepted
// guide. Everyone else is denied.
func (s *abstractService) Download(ctx context.Context, actorID, abstractID uuid.UUID) (*AbstractFile, error) {
	var abstract models.Abstract
	if err := s.abstractRepo.GetByID(ctx, abstractID, &abstract); err != nil {
		return nil, err
	}

	allowed, err := s.canAccess(ctx, actorID, abstract.GroupID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, appErr.New(appErr.CodeForbidden, "you do not have access to this abstract")
	}
	if len(abstract.PDFData) == 0 {
		return nil, appErr.New(appErr.CodeNotFound, "abstract has no attached file")
	}
	return &AbstractFile{Filename: abstract.PDFFilename, Data: abstract.PDFData}, nil
}

func (s *abstractService) ListForGroupMember(ctx context.Context, actorID uuid.UUID) ([]models.Abstract, error) {
	var group models.Group
	if err := s.groupRepo.GetForUser(ctx, actorID, &group); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	out, err := s.abstractRepo.ListByGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].PDFData = nil
	}
	return out, nil
}

func (s *abstractService) ReviewQueue(ctx context.Context, guideID uuid.UUID) (*GuideReviewQueue, error) {
	accepted, err := s.guideRepo.ListAcceptedForGuide(ctx, guideID)
	if err != nil {
		return nil, err
	}
	groupIDs := make([]uuid.UUID, 0, len(accepted))
	for _, r := range accepted {
		groupIDs = append(groupIDs, r.GroupID)
	}

	queue := &GuideReviewQueue{}
	if queue.Pending, err = s.abstractRepo.ListByGuideStatus(ctx, groupIDs, models.ReviewPending); err != nil {
		return nil, err
	}
	if queue.Approved, err = s.abstractRepo.ListByGuideStatus(ctx, groupIDs, models.ReviewApproved); err != nil {
		return nil, err
	}
	if queue.Rejected, err = s.abstractRepo.ListByGuideStatus(ctx, groupIDs, models.ReviewRejected); err != nil {
		return nil, err
	}
	for _, bucket := range [][]models.Abstract{queue.Pending, queue.Approved, queue.Rejected} {
		for i := range bucket {
			bucket[i].PDFData = nil
		}
	}
	return queue, nil
}

func (s *abstractService) canAccess(ctx context.Context, actorID, groupID uuid.UUID) (bool, error) {
	var group models.Group
	if err := s.groupRepo.GetByID(ctx, groupID, &group); err != nil {
		return false, err
	}
	if group.LeaderID == actorID {
		return true, nil
	}
	if member, err := s.groupRepo.IsMember(ctx, groupID, actorID); err != nil {
		return false, err
	} else if member {
		return true, nil
	}
	if isGuide, err := s.guideRepo.IsAcceptedGuide(ctx, groupID, actorID); err != nil {
		return false, err
	} else if isGuide {
		return true, nil
	}
	return false, nil
}

// groupInCoordinatorScope reports whether the group's leader class is one
// of the coordinator's assigned classes.
func (s *abstractService) groupInCoordinatorScope(ctx context.Context, groupID, coordinatorID uuid.UUID) (bool, error) {
	var faculty models.FacultyProfile
	if err := s.userRepo.GetFacultyProfile(ctx, coordinatorID, &faculty); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	if !faculty.IsCoordinator {
		return false, nil
	}

	classes, err := s.approvalRepo.AssignedClasses(ctx, coordinatorID)
	if err != nil {
		return false, err
	}
	if len(classes) == 0 {
		return false, nil
	}

	var group models.Group
	if err := s.groupRepo.GetByID(ctx, groupID, &group); err != nil {
		return false, err
	}
	var leaderProfile models.StudentProfile
	if err := s.userRepo.GetStudentProfile(ctx, group.LeaderID, &leaderProfile); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	for _, c := range classes {
		if c == leaderProfile.ClassName {
			return true, nil
		}
	}
	return false, nil
}

func (s *abstractService) notifyGroupLeader(ctx context.Context, groupID uuid.UUID, approve bool, approveKind, approveMsg, rejectKind, rejectMsg string, abstractID uuid.UUID) {
	var group models.Group
	if err := s.groupRepo.GetByID(ctx, groupID, &group); err != nil {
		return
	}
	kind, msg := rejectKind, rejectMsg
	if approve {
		kind, msg = approveKind, approveMsg
	}
	s.notifier.Notify(ctx, group.LeaderID, kind, msg, map[string]any{
		"abstract_id": abstractID.String(),
	})
}
