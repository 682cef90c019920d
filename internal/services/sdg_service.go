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
)

// SDGInput is the declaration form. All fields are optional free text;
// whitespace is trimmed before storage.
type SDGInput struct {
	SDG1              string `json:"sdg1"`
	SDG1Justification string `json:"sdg1_justification"`
	SDG2              string `json:"sdg2"`
	SDG2Justification string `json:"sdg2_justification"`
	SDG3              string `json:"sdg3"`
	SDG3Justification string `json:"sdg3_justification"`
	SDG4              string `json:"sdg4"`
	SDG4Justification string `json:"sdg4_justification"`
	SDG5              string `json:"sdg5"`
	SDG5Justification string `json:"sdg5_justification"`

	WP1              string `json:"wp1"`
	WP1Justification string `json:"wp1_justification"`
	WP2              string `json:"wp2"`
	WP2Justification string `json:"wp2_justification"`
	WP3              string `json:"wp3"`
	WP3Justification string `json:"wp3_justification"`
	WP4              string `json:"wp4"`
	WP4Justification string `json:"wp4_justification"`
	WP5              string `json:"wp5"`
	WP5Justification string `json:"wp5_justification"`

	PO1  string `json:"po1"`
	PO2  string `json:"po2"`
	PO3  string `json:"po3"`
	PO4  string `json:"po4"`
	PO5  string `json:"po5"`
	PSO1 string `json:"pso1"`
	PSO2 string `json:"pso2"`
}

// SDG declaration: a one-time form the leader files after coordinator
// approval.
type SDGService interface {
	Submit(ctx context.Context, leaderID uuid.UUID, in SDGInput) (*models.SustainableDevelopmentGoal, error)
	GetForGroupMember(ctx context.Context, actorID uuid.UUID) (*models.SustainableDevelopmentGoal, error)
}

type sdgService struct {
	sdgRepo      repository.SDGRepository
	groupRepo    repository.GroupRepository
	approvalRepo repository.ApprovalRepository
}

func NewSDGService(sdgRepo repository.SDGRepository, groupRepo repository.GroupRepository, approvalRepo repository.ApprovalRepository) SDGService {
	return &sdgService{sdgRepo: sdgRepo, groupRepo: groupRepo, approvalRepo: approvalRepo}
}

var _ SDGService = (*sdgService)(nil)

// Submit files the group's declaration. Leader only, approved groups only,
// once per group.
func (s *sdgService) Submit(ctx context.Context, leaderID uuid.UUID, in SDGInput) (*models.SustainableDevelopmentGoal, error) {
	var group models.Group
	if err := s.groupRepo.GetByLeader(ctx, leaderID, &group); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeIneligible, "only the group leader can submit the declaration")
		}
		return nil, err
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

	exists, err := s.sdgRepo.ExistsForGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, appErr.New(appErr.CodeAlreadyExists, "declaration has already been submitted")
	}

	t := strings.TrimSpace
	sdg := &models.SustainableDevelopmentGoal{
		GroupID: group.ID,

		SDG1: t(in.SDG1), SDG1Justification: t(in.SDG1Justification),
		SDG2: t(in.SDG2), SDG2Justification: t(in.SDG2Justification),
		SDG3: t(in.SDG3), SDG3Justification: t(in.SDG3Justification),
		SDG4: t(in.SDG4), SDG4Justification: t(in.SDG4Justification),
		SDG5: t(in.SDG5), SDG5Justification: t(in.SDG5Justification),

		WP1: t(in.WP1), WP1Justification: t(in.WP1Justification),
		WP2: t(in.WP2), WP2Justification: t(in.WP2Justification),
		WP3: t(in.WP3), WP3Justification: t(in.WP3Justification),
		WP4: t(in.WP4), WP4Justification: t(in.WP4Justification),
		WP5: t(in.WP5), WP5Justification: t(in.WP5Justification),

		PO1: t(in.PO1), PO2: t(in.PO2), PO3: t(in.PO3), PO4: t(in.PO4), PO5: t(in.PO5),
		PSO1: t(in.PSO1), PSO2: t(in.PSO2),

		SubmittedByID: leaderID,
		IsSubmitted:   true,
	}
	if err := s.sdgRepo.Create(ctx, sdg); err != nil {
		return nil, err
	}

	logger.L().Info("sdg declaration submitted",
		zap.String("sdg_id", sdg.ID.String()),
		zap.String("group_id", group.ID.String()),
	)
	return sdg, nil
}

func (s *sdgService) GetForGroupMember(ctx context.Context, actorID uuid.UUID) (*models.SustainableDevelopmentGoal, error) {
	var group models.Group
	if err := s.groupRepo.GetForUser(ctx, actorID, &group); err != nil {
		return nil, err
	}
	var sdg models.SustainableDevelopmentGoal
	if err := s.sdgRepo.GetByGroup(ctx, group.ID, &sdg); err != nil {
		return nil, err
	}
	return &sdg, nil
}
