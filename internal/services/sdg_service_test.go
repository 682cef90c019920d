package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/projectflow/engine/internal/models"
	appErr "github.com/projectflow/engine/pkg/errors"
)

func TestSDGSubmit(t *testing.T) {
	ctx := context.Background()
	leaderID := uuid.New()
	groupID := uuid.New()

	notFound := appErr.New(appErr.CodeNotFound, "not found")
	group := &models.Group{ID: groupID, LeaderID: leaderID}
	approved := &models.CoordinatorApproval{GroupID: groupID, Status: models.ReviewApproved}

	t.Run("non-leader cannot submit", func(t *testing.T) {
		groups := &mockGroupRepository{}
		groups.On("GetByLeader", mock.Anything, leaderID, mock.Anything).Return(notFound, nil)

		svc := NewSDGService(&mockSDGRepository{}, groups, &mockApprovalRepository{})
		_, err := svc.Submit(ctx, leaderID, SDGInput{})
		require.True(t, appErr.IsCode(err, appErr.CodeIneligible))
	})

	t.Run("unapproved group cannot submit", func(t *testing.T) {
		groups := &mockGroupRepository{}
		groups.On("GetByLeader", mock.Anything, leaderID, mock.Anything).Return(nil, group)
		approvals := &mockApprovalRepository{}
		approvals.On("GetByGroup", mock.Anything, groupID, mock.Anything).
			Return(nil, &models.CoordinatorApproval{GroupID: groupID, Status: models.ReviewPending})

		svc := NewSDGService(&mockSDGRepository{}, groups, approvals)
		_, err := svc.Submit(ctx, leaderID, SDGInput{})
		require.True(t, appErr.IsCode(err, appErr.CodeNotApproved))
	})

	t.Run("second submission is rejected", func(t *testing.T) {
		groups := &mockGroupRepository{}
		groups.On("GetByLeader", mock.Anything, leaderID, mock.Anything).Return(nil, group)
		approvals := &mockApprovalRepository{}
		approvals.On("GetByGroup", mock.Anything, groupID, mock.Anything).Return(nil, approved)
		sdgs := &mockSDGRepository{}
		sdgs.On("ExistsForGroup", mock.Anything, groupID).Return(true, nil)

		svc := NewSDGService(sdgs, groups, approvals)
		_, err := svc.Submit(ctx, leaderID, SDGInput{})
		require.True(t, appErr.IsCode(err, appErr.CodeAlreadyExists))
		sdgs.AssertNotCalled(t, "Create")
	})

	t.Run("submission trims fields and marks submitted", func(t *testing.T) {
		groups := &mockGroupRepository{}
		groups.On("GetByLeader", mock.Anything, leaderID, mock.Anything).Return(nil, group)
		approvals := &mockApprovalRepository{}
		approvals.On("GetByGroup", mock.Anything, groupID, mock.Anything).Return(nil, approved)
		sdgs := &mockSDGRepository{}
		sdgs.On("ExistsForGroup", mock.Anything, groupID).Return(false, nil)
		sdgs.On("Create", mock.Anything, mock.MatchedBy(func(s *models.SustainableDevelopmentGoal) bool {
			return s.GroupID == groupID &&
				s.SubmittedByID == leaderID &&
				s.IsSubmitted &&
				s.SDG1 == "No Poverty" &&
				s.PSO2 == "PSO2"
		})).Return(nil).Once()

		svc := NewSDGService(sdgs, groups, approvals)
		got, err := svc.Submit(ctx, leaderID, SDGInput{
			SDG1: "  No Poverty  ",
			PSO2: "\tPSO2\n",
		})
		require.NoError(t, err)
		require.True(t, got.IsSubmitted)
		sdgs.AssertExpectations(t)
	})
}
