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

func TestRequestGuide_RequiresReadyGroup(t *testing.T) {
	ctx := context.Background()
	leaderID := uuid.New()
	guideID := uuid.New()
	groupID := uuid.New()

	groups := &mockGroupRepository{}
	groups.On("GetByLeader", mock.Anything, leaderID, mock.Anything).
		Return(nil, &models.Group{ID: groupID, LeaderID: leaderID})
	groups.On("CountMembers", mock.Anything, groupID).Return(int64(3), nil)

	approvals := &mockApprovalRepository{}
	svc := NewGuideService(nil, &mockGuideRequestRepository{}, groups, &mockUserRepository{},
		approvals, &mockAbstractRepository{}, &mockSDGRepository{}, noopNotifier{})

	_, err := svc.RequestGuide(ctx, leaderID, guideID, "please supervise us")
	require.Error(t, err)
	require.True(t, appErr.IsCode(err, appErr.CodeIneligible))
	approvals.AssertNotCalled(t, "GetByGroup")
}
