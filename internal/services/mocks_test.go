package services

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/projectflow/engine/internal/models"
	"github.com/projectflow/engine/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests (required by services)
	_, err := logger.Init("info", "json")
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

// noopNotifier swallows notifications in unit tests.
type noopNotifier struct{}

func (noopNotifier) Notify(ctx context.Context, userID uuid.UUID, kind, message string, data map[string]any) {
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, obj *models.User) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id any, dest *models.User) error {
	args := m.Called(ctx, id, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.User)
	}
	return args.Error(0)
}

func (m *mockUserRepository) Update(ctx context.Context, obj *models.User) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id any) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	args := m.Called(ctx, email, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.User)
	}
	return args.Error(0)
}

func (m *mockUserRepository) GetStudentProfile(ctx context.Context, userID uuid.UUID, dest *models.StudentProfile) error {
	args := m.Called(ctx, userID, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.StudentProfile)
	}
	return args.Error(0)
}

func (m *mockUserRepository) GetFacultyProfile(ctx context.Context, userID uuid.UUID, dest *models.FacultyProfile) error {
	args := m.Called(ctx, userID, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.FacultyProfile)
	}
	return args.Error(0)
}

func (m *mockUserRepository) SearchStudents(ctx context.Context, excludeUserID uuid.UUID, query string) ([]models.User, error) {
	args := m.Called(ctx, excludeUserID, query)
	if v := args.Get(0); v != nil {
		return v.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) ListGuides(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) ListCoordinators(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockGroupRepository struct {
	mock.Mock
}

func (m *mockGroupRepository) Create(ctx context.Context, obj *models.Group) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockGroupRepository) GetByID(ctx context.Context, id any, dest *models.Group) error {
	args := m.Called(ctx, id, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.Group)
	}
	return args.Error(0)
}

func (m *mockGroupRepository) Update(ctx context.Context, obj *models.Group) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockGroupRepository) Delete(ctx context.Context, id any) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockGroupRepository) GetByLeader(ctx context.Context, leaderID uuid.UUID, dest *models.Group) error {
	args := m.Called(ctx, leaderID, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.Group)
	}
	return args.Error(0)
}

func (m *mockGroupRepository) GetForUser(ctx context.Context, userID uuid.UUID, dest *models.Group) error {
	args := m.Called(ctx, userID, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.Group)
	}
	return args.Error(0)
}

func (m *mockGroupRepository) CountMembers(ctx context.Context, groupID uuid.UUID) (int64, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockGroupRepository) ListMembers(ctx context.Context, groupID uuid.UUID) ([]models.User, error) {
	args := m.Called(ctx, groupID)
	if v := args.Get(0); v != nil {
		return v.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGroupRepository) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockGroupRepository) ListByLeaderClasses(ctx context.Context, classes []string) ([]models.Group, error) {
	args := m.Called(ctx, classes)
	if v := args.Get(0); v != nil {
		return v.([]models.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockApprovalRepository struct {
	mock.Mock
}

func (m *mockApprovalRepository) Create(ctx context.Context, obj *models.CoordinatorApproval) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockApprovalRepository) GetByID(ctx context.Context, id any, dest *models.CoordinatorApproval) error {
	args := m.Called(ctx, id, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.CoordinatorApproval)
	}
	return args.Error(0)
}

func (m *mockApprovalRepository) Update(ctx context.Context, obj *models.CoordinatorApproval) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockApprovalRepository) Delete(ctx context.Context, id any) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockApprovalRepository) GetByGroup(ctx context.Context, groupID uuid.UUID, dest *models.CoordinatorApproval) error {
	args := m.Called(ctx, groupID, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.CoordinatorApproval)
	}
	return args.Error(0)
}

func (m *mockApprovalRepository) ListPendingForCoordinator(ctx context.Context, coordinatorID uuid.UUID) ([]models.CoordinatorApproval, error) {
	args := m.Called(ctx, coordinatorID)
	if v := args.Get(0); v != nil {
		return v.([]models.CoordinatorApproval), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockApprovalRepository) AssignedClasses(ctx context.Context, coordinatorID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, coordinatorID)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockGuideRequestRepository struct {
	mock.Mock
}

func (m *mockGuideRequestRepository) Create(ctx context.Context, obj *models.GuideRequest) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockGuideRequestRepository) GetByID(ctx context.Context, id any, dest *models.GuideRequest) error {
	args := m.Called(ctx, id, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.GuideRequest)
	}
	return args.Error(0)
}

func (m *mockGuideRequestRepository) Update(ctx context.Context, obj *models.GuideRequest) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockGuideRequestRepository) Delete(ctx context.Context, id any) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockGuideRequestRepository) GetAcceptedByGroup(ctx context.Context, groupID uuid.UUID, dest *models.GuideRequest) error {
	args := m.Called(ctx, groupID, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.GuideRequest)
	}
	return args.Error(0)
}

func (m *mockGuideRequestRepository) ListPendingForGuide(ctx context.Context, guideID uuid.UUID) ([]models.GuideRequest, error) {
	args := m.Called(ctx, guideID)
	if v := args.Get(0); v != nil {
		return v.([]models.GuideRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGuideRequestRepository) ListAcceptedForGuide(ctx context.Context, guideID uuid.UUID) ([]models.GuideRequest, error) {
	args := m.Called(ctx, guideID)
	if v := args.Get(0); v != nil {
		return v.([]models.GuideRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGuideRequestRepository) IsAcceptedGuide(ctx context.Context, groupID, guideID uuid.UUID) (bool, error) {
	args := m.Called(ctx, groupID, guideID)
	return args.Bool(0), args.Error(1)
}

func (m *mockGuideRequestRepository) GetLatestByGroup(ctx context.Context, groupID uuid.UUID, dest *models.GuideRequest) error {
	args := m.Called(ctx, groupID, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.GuideRequest)
	}
	return args.Error(0)
}

type mockAbstractRepository struct {
	mock.Mock
}

func (m *mockAbstractRepository) Create(ctx context.Context, obj *models.Abstract) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockAbstractRepository) GetByID(ctx context.Context, id any, dest *models.Abstract) error {
	args := m.Called(ctx, id, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.Abstract)
	}
	return args.Error(0)
}

func (m *mockAbstractRepository) Update(ctx context.Context, obj *models.Abstract) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockAbstractRepository) Delete(ctx context.Context, id any) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAbstractRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]models.Abstract, error) {
	args := m.Called(ctx, groupID)
	if v := args.Get(0); v != nil {
		return v.([]models.Abstract), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAbstractRepository) GetFinalByGroup(ctx context.Context, groupID uuid.UUID, dest *models.Abstract) error {
	args := m.Called(ctx, groupID, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.Abstract)
	}
	return args.Error(0)
}

func (m *mockAbstractRepository) ListByGuideStatus(ctx context.Context, groupIDs []uuid.UUID, guideStatus string) ([]models.Abstract, error) {
	args := m.Called(ctx, groupIDs, guideStatus)
	if v := args.Get(0); v != nil {
		return v.([]models.Abstract), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAbstractRepository) ListPendingCoordinatorReview(ctx context.Context, classes []string) ([]models.Abstract, error) {
	args := m.Called(ctx, classes)
	if v := args.Get(0); v != nil {
		return v.([]models.Abstract), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSDGRepository struct {
	mock.Mock
}

func (m *mockSDGRepository) Create(ctx context.Context, obj *models.SustainableDevelopmentGoal) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockSDGRepository) GetByID(ctx context.Context, id any, dest *models.SustainableDevelopmentGoal) error {
	args := m.Called(ctx, id, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.SustainableDevelopmentGoal)
	}
	return args.Error(0)
}

func (m *mockSDGRepository) Update(ctx context.Context, obj *models.SustainableDevelopmentGoal) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockSDGRepository) Delete(ctx context.Context, id any) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSDGRepository) GetByGroup(ctx context.Context, groupID uuid.UUID, dest *models.SustainableDevelopmentGoal) error {
	args := m.Called(ctx, groupID, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.SustainableDevelopmentGoal)
	}
	return args.Error(0)
}

func (m *mockSDGRepository) ExistsForGroup(ctx context.Context, groupID uuid.UUID) (bool, error) {
	args := m.Called(ctx, groupID)
	return args.Bool(0), args.Error(1)
}

func (m *mockSDGRepository) ListByGroups(ctx context.Context, groupIDs []uuid.UUID) ([]models.SustainableDevelopmentGoal, error) {
	args := m.Called(ctx, groupIDs)
	if v := args.Get(0); v != nil {
		return v.([]models.SustainableDevelopmentGoal), args.Error(1)
	}
	return nil, args.Error(1)
}
