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

func TestRoleOf(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	notFound := appErr.New(appErr.CodeNotFound, "not found")

	cases := []struct {
		name    string
		student *models.StudentProfile
		faculty *models.FacultyProfile
		want    Role
	}{
		{"student", &models.StudentProfile{UserID: userID}, nil, RoleStudent},
		{"guide", nil, &models.FacultyProfile{UserID: userID, IsGuide: true}, RoleGuide},
		{"coordinator", nil, &models.FacultyProfile{UserID: userID, IsCoordinator: true}, RoleCoordinator},
		{"dual", nil, &models.FacultyProfile{UserID: userID, IsGuide: true, IsCoordinator: true}, RoleGuideAndCoordinator},
		{"no capability", nil, &models.FacultyProfile{UserID: userID}, RoleNone},
		{"no profile", nil, nil, RoleNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := &mockUserRepository{}
			if tc.student != nil {
				users.On("GetStudentProfile", mock.Anything, userID, mock.Anything).Return(nil, tc.student)
			} else {
				users.On("GetStudentProfile", mock.Anything, userID, mock.Anything).Return(notFound, nil)
				if tc.faculty != nil {
					users.On("GetFacultyProfile", mock.Anything, userID, mock.Anything).Return(nil, tc.faculty)
				} else {
					users.On("GetFacultyProfile", mock.Anything, userID, mock.Anything).Return(notFound, nil)
				}
			}

			svc := NewRoleService(users)
			got, err := svc.RoleOf(ctx, userID)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestRequireFaculty_DualRoleSelection(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	dual := &models.FacultyProfile{UserID: userID, IsGuide: true, IsCoordinator: true}

	t.Run("no selection required for single capability", func(t *testing.T) {
		users := &mockUserRepository{}
		users.On("GetFacultyProfile", mock.Anything, userID, mock.Anything).
			Return(nil, &models.FacultyProfile{UserID: userID, IsGuide: true})

		svc := NewRoleService(users)
		require.NoError(t, svc.RequireFaculty(ctx, userID, "", ActiveRoleGuide))
	})

	t.Run("dual without selection", func(t *testing.T) {
		users := &mockUserRepository{}
		users.On("GetFacultyProfile", mock.Anything, userID, mock.Anything).Return(nil, dual)

		svc := NewRoleService(users)
		err := svc.RequireFaculty(ctx, userID, "", ActiveRoleGuide)
		require.Error(t, err)
		require.True(t, appErr.IsCode(err, appErr.CodeRoleRequired))

		ae := err.(*appErr.AppError)
		require.Equal(t, "/role-selection", ae.Meta["redirect"])
	})

	t.Run("dual acting outside selected role", func(t *testing.T) {
		users := &mockUserRepository{}
		users.On("GetFacultyProfile", mock.Anything, userID, mock.Anything).Return(nil, dual)

		svc := NewRoleService(users)
		err := svc.RequireFaculty(ctx, userID, ActiveRoleGuide, ActiveRoleCoordinator)
		require.Error(t, err)
		require.True(t, appErr.IsCode(err, appErr.CodeForbidden))
	})

	t.Run("missing capability", func(t *testing.T) {
		users := &mockUserRepository{}
		users.On("GetFacultyProfile", mock.Anything, userID, mock.Anything).
			Return(nil, &models.FacultyProfile{UserID: userID, IsGuide: true})

		svc := NewRoleService(users)
		err := svc.RequireFaculty(ctx, userID, ActiveRoleCoordinator, ActiveRoleCoordinator)
		require.Error(t, err)
		require.True(t, appErr.IsCode(err, appErr.CodeForbidden))
	})

	t.Run("student is not faculty", func(t *testing.T) {
		users := &mockUserRepository{}
		users.On("GetFacultyProfile", mock.Anything, userID, mock.Anything).
			Return(appErr.New(appErr.CodeNotFound, "not found"), nil)

		svc := NewRoleService(users)
		err := svc.RequireFaculty(ctx, userID, "", ActiveRoleGuide)
		require.True(t, appErr.IsCode(err, appErr.CodeForbidden))
	})
}
