package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/projectflow/engine/internal/models"
	"github.com/projectflow/engine/internal/repository"
	appErr "github.com/projectflow/engine/pkg/errors"
)

// Role is the resolved role of an actor, recomputed on every call from
// profile presence and capability flags. Never persisted.
type Role string

const (
	RoleStudent             Role = "student"
	RoleGuide               Role = "guide"
	RoleCoordinator         Role = "coordinator"
	RoleGuideAndCoordinator Role = "guide_and_coordinator"
	RoleNone                Role = "none"
)

// ActiveRole disambiguates which dashboard context a dual-capability
// faculty member is acting in. Supplied per request by the caller.
type ActiveRole string

const (
	ActiveRoleGuide       ActiveRole = "guide"
	ActiveRoleCoordinator ActiveRole = "coordinator"
)

type RoleService interface {
	RoleOf(ctx context.Context, userID uuid.UUID) (Role, error)
	RequireStudent(ctx context.Context, userID uuid.UUID) error
	// RequireFaculty checks that the user holds the required capability and,
	// for dual-capability faculty, that the supplied active role matches it.
	RequireFaculty(ctx context.Context, userID uuid.UUID, active, required ActiveRole) error
}

type roleService struct {
	userRepo repository.UserRepository
}

func NewRoleService(userRepo repository.UserRepository) RoleService {
	return &roleService{userRepo: userRepo}
}

var _ RoleService = (*roleService)(nil)

func (s *roleService) RoleOf(ctx context.Context, userID uuid.UUID) (Role, error) {
	var student models.StudentProfile
	err := s.userRepo.GetStudentProfile(ctx, userID, &student)
	if err == nil {
		return RoleStudent, nil
	}
	if !appErr.IsCode(err, appErr.CodeNotFound) {
		return RoleNone, err
	}

	var faculty models.FacultyProfile
	err = s.userRepo.GetFacultyProfile(ctx, userID, &faculty)
	if err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return RoleNone, nil
		}
		return RoleNone, err
	}

	switch {
	case faculty.IsGuide && faculty.IsCoordinator:
		return RoleGuideAndCoordinator, nil
	case faculty.IsGuide:
		return RoleGuide, nil
	case faculty.IsCoordinator:
		return RoleCoordinator, nil
	default:
		return RoleNone, nil
	}
}

func (s *roleService) RequireStudent(ctx context.Context, userID uuid.UUID) error {
	var student models.StudentProfile
	if err := s.userRepo.GetStudentProfile(ctx, userID, &student); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return appErr.New(appErr.CodeForbidden, "only students can perform this action")
		}
		return err
	}
	return nil
}

func (s *roleService) RequireFaculty(ctx context.Context, userID uuid.UUID, active, required ActiveRole) error {
	var faculty models.FacultyProfile
	if err := s.userRepo.GetFacultyProfile(ctx, userID, &faculty); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return appErr.New(appErr.CodeForbidden, "only faculty can perform this action")
		}
		return err
	}

	hasRequired := (required == ActiveRoleGuide && faculty.IsGuide) ||
		(required == ActiveRoleCoordinator && faculty.IsCoordinator)
	if !hasRequired {
		return appErr.New(appErr.CodeForbidden, "faculty member lacks the "+string(required)+" capability")
	}

	// Dual-capability faculty must state which hat they are wearing.
	if faculty.IsGuide && faculty.IsCoordinator {
		if active == "" {
			return appErr.New(appErr.CodeRoleRequired, "select an active role").
				WithMeta("redirect", "/role-selection")
		}
		if active != required {
			return appErr.New(appErr.CodeForbidden, "active role does not permit this action").
				WithMeta("redirect", dashboardFor(active))
		}
	}
	return nil
}

func dashboardFor(active ActiveRole) string {
	if active == ActiveRoleCoordinator {
		return "/coordinator/dashboard"
	}
	return "/guide/dashboard"
}
