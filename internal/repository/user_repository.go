package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/projectflow/engine/internal/models"
	appErr "github.com/projectflow/engine/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository interface {
	BaseRepository[models.User]
	GetByEmail(ctx context.Context, email string, dest *models.User) error
	GetStudentProfile(ctx context.Context, userID uuid.UUID, dest *models.StudentProfile) error
	GetFacultyProfile(ctx context.Context, userID uuid.UUID, dest *models.FacultyProfile) error
	SearchStudents(ctx context.Context, excludeUserID uuid.UUID, query string) ([]models.User, error)
	ListGuides(ctx context.Context) ([]models.User, error)
	ListCoordinators(ctx context.Context) ([]models.User, error)
}

type userRepository struct {
	BaseRepository[models.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository[models.User](db), db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "user not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get user by email failed")
	}
	return nil
}

func (r *userRepository) GetStudentProfile(ctx context.Context, userID uuid.UUID, dest *models.StudentProfile) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "student profile not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get student profile failed")
	}
	return nil
}

func (r *userRepository) GetFacultyProfile(ctx context.Context, userID uuid.UUID, dest *models.FacultyProfile) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "faculty profile not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get faculty profile failed")
	}
	return nil
}

// SearchStudents lists students available for invitation, excluding the
// caller, optionally filtered by name or email substring.
func (r *userRepository) SearchStudents(ctx context.Context, excludeUserID uuid.UUID, query string) ([]models.User, error) {
	var out []models.User
	q := r.db.WithContext(ctx).
		Joins("JOIN student_profiles ON student_profiles.user_id = users.id AND student_profiles.deleted_at IS NULL").
		Where("users.id <> ?", excludeUserID)
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("users.name ILIKE ? OR users.email ILIKE ?", like, like)
	}
	if err := q.Order("users.name").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "search students failed")
	}
	return out, nil
}

func (r *userRepository) ListGuides(ctx context.Context) ([]models.User, error) {
	return r.listFaculty(ctx, "faculty_profiles.is_guide = true")
}

func (r *userRepository) ListCoordinators(ctx context.Context) ([]models.User, error) {
	return r.listFaculty(ctx, "faculty_profiles.is_coordinator = true")
}

func (r *userRepository) listFaculty(ctx context.Context, cond string) ([]models.User, error) {
	var out []models.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN faculty_profiles ON faculty_profiles.user_id = users.id AND faculty_profiles.deleted_at IS NULL").
		Where(cond).
		Order("users.name").
		Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list faculty failed")
	}
	return out, nil
}
