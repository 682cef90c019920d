package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/projectflow/engine/internal/models"
	"github.com/projectflow/engine/internal/repository"
	appErr "github.com/projectflow/engine/pkg/errors"
	"github.com/projectflow/engine/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput creates a user plus exactly one profile. Kind selects
// which one.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Kind     string `json:"kind" validate:"required,oneof=student faculty"`

	// Student fields.
	ClassName      string `json:"class_name"`
	RollNumber     string `json:"roll_number"`
	RegisterNumber string `json:"register_number"`

	// Shared and faculty fields.
	Department    string `json:"department"`
	IsGuide       bool   `json:"is_guide"`
	IsCoordinator bool   `json:"is_coordinator"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}

type authService struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	hmacSecret []byte
}

func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, secret []byte) AuthService {
	return &authService{db: db, userRepo: userRepo, hmacSecret: secret}
}

var _ AuthService = (*authService)(nil)

// Register creates the user and its profile atomically, so a user never
// exists without a role.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	var existing models.User
	err := s.userRepo.GetByEmail(ctx, in.Email, &existing)
	if err == nil {
		return nil, appErr.New(appErr.CodeConflict, "email is already registered")
	}
	if !appErr.IsCode(err, appErr.CodeNotFound) {
		return nil, err
	}

	ph, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
	}

	user := &models.User{
		Email:        in.Email,
		PasswordHash: string(ph),
		Name:         strings.TrimSpace(in.Name),
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, appErr.Wrap(tx.Error, appErr.CodeInternal, "begin transaction failed")
	}
	if err := tx.Create(user).Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "create user failed")
	}

	switch in.Kind {
	case "student":
		profile := &models.StudentProfile{
			UserID:         user.ID,
			ClassName:      strings.TrimSpace(in.ClassName),
			RollNumber:     strings.TrimSpace(in.RollNumber),
			RegisterNumber: strings.TrimSpace(in.RegisterNumber),
			Department:     strings.TrimSpace(in.Department),
		}
		if err := tx.Create(profile).Error; err != nil {
			tx.Rollback()
			return nil, appErr.Wrap(err, appErr.CodeInternal, "create student profile failed")
		}
	case "faculty":
		profile := &models.FacultyProfile{
			UserID:        user.ID,
			Department:    strings.TrimSpace(in.Department),
			IsGuide:       in.IsGuide,
			IsCoordinator: in.IsCoordinator,
		}
		if err := tx.Create(profile).Error; err != nil {
			tx.Rollback()
			return nil, appErr.Wrap(err, appErr.CodeInternal, "create faculty profile failed")
		}
	default:
		tx.Rollback()
		return nil, appErr.New(appErr.CodeInvalid, "kind must be student or faculty")
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, appErr.Wrap(err, appErr.CodeInternal, "commit transaction failed")
	}

	logger.L().Info("user registered", zap.String("user_id", user.ID.String()), zap.String("kind", in.Kind))
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.userRepo.GetByEmail(ctx, email, &user); err != nil {
		return "", nil, appErr.New(appErr.CodeUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, appErr.New(appErr.CodeUnauthorized, "invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID.String(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	})
	tokenString, err := token.SignedString(s.hmacSecret)
	if err != nil {
		return "", nil, appErr.Wrap(err, appErr.CodeInternal, "sign token failed")
	}
	return tokenString, &user, nil
}
