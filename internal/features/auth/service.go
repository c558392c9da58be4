package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/apperr"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/audit"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/user"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"
	"github.com/KaushikeeBhatt/file-tracking-system/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type RegisterInput struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput, ip string) (*models.User, string, error)
	Login(ctx context.Context, email, password, ip string) (*models.User, string, error)
	Me(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type AuthServiceImpl struct {
	UserRepo     user.UserRepository
	AuditService audit.AuditService
}

func NewAuthService(userRepo user.UserRepository, auditService audit.AuditService) AuthService {
	return &AuthServiceImpl{
		UserRepo:     userRepo,
		AuditService: auditService,
	}
}

// Register creates a regular account. Roles are only elevated through
// the admin user management endpoints.
func (s *AuthServiceImpl) Register(ctx context.Context, input RegisterInput, ip string) (*models.User, string, error) {
	if _, err := s.UserRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, "", fmt.Errorf("%w: email already registered", apperr.ErrInvalidFilter)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	usr := &models.User{
		ID:           primitive.NewObjectID(),
		Email:        input.Email,
		PasswordHash: string(hash),
		Name:         input.Name,
		Role:         models.RoleUser,
		Department:   input.Department,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.UserRepo.Create(ctx, usr); err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateToken(usr)
	if err != nil {
		return nil, "", err
	}

	s.AuditService.Record(ctx, usr.ID, models.AuditActionRegister, models.ResourceTypeUser, usr.ID,
		map[string]interface{}{"ipAddress": ip}, true, "")

	return usr, token, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password, ip string) (*models.User, string, error) {
	usr, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil || !usr.IsActive {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		// Failed attempts are part of the audit trail too
		s.AuditService.Record(ctx, usr.ID, models.AuditActionLogin, models.ResourceTypeUser, usr.ID,
			map[string]interface{}{"ipAddress": ip}, false, "invalid password")
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(usr)
	if err != nil {
		return nil, "", err
	}

	s.AuditService.Record(ctx, usr.ID, models.AuditActionLogin, models.ResourceTypeUser, usr.ID,
		map[string]interface{}{"ipAddress": ip}, true, "")

	return usr, token, nil
}

func (s *AuthServiceImpl) Me(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.UserRepo.FindByID(ctx, id)
}
