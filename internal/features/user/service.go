package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/apperr"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/audit"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserInput struct {
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Password   string      `json:"password"`
	Role       models.Role `json:"role"`
	Department string      `json:"department"`
}

type UpdateUserInput struct {
	Name       *string      `json:"name"`
	Email      *string      `json:"email"`
	Role       *models.Role `json:"role"`
	Department *string      `json:"department"`
	IsActive   *bool        `json:"is_active"`
}

type UserService interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	List(ctx context.Context, limit, offset int64) ([]ManagedUser, int64, error)
	Create(ctx context.Context, actor primitive.ObjectID, input CreateUserInput) (*models.User, error)
	Update(ctx context.Context, actor, id primitive.ObjectID, input UpdateUserInput) error
	Deactivate(ctx context.Context, actor, id primitive.ObjectID) error
}

type UserServiceImpl struct {
	Repo         UserRepository
	AuditService audit.AuditService
}

func NewUserService(repo UserRepository, auditService audit.AuditService) UserService {
	return &UserServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

func (s *UserServiceImpl) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	usr, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	return usr, err
}

func (s *UserServiceImpl) List(ctx context.Context, limit, offset int64) ([]ManagedUser, int64, error) {
	if limit == 0 {
		limit = 50
	}
	if limit < 0 {
		return nil, 0, fmt.Errorf("%w: %d", apperr.ErrInvalidPageSize, limit)
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.ListWithUsage(ctx, limit, offset)
}

func (s *UserServiceImpl) Create(ctx context.Context, actor primitive.ObjectID, input CreateUserInput) (*models.User, error) {
	if _, err := s.Repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", apperr.ErrInvalidFilter)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}

	now := time.Now()
	usr := &models.User{
		ID:           primitive.NewObjectID(),
		Email:        input.Email,
		PasswordHash: string(hash),
		Name:         input.Name,
		Role:         role,
		Department:   input.Department,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Repo.Create(ctx, usr); err != nil {
		return nil, err
	}

	s.AuditService.Record(ctx, actor, models.AuditActionRegister, models.ResourceTypeUser, usr.ID,
		map[string]interface{}{"email": usr.Email, "role": string(usr.Role)}, true, "")

	return usr, nil
}

func (s *UserServiceImpl) Update(ctx context.Context, actor, id primitive.ObjectID, input UpdateUserInput) error {
	set := bson.M{}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.Email != nil {
		set["email"] = *input.Email
	}
	if input.Role != nil {
		set["role"] = *input.Role
	}
	if input.Department != nil {
		set["department"] = *input.Department
	}
	if input.IsActive != nil {
		set["is_active"] = *input.IsActive
	}
	if len(set) == 0 {
		return nil
	}

	err := s.Repo.Update(ctx, id, set)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.ErrNotFound
	}
	if err != nil {
		return err
	}

	s.AuditService.Record(ctx, actor, models.AuditActionEdit, models.ResourceTypeUser, id,
		map[string]interface{}{"fields": fieldNames(set)}, true, "")
	return nil
}

// Deactivate soft-deletes: the account is flagged inactive, never
// physically removed.
func (s *UserServiceImpl) Deactivate(ctx context.Context, actor, id primitive.ObjectID) error {
	err := s.Repo.Update(ctx, id, bson.M{"is_active": false})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.ErrNotFound
	}
	if err != nil {
		return err
	}

	s.AuditService.Record(ctx, actor, models.AuditActionDelete, models.ResourceTypeUser, id, nil, true, "")
	return nil
}

func fieldNames(set bson.M) []string {
	names := make([]string, 0, len(set))
	for k := range set {
		if k == "updated_at" {
			continue
		}
		names = append(names, k)
	}
	return names
}
