package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pathprep/pathprep-backend/internal/logger"
	"github.com/pathprep/pathprep-backend/internal/repos"
	"github.com/pathprep/pathprep-backend/internal/types"
)

type RoleService interface {
	CreateRole(ctx context.Context, tx *gorm.DB, name, category, description string) (*types.Role, error)
	GetRole(ctx context.Context, tx *gorm.DB, id string) (*types.Role, error)
	ListRoles(ctx context.Context, tx *gorm.DB) ([]types.Role, error)
	DeleteRole(ctx context.Context, tx *gorm.DB, id string) error
}

type roleService struct {
	db       *gorm.DB
	log      *logger.Logger
	roleRepo repos.RoleRepo
}

func NewRoleService(db *gorm.DB, baseLog *logger.Logger, roleRepo repos.RoleRepo) RoleService {
	return &roleService{
		db:       db,
		log:      baseLog.With("service", "RoleService"),
		roleRepo: roleRepo,
	}
}

func (s *roleService) CreateRole(ctx context.Context, tx *gorm.DB, name, category, description string) (*types.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("role name required")
	}

	if existing, err := s.roleRepo.GetByName(ctx, tx, name); err == nil {
		return existing, nil
	} else if !errors.Is(err, repos.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	role := &types.Role{
		ID:          uuid.NewString(),
		Name:        name,
		Category:    strings.TrimSpace(category),
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.roleRepo.Create(ctx, tx, role)
}

func (s *roleService) GetRole(ctx context.Context, tx *gorm.DB, id string) (*types.Role, error) {
	return s.roleRepo.GetByID(ctx, tx, id)
}

func (s *roleService) ListRoles(ctx context.Context, tx *gorm.DB) ([]types.Role, error) {
	return s.roleRepo.List(ctx, tx)
}

func (s *roleService) DeleteRole(ctx context.Context, tx *gorm.DB, id string) error {
	return s.roleRepo.Delete(ctx, tx, id)
}
