package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pathprep/pathprep-backend/internal/logger"
	"github.com/pathprep/pathprep-backend/internal/types"
)

type RoleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, role *types.Role) (*types.Role, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Role, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Role, error)
	List(ctx context.Context, tx *gorm.DB) ([]types.Role, error)
	Save(ctx context.Context, tx *gorm.DB, role *types.Role) (*types.Role, error)
	Delete(ctx context.Context, tx *gorm.DB, id string) error
}

type roleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoleRepo(db *gorm.DB, baseLog *logger.Logger) RoleRepo {
	return &roleRepo{db: db, log: baseLog.With("repo", "RoleRepo")}
}

func (r *roleRepo) Create(ctx context.Context, tx *gorm.DB, role *types.Role) (*types.Role, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(role).Error; err != nil {
		return nil, err
	}
	return role, nil
}

func (r *roleRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Role, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var role types.Role
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Role, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var role types.Role
	err := transaction.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) List(ctx context.Context, tx *gorm.DB) ([]types.Role, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var roles []types.Role
	if err := transaction.WithContext(ctx).Order("name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepo) Save(ctx context.Context, tx *gorm.DB, role *types.Role) (*types.Role, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Save(role).Error; err != nil {
		return nil, err
	}
	return role, nil
}

func (r *roleRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.Role{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
