package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pathprep/pathprep-backend/internal/logger"
	"github.com/pathprep/pathprep-backend/internal/types"
)

type SkillRepo interface {
	Create(ctx context.Context, tx *gorm.DB, skill *types.Skill) (*types.Skill, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Skill, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Skill, error)
	List(ctx context.Context, tx *gorm.DB) ([]types.Skill, error)
	ListByCategory(ctx context.Context, tx *gorm.DB, category string) ([]types.Skill, error)
	Save(ctx context.Context, tx *gorm.DB, skill *types.Skill) (*types.Skill, error)
	Delete(ctx context.Context, tx *gorm.DB, id string) error
}

type skillRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkillRepo(db *gorm.DB, baseLog *logger.Logger) SkillRepo {
	return &skillRepo{db: db, log: baseLog.With("repo", "SkillRepo")}
}

func (r *skillRepo) Create(ctx context.Context, tx *gorm.DB, skill *types.Skill) (*types.Skill, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(skill).Error; err != nil {
		return nil, err
	}
	return skill, nil
}

func (r *skillRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Skill, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var skill types.Skill
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&skill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &skill, nil
}

func (r *skillRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Skill, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var skill types.Skill
	err := transaction.WithContext(ctx).Where("name = ?", name).First(&skill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &skill, nil
}

func (r *skillRepo) List(ctx context.Context, tx *gorm.DB) ([]types.Skill, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var skills []types.Skill
	if err := transaction.WithContext(ctx).Order("name ASC").Find(&skills).Error; err != nil {
		return nil, err
	}
	return skills, nil
}

func (r *skillRepo) ListByCategory(ctx context.Context, tx *gorm.DB, category string) ([]types.Skill, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var skills []types.Skill
	err := transaction.WithContext(ctx).
		Where("category = ?", category).
		Order("name ASC").
		Find(&skills).Error
	if err != nil {
		return nil, err
	}
	return skills, nil
}

func (r *skillRepo) Save(ctx context.Context, tx *gorm.DB, skill *types.Skill) (*types.Skill, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Save(skill).Error; err != nil {
		return nil, err
	}
	return skill, nil
}

func (r *skillRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.Skill{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
