package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pathprep/pathprep-backend/internal/logger"
	"github.com/pathprep/pathprep-backend/internal/types"
)

type SkillResourceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, resource *types.SkillResource) (*types.SkillResource, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.SkillResource, error)
	GetByTriple(ctx context.Context, tx *gorm.DB, skillName, role, experienceLevel string) (*types.SkillResource, error)
	Save(ctx context.Context, tx *gorm.DB, resource *types.SkillResource) (*types.SkillResource, error)
	Delete(ctx context.Context, tx *gorm.DB, id string) error
}

type skillResourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkillResourceRepo(db *gorm.DB, baseLog *logger.Logger) SkillResourceRepo {
	return &skillResourceRepo{db: db, log: baseLog.With("repo", "SkillResourceRepo")}
}

func (r *skillResourceRepo) Create(ctx context.Context, tx *gorm.DB, resource *types.SkillResource) (*types.SkillResource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(resource).Error; err != nil {
		return nil, err
	}
	return resource, nil
}

func (r *skillResourceRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.SkillResource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var resource types.SkillResource
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&resource).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &resource, nil
}

// GetByTriple returns the most recent bundle for the (skill, role, level)
// key, mirroring the most-recent-of-many selection on roadmap lookups.
func (r *skillResourceRepo) GetByTriple(ctx context.Context, tx *gorm.DB, skillName, role, experienceLevel string) (*types.SkillResource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var resource types.SkillResource
	err := transaction.WithContext(ctx).
		Where("skill_name = ? AND role = ? AND experience_level = ?", skillName, role, experienceLevel).
		Order("created_at DESC").
		First(&resource).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &resource, nil
}

func (r *skillResourceRepo) Save(ctx context.Context, tx *gorm.DB, resource *types.SkillResource) (*types.SkillResource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Save(resource).Error; err != nil {
		return nil, err
	}
	return resource, nil
}

func (r *skillResourceRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.SkillResource{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
