package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pathprep/pathprep-backend/internal/logger"
	"github.com/pathprep/pathprep-backend/internal/types"
)

type RoadmapRepo interface {
	Create(ctx context.Context, tx *gorm.DB, roadmap *types.Roadmap) (*types.Roadmap, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Roadmap, error)
	GetByCompositeKey(ctx context.Context, tx *gorm.DB, compositeKey string) (*types.Roadmap, error)
	Save(ctx context.Context, tx *gorm.DB, roadmap *types.Roadmap) (*types.Roadmap, error)
	Delete(ctx context.Context, tx *gorm.DB, id string) error
}

type roadmapRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoadmapRepo(db *gorm.DB, baseLog *logger.Logger) RoadmapRepo {
	return &roadmapRepo{db: db, log: baseLog.With("repo", "RoadmapRepo")}
}

func (r *roadmapRepo) Create(ctx context.Context, tx *gorm.DB, roadmap *types.Roadmap) (*types.Roadmap, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(roadmap).Error; err != nil {
		return nil, err
	}
	return roadmap, nil
}

func (r *roadmapRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Roadmap, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var roadmap types.Roadmap
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&roadmap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &roadmap, nil
}

// GetByCompositeKey returns the most recently created roadmap for the key.
// The column has a unique index, but a write race can leave more than one
// row behind; picking the newest is a selection, not an error.
func (r *roadmapRepo) GetByCompositeKey(ctx context.Context, tx *gorm.DB, compositeKey string) (*types.Roadmap, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var roadmap types.Roadmap
	err := transaction.WithContext(ctx).
		Where("composite_key = ?", compositeKey).
		Order("created_at DESC").
		First(&roadmap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &roadmap, nil
}

func (r *roadmapRepo) Save(ctx context.Context, tx *gorm.DB, roadmap *types.Roadmap) (*types.Roadmap, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Save(roadmap).Error; err != nil {
		return nil, err
	}
	return roadmap, nil
}

func (r *roadmapRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.Roadmap{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
