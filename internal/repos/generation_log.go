package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/pathprep/pathprep-backend/internal/logger"
	"github.com/pathprep/pathprep-backend/internal/types"
)

// GenerationLogRepo is append-only; audit rows are never updated.
type GenerationLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.GenerationLog) (*types.GenerationLog, error)
	ListRecent(ctx context.Context, tx *gorm.DB, kind string, limit int) ([]types.GenerationLog, error)
}

type generationLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenerationLogRepo(db *gorm.DB, baseLog *logger.Logger) GenerationLogRepo {
	return &generationLogRepo{db: db, log: baseLog.With("repo", "GenerationLogRepo")}
}

func (r *generationLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.GenerationLog) (*types.GenerationLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *generationLogRepo) ListRecent(ctx context.Context, tx *gorm.DB, kind string, limit int) ([]types.GenerationLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := transaction.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	var entries []types.GenerationLog
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
