package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/pathprep/pathprep-backend/internal/logger"
	"github.com/pathprep/pathprep-backend/internal/types"
)

type InterviewQuestionRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, questions []*types.InterviewQuestion) ([]*types.InterviewQuestion, error)
	GetByRoleAndExperience(ctx context.Context, tx *gorm.DB, role, experience string) ([]*types.InterviewQuestion, error)
	GetByRoleExperienceAndSkill(ctx context.Context, tx *gorm.DB, role, experience, skill string) ([]*types.InterviewQuestion, error)
	Delete(ctx context.Context, tx *gorm.DB, id string) error
}

type interviewQuestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInterviewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) InterviewQuestionRepo {
	return &interviewQuestionRepo{db: db, log: baseLog.With("repo", "InterviewQuestionRepo")}
}

func (r *interviewQuestionRepo) CreateBatch(ctx context.Context, tx *gorm.DB, questions []*types.InterviewQuestion) ([]*types.InterviewQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(questions) == 0 {
		return []*types.InterviewQuestion{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *interviewQuestionRepo) GetByRoleAndExperience(ctx context.Context, tx *gorm.DB, role, experience string) ([]*types.InterviewQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.InterviewQuestion
	if err := transaction.WithContext(ctx).
		Where("role = ? AND experience = ?", role, experience).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *interviewQuestionRepo) GetByRoleExperienceAndSkill(ctx context.Context, tx *gorm.DB, role, experience, skill string) ([]*types.InterviewQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.InterviewQuestion
	if err := transaction.WithContext(ctx).
		Where("role = ? AND experience = ? AND skill = ?", role, experience, skill).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *interviewQuestionRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.InterviewQuestion{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
