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

type SkillService interface {
	CreateSkill(ctx context.Context, tx *gorm.DB, skill *types.Skill) (*types.Skill, error)
	GetSkill(ctx context.Context, tx *gorm.DB, id string) (*types.Skill, error)
	ListSkills(ctx context.Context, tx *gorm.DB, category string) ([]types.Skill, error)
	DeleteSkill(ctx context.Context, tx *gorm.DB, id string) error
}

type skillService struct {
	db        *gorm.DB
	log       *logger.Logger
	skillRepo repos.SkillRepo
}

func NewSkillService(db *gorm.DB, baseLog *logger.Logger, skillRepo repos.SkillRepo) SkillService {
	return &skillService{
		db:        db,
		log:       baseLog.With("service", "SkillService"),
		skillRepo: skillRepo,
	}
}

func (s *skillService) CreateSkill(ctx context.Context, tx *gorm.DB, skill *types.Skill) (*types.Skill, error) {
	skill.Name = strings.TrimSpace(skill.Name)
	if skill.Name == "" {
		return nil, fmt.Errorf("skill name required")
	}

	if existing, err := s.skillRepo.GetByName(ctx, tx, skill.Name); err == nil {
		return existing, nil
	} else if !errors.Is(err, repos.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	skill.ID = uuid.NewString()
	skill.CreatedAt = now
	skill.UpdatedAt = now
	return s.skillRepo.Create(ctx, tx, skill)
}

func (s *skillService) GetSkill(ctx context.Context, tx *gorm.DB, id string) (*types.Skill, error) {
	return s.skillRepo.GetByID(ctx, tx, id)
}

func (s *skillService) ListSkills(ctx context.Context, tx *gorm.DB, category string) ([]types.Skill, error) {
	if strings.TrimSpace(category) != "" {
		return s.skillRepo.ListByCategory(ctx, tx, category)
	}
	return s.skillRepo.List(ctx, tx)
}

func (s *skillService) DeleteSkill(ctx context.Context, tx *gorm.DB, id string) error {
	return s.skillRepo.Delete(ctx, tx, id)
}
