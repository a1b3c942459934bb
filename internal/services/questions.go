package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pathprep/pathprep-backend/internal/clients/groq"
	"github.com/pathprep/pathprep-backend/internal/logger"
	"github.com/pathprep/pathprep-backend/internal/modules/generation"
	"github.com/pathprep/pathprep-backend/internal/repos"
	"github.com/pathprep/pathprep-backend/internal/types"
)

// Per-call cap when asking the model for skill questions; larger requests
// are served across multiple stored batches.
const maxSkillQuestionsPerCall = 20

type QuestionService interface {
	// GenerateQuestions serves role-level questions from stored rows when
	// enough exist, otherwise generates and persists new ones. Always
	// returns a question set; degraded results carry the fallback flag.
	GenerateQuestions(ctx context.Context, tx *gorm.DB, req QuestionRequest) (*types.QuestionSet, error)
	// GenerateSkillQuestions is the same flow scoped to one skill.
	GenerateSkillQuestions(ctx context.Context, tx *gorm.DB, req SkillQuestionRequest) (*types.QuestionSet, error)
	DeleteQuestion(ctx context.Context, tx *gorm.DB, id string) error
}

type questionService struct {
	db           *gorm.DB
	log          *logger.Logger
	questionRepo repos.InterviewQuestionRepo
	genLogRepo   repos.GenerationLogRepo
	model        groq.Client
	mapper       *generation.Mapper
	prompts      *generation.PromptBuilder
	now          func() time.Time
}

func NewQuestionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	questionRepo repos.InterviewQuestionRepo,
	genLogRepo repos.GenerationLogRepo,
	model groq.Client,
	mapper *generation.Mapper,
) QuestionService {
	return &questionService{
		db:           db,
		log:          baseLog.With("service", "QuestionService"),
		questionRepo: questionRepo,
		genLogRepo:   genLogRepo,
		model:        model,
		mapper:       mapper,
		prompts:      generation.NewPromptBuilder(),
		now:          time.Now,
	}
}

func (s *questionService) GenerateQuestions(ctx context.Context, tx *gorm.DB, req QuestionRequest) (*types.QuestionSet, error) {
	count := ClampCount(req.Count)
	if count != req.Count {
		s.log.Info("Adjusted question count", "requested", req.Count, "adjusted", count)
	}

	if !req.ForceRefresh {
		rows, err := s.questionRepo.GetByRoleAndExperience(ctx, tx, req.Role, req.ExperienceLevel)
		if err != nil {
			s.log.Error("Question lookup failed", "role", req.Role, "error", err.Error())
		} else if len(rows) >= count {
			s.log.Debug("Serving stored questions", "role", req.Role, "count", count)
			return s.assembleSet(req.Role, req.ExperienceLevel, sampleQuestions(rows, count)), nil
		}
	}

	prompt := s.prompts.RoleQuestions(req.Role, req.ExperienceLevel, req.Topics, count)
	set, err := s.generateAndStore(ctx, tx, prompt, req.Role, req.ExperienceLevel, "", count)
	if err != nil {
		// Whatever rows exist beat an empty fallback.
		rows, dbErr := s.questionRepo.GetByRoleAndExperience(ctx, tx, req.Role, req.ExperienceLevel)
		if dbErr == nil && len(rows) > 0 {
			s.log.Warn("Generation failed; serving stored questions",
				"role", req.Role, "stored", len(rows), "error", err.Error())
			return s.assembleSet(req.Role, req.ExperienceLevel, sampleQuestions(rows, count)), nil
		}
		s.log.Error("Question generation failed with nothing stored; returning fallback",
			"role", req.Role, "error", err.Error())
		return generation.FallbackQuestionSet(req.Role, req.ExperienceLevel), nil
	}
	return set, nil
}

func (s *questionService) GenerateSkillQuestions(ctx context.Context, tx *gorm.DB, req SkillQuestionRequest) (*types.QuestionSet, error) {
	count := ClampCount(req.Count)

	if !req.ForceRefresh {
		rows, err := s.questionRepo.GetByRoleExperienceAndSkill(ctx, tx, req.Role, req.ExperienceLevel, req.Skill)
		if err != nil {
			s.log.Error("Skill question lookup failed", "skill", req.Skill, "error", err.Error())
		} else if len(rows) >= count {
			return s.assembleSet(req.Role, req.ExperienceLevel, sampleQuestions(rows, count)), nil
		}
	}

	callCount := count
	if callCount > maxSkillQuestionsPerCall {
		callCount = maxSkillQuestionsPerCall
	}
	prompt := s.prompts.SkillQuestions(req.Skill, req.Role, req.ExperienceLevel, callCount)
	set, err := s.generateAndStore(ctx, tx, prompt, req.Role, req.ExperienceLevel, req.Skill, callCount)
	if err != nil {
		rows, dbErr := s.questionRepo.GetByRoleExperienceAndSkill(ctx, tx, req.Role, req.ExperienceLevel, req.Skill)
		if dbErr == nil && len(rows) > 0 {
			s.log.Warn("Skill question generation failed; serving stored questions",
				"skill", req.Skill, "stored", len(rows), "error", err.Error())
			return s.assembleSet(req.Role, req.ExperienceLevel, sampleQuestions(rows, count)), nil
		}
		s.log.Error("Skill question generation failed with nothing stored; returning fallback",
			"skill", req.Skill, "error", err.Error())
		return generation.FallbackQuestionSet(req.Role, req.ExperienceLevel), nil
	}
	return set, nil
}

func (s *questionService) DeleteQuestion(ctx context.Context, tx *gorm.DB, id string) error {
	return s.questionRepo.Delete(ctx, tx, id)
}

// generateAndStore runs the model, maps the completion, persists the valid
// items and returns the resulting set. skill is empty for role-level
// questions.
func (s *questionService) generateAndStore(ctx context.Context, tx *gorm.DB, prompt, role, experienceLevel, skill string, count int) (*types.QuestionSet, error) {
	started := s.now()
	text, err := s.model.Generate(ctx, prompt, "")
	s.recordGeneration(ctx, prompt, text, started, err)
	if err != nil {
		return nil, fmt.Errorf("question generation: %w", err)
	}

	set := s.mapper.MapQuestionSet(generation.Normalize(text), prompt)
	if len(set.Questions) == 0 {
		return nil, fmt.Errorf("question generation: no valid questions in completion")
	}
	if len(set.Questions) != count {
		s.log.Warn("Model returned a different question count than requested",
			"requested", count, "returned", len(set.Questions))
	}
	set.Role = role
	set.ExperienceLevel = experienceLevel

	now := s.now().UTC()
	rows := make([]*types.InterviewQuestion, 0, len(set.Questions))
	for _, q := range set.Questions {
		tags := []string{q.Category}
		if skill != "" {
			tags = []string{skill, strings.ToLower(role)}
		}
		rows = append(rows, &types.InterviewQuestion{
			ID:         uuid.NewString(),
			Role:       role,
			Experience: experienceLevel,
			Skill:      skill,
			Question:   q.Question,
			Answer:     q.Answer,
			Category:   q.Category,
			Difficulty: q.Difficulty,
			Tags:       tags,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	if _, err := s.questionRepo.CreateBatch(ctx, tx, rows); err != nil {
		// Serve the generated set anyway; only reuse is lost.
		s.log.Error("Failed to persist generated questions", "role", role, "error", err.Error())
	}
	return set, nil
}

func (s *questionService) assembleSet(role, experienceLevel string, rows []*types.InterviewQuestion) *types.QuestionSet {
	set := &types.QuestionSet{
		Role:            role,
		ExperienceLevel: experienceLevel,
		Questions:       make([]types.QuestionItem, 0, len(rows)),
	}
	for _, row := range rows {
		set.Questions = append(set.Questions, types.QuestionItem{
			Question:   row.Question,
			Answer:     row.Answer,
			Category:   row.Category,
			Difficulty: row.Difficulty,
		})
	}
	return set
}

func (s *questionService) recordGeneration(ctx context.Context, prompt, response string, started time.Time, genErr error) {
	if s.genLogRepo == nil {
		return
	}
	entry := &types.GenerationLog{
		ID:         uuid.NewString(),
		Kind:       "questions",
		Model:      s.model.Model(),
		Prompt:     prompt,
		Response:   response,
		Success:    genErr == nil,
		DurationMS: s.now().Sub(started).Milliseconds(),
		CreatedAt:  s.now().UTC(),
	}
	if genErr != nil {
		entry.Error = genErr.Error()
	}
	if _, err := s.genLogRepo.Create(ctx, nil, entry); err != nil {
		s.log.Warn("Failed to record generation audit entry", "kind", "questions", "error", err.Error())
	}
}

// sampleQuestions returns a random sample of n rows when more are available.
func sampleQuestions(rows []*types.InterviewQuestion, n int) []*types.InterviewQuestion {
	if len(rows) <= n {
		return rows
	}
	shuffled := make([]*types.InterviewQuestion, len(rows))
	copy(shuffled, rows)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}
