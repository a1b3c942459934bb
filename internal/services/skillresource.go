package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pathprep/pathprep-backend/internal/clients/groq"
	"github.com/pathprep/pathprep-backend/internal/clients/redis"
	"github.com/pathprep/pathprep-backend/internal/logger"
	"github.com/pathprep/pathprep-backend/internal/modules/generation"
	"github.com/pathprep/pathprep-backend/internal/repos"
	"github.com/pathprep/pathprep-backend/internal/types"
)

type SkillResourceService interface {
	// GetOrGenerateSkillResources runs lookup/generate/merge/persist for one
	// (skill, role, experience level) triple. Always returns a bundle.
	GetOrGenerateSkillResources(ctx context.Context, tx *gorm.DB, req SkillResourceRequest) (*types.SkillResource, error)
	// GetSkillResourcesByID is a direct identity lookup; missing ids are a
	// hard error.
	GetSkillResourcesByID(ctx context.Context, tx *gorm.DB, id string) (*types.SkillResource, error)
	// RefreshSkillResources regenerates the bundle behind an existing id,
	// keeping its identity. Missing ids are a hard error.
	RefreshSkillResources(ctx context.Context, tx *gorm.DB, id string) (*types.SkillResource, error)
	DeleteSkillResources(ctx context.Context, tx *gorm.DB, id string) error
}

type skillResourceService struct {
	db           *gorm.DB
	log          *logger.Logger
	resourceRepo repos.SkillResourceRepo
	genLogRepo   repos.GenerationLogRepo
	model        groq.Client
	mapper       *generation.Mapper
	prompts      *generation.PromptBuilder
	cache        redis.Cache
	staleness    time.Duration
	now          func() time.Time
}

func NewSkillResourceService(
	db *gorm.DB,
	baseLog *logger.Logger,
	resourceRepo repos.SkillResourceRepo,
	genLogRepo repos.GenerationLogRepo,
	model groq.Client,
	mapper *generation.Mapper,
	cache redis.Cache,
	staleness time.Duration,
) SkillResourceService {
	if staleness <= 0 {
		staleness = DefaultStalenessWindow
	}
	return &skillResourceService{
		db:           db,
		log:          baseLog.With("service", "SkillResourceService"),
		resourceRepo: resourceRepo,
		genLogRepo:   genLogRepo,
		model:        model,
		mapper:       mapper,
		prompts:      generation.NewPromptBuilder(),
		cache:        cache,
		staleness:    staleness,
		now:          time.Now,
	}
}

func cacheKeyForTriple(skillName, role, experienceLevel string) string {
	return "skillres:" + normalizeKeyPart(skillName) + "_" + normalizeKeyPart(role) + "_" + normalizeKeyPart(experienceLevel)
}

func (s *skillResourceService) GetOrGenerateSkillResources(ctx context.Context, tx *gorm.DB, req SkillResourceRequest) (*types.SkillResource, error) {
	key := cacheKeyForTriple(req.SkillName, req.Role, req.ExperienceLevel)
	s.log.Info("Processing skill resources request", "cache_key", key, "force_refresh", req.ForceRefresh)

	if !req.ForceRefresh && s.cache != nil {
		var cached types.SkillResource
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	stored, err := s.resourceRepo.GetByTriple(ctx, tx, req.SkillName, req.Role, req.ExperienceLevel)
	if err != nil && !errors.Is(err, repos.ErrNotFound) {
		s.log.Error("Skill resource lookup failed", "cache_key", key, "error", err.Error())
		stored = nil
	}

	if stored != nil && !req.ForceRefresh && !s.isStale(stored.UpdatedAt) {
		s.cacheBundle(ctx, key, stored)
		return stored, nil
	}

	generated, genErr := s.generateWithModel(ctx, req)
	if genErr != nil {
		if stored != nil {
			s.log.Warn("Generation failed; serving stale stored resources",
				"cache_key", key, "error", genErr.Error())
			return stored, nil
		}
		s.log.Error("Generation failed with no stored resources; returning fallback",
			"cache_key", key, "error", genErr.Error())
		return generation.FallbackSkillResource(req.SkillName, req.Role, req.ExperienceLevel), nil
	}

	var result *types.SkillResource
	if stored != nil {
		result = s.mergeBundles(stored, generated)
	} else {
		result = generated
	}

	if err := s.persistBundle(ctx, tx, stored, result); err != nil {
		s.log.Error("Failed to persist skill resources", "cache_key", key, "error", err.Error())
	}
	s.cacheBundle(ctx, key, result)
	return result, nil
}

func (s *skillResourceService) GetSkillResourcesByID(ctx context.Context, tx *gorm.DB, id string) (*types.SkillResource, error) {
	return s.resourceRepo.GetByID(ctx, tx, id)
}

func (s *skillResourceService) RefreshSkillResources(ctx context.Context, tx *gorm.DB, id string) (*types.SkillResource, error) {
	existing, err := s.resourceRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	req := SkillResourceRequest{
		SkillName:             existing.SkillName,
		Role:                  existing.Role,
		ExperienceLevel:       existing.ExperienceLevel,
		IncludeLearningPaths:  true,
		IncludeProjects:       true,
		IncludeCertifications: true,
		IncludeCommunities:    true,
	}
	updated, err := s.generateWithModel(ctx, req)
	if err != nil {
		return nil, err
	}

	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	saved, err := s.resourceRepo.Save(ctx, tx, updated)
	if err != nil {
		return nil, fmt.Errorf("save refreshed resources: %w", err)
	}
	s.cacheBundle(ctx, cacheKeyForTriple(saved.SkillName, saved.Role, saved.ExperienceLevel), saved)
	return saved, nil
}

func (s *skillResourceService) DeleteSkillResources(ctx context.Context, tx *gorm.DB, id string) error {
	existing, err := s.resourceRepo.GetByID(ctx, tx, id)
	if err != nil {
		return err
	}
	if err := s.resourceRepo.Delete(ctx, tx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, cacheKeyForTriple(existing.SkillName, existing.Role, existing.ExperienceLevel))
	}
	return nil
}

func (s *skillResourceService) generateWithModel(ctx context.Context, req SkillResourceRequest) (*types.SkillResource, error) {
	prompt := s.prompts.SkillResources(req.SkillName, req.Role, req.ExperienceLevel,
		req.IncludeLearningPaths, req.IncludeProjects, req.IncludeCertifications, req.IncludeCommunities)

	started := s.now()
	text, err := s.model.Generate(ctx, prompt, "")
	s.recordGeneration(ctx, prompt, text, started, err)
	if err != nil {
		return nil, fmt.Errorf("skill resource generation: %w", err)
	}

	resource := s.mapper.MapSkillResource(generation.Normalize(text), prompt)
	if len(resource.LearningPaths)+len(resource.Projects)+len(resource.Certifications)+len(resource.Communities) == 0 {
		return nil, fmt.Errorf("skill resource generation: completion contained no usable resources")
	}

	now := s.now().UTC()
	resource.ID = uuid.NewString()
	resource.SkillName = req.SkillName
	resource.Role = req.Role
	resource.ExperienceLevel = req.ExperienceLevel
	resource.Fallback = false
	resource.CreatedAt = now
	resource.UpdatedAt = now
	return resource, nil
}

// mergeBundles combines stored and freshly generated bundles category by
// category, deduplicating by resource URL with stored items winning ties.
func (s *skillResourceService) mergeBundles(stored, fresh *types.SkillResource) *types.SkillResource {
	merged := &types.SkillResource{
		ID:              stored.ID,
		SkillName:       stored.SkillName,
		Role:            stored.Role,
		ExperienceLevel: stored.ExperienceLevel,
		CreatedAt:       stored.CreatedAt,
		UpdatedAt:       s.now().UTC(),
	}
	merged.LearningPaths = mergeResourceLists(stored.LearningPaths, fresh.LearningPaths)
	merged.Projects = mergeResourceLists(stored.Projects, fresh.Projects)
	merged.Certifications = mergeResourceLists(stored.Certifications, fresh.Certifications)
	merged.Communities = mergeResourceLists(stored.Communities, fresh.Communities)
	return merged
}

func mergeResourceLists(stored, fresh []types.ResourceItem) []types.ResourceItem {
	if len(stored) == 0 {
		return fresh
	}
	if len(fresh) == 0 {
		return stored
	}
	seen := make(map[string]struct{}, len(stored))
	merged := make([]types.ResourceItem, 0, len(stored)+len(fresh))
	for _, item := range stored {
		if item.URL != "" {
			seen[item.URL] = struct{}{}
		}
		merged = append(merged, item)
	}
	for _, item := range fresh {
		if item.URL == "" {
			continue
		}
		if _, ok := seen[item.URL]; ok {
			continue
		}
		seen[item.URL] = struct{}{}
		merged = append(merged, item)
	}
	return merged
}

func (s *skillResourceService) persistBundle(ctx context.Context, tx *gorm.DB, stored, result *types.SkillResource) error {
	if stored == nil {
		_, err := s.resourceRepo.Create(ctx, tx, result)
		return err
	}
	_, err := s.resourceRepo.Save(ctx, tx, result)
	return err
}

func (s *skillResourceService) cacheBundle(ctx context.Context, key string, resource *types.SkillResource) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, resource, s.staleness); err != nil {
		s.log.Warn("Failed to cache skill resources", "cache_key", key, "error", err.Error())
	}
}

func (s *skillResourceService) isStale(updatedAt time.Time) bool {
	if updatedAt.IsZero() {
		return true
	}
	return s.now().Sub(updatedAt) > s.staleness
}

func (s *skillResourceService) recordGeneration(ctx context.Context, prompt, response string, started time.Time, genErr error) {
	if s.genLogRepo == nil {
		return
	}
	entry := &types.GenerationLog{
		ID:         uuid.NewString(),
		Kind:       "skill_resources",
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
		s.log.Warn("Failed to record generation audit entry", "kind", "skill_resources", "error", err.Error())
	}
}
