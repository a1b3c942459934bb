package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
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

// DefaultStalenessWindow is how old a stored entity may be before a lookup
// triggers regeneration and merge.
const DefaultStalenessWindow = 30 * 24 * time.Hour

type RoadmapService interface {
	// GenerateOrGetRoadmap runs the lookup/generate/merge/persist sequence.
	// It always returns a roadmap: stored, merged, freshly generated, or a
	// fallback-flagged one when nothing else is available.
	GenerateOrGetRoadmap(ctx context.Context, tx *gorm.DB, req RoadmapRequest) (*types.Roadmap, error)
	GetRoadmapByCompositeKey(ctx context.Context, tx *gorm.DB, compositeKey string) (*types.Roadmap, error)
	DeleteRoadmap(ctx context.Context, tx *gorm.DB, id string) error
}

type roadmapService struct {
	db          *gorm.DB
	log         *logger.Logger
	roadmapRepo repos.RoadmapRepo
	genLogRepo  repos.GenerationLogRepo
	model       groq.Client
	mapper      *generation.Mapper
	prompts     *generation.PromptBuilder
	cache       redis.Cache
	staleness   time.Duration
	now         func() time.Time
}

func NewRoadmapService(
	db *gorm.DB,
	baseLog *logger.Logger,
	roadmapRepo repos.RoadmapRepo,
	genLogRepo repos.GenerationLogRepo,
	model groq.Client,
	mapper *generation.Mapper,
	cache redis.Cache,
	staleness time.Duration,
) RoadmapService {
	if staleness <= 0 {
		staleness = DefaultStalenessWindow
	}
	return &roadmapService{
		db:          db,
		log:         baseLog.With("service", "RoadmapService"),
		roadmapRepo: roadmapRepo,
		genLogRepo:  genLogRepo,
		model:       model,
		mapper:      mapper,
		prompts:     generation.NewPromptBuilder(),
		cache:       cache,
		staleness:   staleness,
		now:         time.Now,
	}
}

func (s *roadmapService) GenerateOrGetRoadmap(ctx context.Context, tx *gorm.DB, req RoadmapRequest) (*types.Roadmap, error) {
	compositeKey := req.CompositeKey()
	s.log.Info("Generating or retrieving roadmap", "composite_key", compositeKey, "force_refresh", req.ForceRefresh)

	if !req.ForceRefresh && s.cache != nil {
		var cached types.Roadmap
		if err := s.cache.GetJSON(ctx, "roadmap:"+compositeKey, &cached); err == nil {
			s.log.Debug("Roadmap cache hit", "composite_key", compositeKey)
			return &cached, nil
		}
	}

	// Lookup failure degrades to the NotFound path rather than failing the
	// request; the store may recover by the time we persist.
	stored, err := s.roadmapRepo.GetByCompositeKey(ctx, tx, compositeKey)
	if err != nil && !errors.Is(err, repos.ErrNotFound) {
		s.log.Error("Roadmap lookup failed", "composite_key", compositeKey, "error", err.Error())
		stored = nil
	}

	if stored != nil && !req.ForceRefresh && !s.isStale(stored.UpdatedAt) {
		s.log.Info("Serving fresh stored roadmap", "composite_key", compositeKey)
		s.cacheRoadmap(ctx, compositeKey, stored)
		return stored, nil
	}

	generated, genErr := s.generateWithModel(ctx, req, compositeKey)
	if genErr != nil {
		if stored != nil {
			// Favor availability of stale data over a hard failure.
			s.log.Warn("Generation failed; serving stale stored roadmap",
				"composite_key", compositeKey, "error", genErr.Error())
			return stored, nil
		}
		s.log.Error("Generation failed with no stored roadmap; returning fallback",
			"composite_key", compositeKey, "error", genErr.Error())
		fallback := generation.FallbackRoadmap(req.Role, req.ExperienceLevel, derefWeeks(req.TimelineWeeks))
		fallback.CompositeKey = compositeKey
		return fallback, nil
	}

	var result *types.Roadmap
	if stored != nil {
		result = s.mergeRoadmaps(stored, generated)
	} else {
		result = generated
	}

	if err := s.persistRoadmap(ctx, tx, stored, result); err != nil {
		// Respond with the unsaved entity; the next request regenerates.
		s.log.Error("Failed to persist roadmap", "composite_key", compositeKey, "error", err.Error())
	}
	s.cacheRoadmap(ctx, compositeKey, result)
	return result, nil
}

func (s *roadmapService) GetRoadmapByCompositeKey(ctx context.Context, tx *gorm.DB, compositeKey string) (*types.Roadmap, error) {
	if s.cache != nil {
		var cached types.Roadmap
		if err := s.cache.GetJSON(ctx, "roadmap:"+compositeKey, &cached); err == nil {
			return &cached, nil
		}
	}
	roadmap, err := s.roadmapRepo.GetByCompositeKey(ctx, tx, compositeKey)
	if err != nil {
		return nil, err
	}
	s.cacheRoadmap(ctx, compositeKey, roadmap)
	return roadmap, nil
}

func (s *roadmapService) DeleteRoadmap(ctx context.Context, tx *gorm.DB, id string) error {
	roadmap, err := s.roadmapRepo.GetByID(ctx, tx, id)
	if err != nil {
		return err
	}
	if err := s.roadmapRepo.Delete(ctx, tx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "roadmap:"+roadmap.CompositeKey)
	}
	return nil
}

// generateWithModel runs prompt → completion → normalize → map and stamps
// identity fields on the result.
func (s *roadmapService) generateWithModel(ctx context.Context, req RoadmapRequest, compositeKey string) (*types.Roadmap, error) {
	timeline := derefWeeks(req.TimelineWeeks)
	prompt := s.prompts.Roadmap(req.Role, req.ExperienceLevel, req.CurrentSkills, timeline, req.FocusArea)

	started := s.now()
	text, err := s.model.Generate(ctx, prompt, "")
	s.recordGeneration(ctx, "roadmap", prompt, text, started, err)
	if err != nil {
		return nil, fmt.Errorf("roadmap generation: %w", err)
	}

	roadmap := s.mapper.MapRoadmap(generation.Normalize(text), prompt)
	if len(roadmap.Phases) == 0 {
		return nil, fmt.Errorf("roadmap generation: completion contained no usable phases")
	}

	now := s.now().UTC()
	roadmap.ID = uuid.NewString()
	roadmap.Role = req.Role
	roadmap.ExperienceLevel = req.ExperienceLevel
	roadmap.CompositeKey = compositeKey
	roadmap.CreatedAt = now
	roadmap.UpdatedAt = now
	roadmap.EstimatedWeeks = roadmap.MaxWeekNumber()
	return roadmap, nil
}

// mergeRoadmaps combines stored and freshly generated roadmaps. Identity
// comes from the stored entity; phases are deduplicated by name with stored
// phases winning ties, re-sorted by week, and the week total is recomputed
// from the merged list.
func (s *roadmapService) mergeRoadmaps(stored, fresh *types.Roadmap) *types.Roadmap {
	merged := &types.Roadmap{
		ID:              stored.ID,
		Role:            stored.Role,
		ExperienceLevel: stored.ExperienceLevel,
		CompositeKey:    stored.CompositeKey,
		RequiredSkills:  stored.RequiredSkills,
		Prerequisites:   stored.Prerequisites,
		CreatedAt:       stored.CreatedAt,
		UpdatedAt:       s.now().UTC(),
	}

	seen := make(map[string]struct{})
	var phases []types.Phase
	for _, source := range [][]types.Phase{stored.Phases, fresh.Phases} {
		for _, phase := range source {
			if phase.PhaseName == "" {
				continue
			}
			if _, ok := seen[phase.PhaseName]; ok {
				continue
			}
			seen[phase.PhaseName] = struct{}{}
			phases = append(phases, phase)
		}
	}
	sortPhases(phases)
	merged.Phases = phases
	merged.EstimatedWeeks = merged.MaxWeekNumber()
	return merged
}

func (s *roadmapService) persistRoadmap(ctx context.Context, tx *gorm.DB, stored, result *types.Roadmap) error {
	if stored == nil {
		_, err := s.roadmapRepo.Create(ctx, tx, result)
		return err
	}
	_, err := s.roadmapRepo.Save(ctx, tx, result)
	return err
}

func (s *roadmapService) cacheRoadmap(ctx context.Context, compositeKey string, roadmap *types.Roadmap) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, "roadmap:"+compositeKey, roadmap, s.staleness); err != nil {
		s.log.Warn("Failed to cache roadmap", "composite_key", compositeKey, "error", err.Error())
	}
}

func (s *roadmapService) isStale(updatedAt time.Time) bool {
	if updatedAt.IsZero() {
		return true
	}
	return s.now().Sub(updatedAt) > s.staleness
}

func (s *roadmapService) recordGeneration(ctx context.Context, kind, prompt, response string, started time.Time, genErr error) {
	if s.genLogRepo == nil {
		return
	}
	entry := &types.GenerationLog{
		ID:         uuid.NewString(),
		Kind:       kind,
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
		s.log.Warn("Failed to record generation audit entry", "kind", kind, "error", err.Error())
	}
}

func derefWeeks(weeks *int) int {
	if weeks == nil {
		return 0
	}
	return *weeks
}

func sortPhases(phases []types.Phase) {
	sort.SliceStable(phases, func(i, j int) bool {
		return phases[i].WeekNumber < phases[j].WeekNumber
	})
}
