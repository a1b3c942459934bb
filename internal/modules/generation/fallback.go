package generation

import (
	"time"

	"github.com/google/uuid"

	"github.com/pathprep/pathprep-backend/internal/types"
)

// Fallback entities are minimally populated, carry a placeholder id and are
// flagged so callers can tell degraded content from genuine empty results.

func FallbackRoadmap(role, experienceLevel string, timelineWeeks int) *types.Roadmap {
	now := time.Now().UTC()
	weeks := timelineWeeks
	if weeks <= 0 {
		weeks = DefaultTimeline(experienceLevel)
	}
	return &types.Roadmap{
		ID:              fallbackID(),
		Role:            role,
		ExperienceLevel: experienceLevel,
		EstimatedWeeks:  weeks,
		Phases:          []types.Phase{},
		Fallback:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func FallbackQuestionSet(role, experienceLevel string) *types.QuestionSet {
	return &types.QuestionSet{
		Role:            role,
		ExperienceLevel: experienceLevel,
		Questions:       []types.QuestionItem{},
		Fallback:        true,
	}
}

func FallbackSkillResource(skillName, role, experienceLevel string) *types.SkillResource {
	now := time.Now().UTC()
	return &types.SkillResource{
		ID:              fallbackID(),
		SkillName:       skillName,
		Role:            role,
		ExperienceLevel: experienceLevel,
		LearningPaths:   []types.ResourceItem{},
		Projects:        []types.ResourceItem{},
		Certifications:  []types.ResourceItem{},
		Communities:     []types.ResourceItem{},
		Fallback:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func fallbackID() string {
	return "fallback-" + uuid.NewString()
}
