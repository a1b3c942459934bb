package services

import (
	"fmt"
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// RoadmapRequest describes one roadmap generation request. The composite key
// derived from it is the cache lookup key, so identical logical requests must
// produce identical keys.
type RoadmapRequest struct {
	Role            string   `json:"role" binding:"required"`
	ExperienceLevel string   `json:"experienceLevel" binding:"required"`
	CurrentSkills   []string `json:"currentSkills,omitempty"`
	TimelineWeeks   *int     `json:"timelineWeeks,omitempty"`
	FocusArea       string   `json:"focusArea,omitempty"`
	ForceRefresh    bool     `json:"forceRefresh,omitempty"`
}

// CompositeKey is a pure function of (role, experienceLevel, timelineWeeks);
// it is case- and whitespace-insensitive.
func (r RoadmapRequest) CompositeKey() string {
	weeks := 0
	if r.TimelineWeeks != nil {
		weeks = *r.TimelineWeeks
	}
	return fmt.Sprintf("%s_%s_%d", normalizeKeyPart(r.Role), normalizeKeyPart(r.ExperienceLevel), weeks)
}

func normalizeKeyPart(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return whitespaceRe.ReplaceAllString(s, "_")
}

// QuestionRequest asks for role-level interview questions.
type QuestionRequest struct {
	Role            string `json:"role" binding:"required"`
	ExperienceLevel string `json:"experienceLevel" binding:"required"`
	Topics          string `json:"topics,omitempty"`
	Count           int    `json:"count,omitempty"`
	ForceRefresh    bool   `json:"forceRefresh,omitempty"`
}

// SkillQuestionRequest asks for questions focused on one skill.
type SkillQuestionRequest struct {
	Skill           string `json:"skill" binding:"required"`
	Role            string `json:"jobRole" binding:"required"`
	ExperienceLevel string `json:"experienceLevel" binding:"required"`
	Count           int    `json:"count,omitempty"`
	ForceRefresh    bool   `json:"forceRefresh,omitempty"`
}

// SkillResourceRequest asks for a categorized resource bundle for one skill.
type SkillResourceRequest struct {
	SkillName             string `json:"skillName" binding:"required"`
	Role                  string `json:"role" binding:"required"`
	ExperienceLevel       string `json:"experienceLevel" binding:"required"`
	IncludeLearningPaths  bool   `json:"includeLearningPaths"`
	IncludeProjects       bool   `json:"includeProjects"`
	IncludeCertifications bool   `json:"includeCertifications"`
	IncludeCommunities    bool   `json:"includeCommunities"`
	ForceRefresh          bool   `json:"forceRefresh,omitempty"`
}

// ClampCount bounds a requested item count to [1, 100].
func ClampCount(count int) int {
	if count < 1 {
		return 1
	}
	if count > 100 {
		return 100
	}
	return count
}
