package generation

import (
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/pathprep/pathprep-backend/internal/logger"
	"github.com/pathprep/pathprep-backend/internal/types"
)

// Field alias tables, tried in priority order. The model's output shape is
// untrusted along three axes: wrapping (object vs bare array vs wrapper key),
// field naming, and value encoding. Keeping the tables as data keeps the
// resolution logic testable apart from control flow.
var (
	phaseListAliases   = []string{"phases", "learningPhases", "roadmapPhases", "stages"}
	phaseNameAliases   = []string{"phaseName", "title", "name", "phase", "week"}
	weekNumberAliases  = []string{"weekNumber", "week", "weekNum", "phaseNumber"}
	objectiveAliases   = []string{"objective", "description", "summary"}
	topicListAliases   = []string{"topics", "learningTopics", "subjects"}
	deliverableAliases = []string{"deliverables", "outcomes", "results"}

	topicNameAliases    = []string{"topicName", "name", "title", "skill", "concept"}
	descriptionAliases  = []string{"description", "desc", "details", "summary"}
	hoursAliases        = []string{"estimatedHours", "hours", "timeRequired", "duration"}
	difficultyAliases   = []string{"difficulty", "level", "complexity"}
	subtopicListAliases = []string{"subtopics", "subTopics", "subsections", "details"}
	subtopicNameAliases = []string{"name", "title", "subtopicName", "concept"}

	questionListAliases = []string{"questions", "data"}

	resourceCategoryAliases = map[string][]string{
		"learningPaths":  {"learningPaths", "learning_paths", "resources"},
		"projects":       {"projects"},
		"certifications": {"certifications"},
		"communities":    {"communities"},
	}
)

var (
	weekInNameRe = regexp.MustCompile(`(?i)(?:week|phase)\s*(\d+)`)
	weekPrefixRe = regexp.MustCompile(`(?i)^week\s*`)
)

// Mapper parses normalized JSON into the canonical entity graph, resolving
// aliases, shape ambiguity and value coercion. It never returns nil:
// unusable input produces an empty entity the caller treats as "no content".
type Mapper struct {
	log *logger.Logger
}

func NewMapper(baseLog *logger.Logger) *Mapper {
	return &Mapper{log: baseLog.With("module", "GenerationMapper")}
}

// MapRoadmap builds a roadmap from normalized JSON. prompt is the original
// prompt text, used to backfill role/experienceLevel when the completion is a
// bare phase array with no surrounding object.
func (m *Mapper) MapRoadmap(jsonText, prompt string) *types.Roadmap {
	roadmap := &types.Roadmap{}

	var root any
	if err := json.Unmarshal([]byte(jsonText), &root); err != nil {
		m.log.Warn("Roadmap JSON unparseable after normalization", "error", err.Error())
		return roadmap
	}

	obj, _ := root.(map[string]any)
	if obj != nil {
		// Some completions nest everything under a data wrapper.
		if inner, ok := obj["data"].(map[string]any); ok {
			obj = inner
		}
		roadmap.Role = stringField(obj, "role")
		roadmap.ExperienceLevel = stringField(obj, "experienceLevel")
		if n, ok := intValue(obj["estimatedWeeks"]); ok {
			roadmap.EstimatedWeeks = n
		}
	}

	phases := m.extractPhases(root, obj)
	if len(phases) == 0 {
		m.log.Warn("No usable phases in roadmap completion")
	}
	sort.SliceStable(phases, func(i, j int) bool {
		return phases[i].WeekNumber < phases[j].WeekNumber
	})
	roadmap.Phases = phases

	if roadmap.EstimatedWeeks <= 0 {
		roadmap.EstimatedWeeks = roadmap.MaxWeekNumber()
	}

	if roadmap.Role == "" {
		roadmap.Role = ExtractPromptField(prompt, "role")
	}
	if roadmap.ExperienceLevel == "" {
		roadmap.ExperienceLevel = ExtractPromptField(prompt, "experienceLevel")
	}
	return roadmap
}

func (m *Mapper) extractPhases(root any, obj map[string]any) []types.Phase {
	if obj != nil {
		for _, field := range phaseListAliases {
			v, ok := obj[field]
			if !ok {
				continue
			}
			phases := m.parsePhaseValue(v)
			if len(phases) > 0 {
				return phases
			}
		}
	}

	// Array-wrapped top level: the whole completion is the phase list.
	if arr, ok := root.([]any); ok {
		return m.parsePhaseArray(arr)
	}

	if obj == nil {
		return nil
	}

	// The object itself may be a single phase, or hold phase-like values
	// under arbitrary keys.
	if isPhaseLike(obj) {
		if p, ok := m.parsePhase(obj); ok {
			return []types.Phase{p}
		}
		return nil
	}

	var phases []types.Phase
	keys := sortedKeys(obj)
	for _, key := range keys {
		switch v := obj[key].(type) {
		case map[string]any:
			if !isPhaseLike(v) {
				continue
			}
			if p, ok := m.parsePhase(v); ok {
				if p.PhaseName == "" {
					p.PhaseName = key
				}
				phases = append(phases, p)
			}
		case []any:
			for _, item := range v {
				inner, ok := item.(map[string]any)
				if !ok || !isPhaseLike(inner) {
					continue
				}
				if p, ok := m.parsePhase(inner); ok {
					phases = append(phases, p)
				}
			}
		}
	}
	return phases
}

func (m *Mapper) parsePhaseValue(v any) []types.Phase {
	switch node := v.(type) {
	case []any:
		return m.parsePhaseArray(node)
	case map[string]any:
		if p, ok := m.parsePhase(node); ok {
			return []types.Phase{p}
		}
	}
	return nil
}

func (m *Mapper) parsePhaseArray(arr []any) []types.Phase {
	var phases []types.Phase
	for _, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			m.log.Warn("Skipping non-object phase element")
			continue
		}
		if p, ok := m.parsePhase(obj); ok {
			phases = append(phases, p)
		}
	}
	return phases
}

// parsePhase maps one phase object. Elements that cannot be parsed are
// skipped, never fatal.
func (m *Mapper) parsePhase(obj map[string]any) (types.Phase, bool) {
	var phase types.Phase

	phase.PhaseName = firstString(obj, phaseNameAliases)

	weekSet := false
	for _, field := range weekNumberAliases {
		v, ok := obj[field]
		if !ok {
			continue
		}
		if n, ok := coerceWeekNumber(v); ok {
			phase.WeekNumber = n
			weekSet = true
			break
		}
	}
	if !weekSet && phase.PhaseName != "" {
		if match := weekInNameRe.FindStringSubmatch(phase.PhaseName); len(match) == 2 {
			if n, err := strconv.Atoi(match[1]); err == nil {
				phase.WeekNumber = n
				weekSet = true
			}
		}
	}
	if phase.WeekNumber < 1 {
		phase.WeekNumber = 1
	}

	phase.Objective = firstString(obj, objectiveAliases)

	for _, field := range topicListAliases {
		arr, ok := obj[field].([]any)
		if !ok || len(arr) == 0 {
			continue
		}
		topics := m.parseTopics(arr)
		if len(topics) > 0 {
			phase.Topics = topics
			break
		}
	}

	for _, field := range deliverableAliases {
		arr, ok := obj[field].([]any)
		if !ok || len(arr) == 0 {
			continue
		}
		var deliverables []string
		for _, item := range arr {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				deliverables = append(deliverables, strings.TrimSpace(s))
			}
		}
		if len(deliverables) > 0 {
			phase.Deliverables = deliverables
			break
		}
	}

	return phase, true
}

func (m *Mapper) parseTopics(arr []any) []types.Topic {
	var topics []types.Topic
	for _, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			m.log.Warn("Skipping non-object topic element")
			continue
		}
		topics = append(topics, m.parseTopic(obj))
	}
	return topics
}

func (m *Mapper) parseTopic(obj map[string]any) types.Topic {
	var topic types.Topic

	topic.TopicName = firstString(obj, topicNameAliases)
	topic.Description = firstString(obj, descriptionAliases)

	for _, field := range hoursAliases {
		v, ok := obj[field]
		if !ok {
			continue
		}
		if n, ok := coerceHours(v); ok {
			topic.EstimatedHours = n
			break
		}
	}
	if topic.EstimatedHours < 1 {
		topic.EstimatedHours = 2
	}

	topic.Difficulty = NormalizeDifficulty(firstString(obj, difficultyAliases))

	for _, field := range subtopicListAliases {
		arr, ok := obj[field].([]any)
		if !ok || len(arr) == 0 {
			continue
		}
		var subtopics []types.Subtopic
		for _, item := range arr {
			inner, ok := item.(map[string]any)
			if !ok {
				continue
			}
			subtopics = append(subtopics, m.parseSubtopic(inner))
		}
		if len(subtopics) > 0 {
			topic.Subtopics = subtopics
			break
		}
	}

	return topic
}

func (m *Mapper) parseSubtopic(obj map[string]any) types.Subtopic {
	var sub types.Subtopic
	sub.Name = firstString(obj, subtopicNameAliases)
	sub.Description = firstString(obj, descriptionAliases)

	// A missing name is derived from the description prefix.
	if sub.Name == "" && sub.Description != "" {
		if len(sub.Description) > 50 {
			sub.Name = sub.Description[:50] + "..."
		} else {
			sub.Name = sub.Description
		}
	}

	if arr, ok := obj["resources"].([]any); ok {
		for _, item := range arr {
			inner, ok := item.(map[string]any)
			if !ok {
				continue
			}
			res := types.LearningResource{
				Title:       firstString(inner, []string{"title", "name"}),
				URL:         stringField(inner, "url"),
				Type:        stringField(inner, "type"),
				Description: firstString(inner, descriptionAliases),
			}
			if res.Title != "" || res.URL != "" {
				sub.Resources = append(sub.Resources, res)
			}
		}
	}
	return sub
}

// MapQuestionSet builds a question set from normalized JSON. Items with an
// empty question are dropped.
func (m *Mapper) MapQuestionSet(jsonText, prompt string) *types.QuestionSet {
	set := &types.QuestionSet{}

	var root any
	if err := json.Unmarshal([]byte(jsonText), &root); err != nil {
		m.log.Warn("Question JSON unparseable after normalization", "error", err.Error())
		return set
	}

	var items []any
	switch node := root.(type) {
	case []any:
		items = node
	case map[string]any:
		set.Role = stringField(node, "role")
		set.ExperienceLevel = stringField(node, "experienceLevel")
		for _, field := range questionListAliases {
			if arr, ok := node[field].([]any); ok {
				items = arr
				break
			}
		}
		if items == nil {
			// A single question object, not wrapped in a list.
			items = []any{root}
		}
	}

	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			m.log.Warn("Skipping non-object question element")
			continue
		}
		q := types.QuestionItem{
			Question:   strings.TrimSpace(stringField(obj, "question")),
			Answer:     strings.TrimSpace(stringField(obj, "answer")),
			Category:   stringField(obj, "category"),
			Difficulty: stringField(obj, "difficulty"),
		}
		if q.Question == "" {
			continue
		}
		if q.Category == "" {
			q.Category = "General"
		}
		if q.Difficulty == "" {
			q.Difficulty = "Medium"
		}
		set.Questions = append(set.Questions, q)
	}

	if set.Role == "" {
		set.Role = ExtractPromptField(prompt, "role")
	}
	if set.ExperienceLevel == "" {
		set.ExperienceLevel = ExtractPromptField(prompt, "experienceLevel")
	}
	return set
}

// MapSkillResource builds a resource bundle from normalized JSON. A bare
// array response is treated as the learningPaths list with identity fields
// backfilled from the prompt.
func (m *Mapper) MapSkillResource(jsonText, prompt string) *types.SkillResource {
	resource := &types.SkillResource{}

	var root any
	if err := json.Unmarshal([]byte(jsonText), &root); err != nil {
		m.log.Warn("Skill resource JSON unparseable after normalization", "error", err.Error())
		return resource
	}

	switch node := root.(type) {
	case []any:
		resource.LearningPaths = m.parseResourceItems(node)
	case map[string]any:
		if inner, ok := node["data"].(map[string]any); ok {
			node = inner
		}
		resource.SkillName = stringField(node, "skillName")
		resource.Role = stringField(node, "role")
		resource.ExperienceLevel = stringField(node, "experienceLevel")

		for category, aliases := range resourceCategoryAliases {
			var items []types.ResourceItem
			for _, field := range aliases {
				if arr, ok := node[field].([]any); ok && len(arr) > 0 {
					items = m.parseResourceItems(arr)
					break
				}
			}
			switch category {
			case "learningPaths":
				resource.LearningPaths = items
			case "projects":
				resource.Projects = items
			case "certifications":
				resource.Certifications = items
			case "communities":
				resource.Communities = items
			}
		}
	}

	if resource.SkillName == "" {
		resource.SkillName = ExtractPromptField(prompt, "skillName")
	}
	if resource.Role == "" {
		resource.Role = ExtractPromptField(prompt, "role")
	}
	if resource.ExperienceLevel == "" {
		resource.ExperienceLevel = ExtractPromptField(prompt, "experienceLevel")
	}
	return resource
}

func (m *Mapper) parseResourceItems(arr []any) []types.ResourceItem {
	var items []types.ResourceItem
	for _, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			m.log.Warn("Skipping non-object resource element")
			continue
		}
		res := types.ResourceItem{
			Title:       firstString(obj, []string{"title", "name"}),
			URL:         stringField(obj, "url"),
			Description: firstString(obj, descriptionAliases),
			Type:        stringField(obj, "type"),
			Level:       firstString(obj, []string{"level", "difficulty"}),
		}
		if f, ok := floatValue(obj["rating"]); ok {
			res.Rating = f
		}
		if n, ok := intValue(obj["estimatedHours"]); ok {
			res.EstimatedHours = n
		}
		if res.Title == "" && res.URL == "" {
			continue
		}
		items = append(items, res)
	}
	return items
}

// NormalizeDifficulty maps free-form difficulty labels onto the canonical
// three-level scale; unknown values are capitalized verbatim.
func NormalizeDifficulty(raw string) string {
	d := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case d == "":
		return "Beginner"
	case strings.HasPrefix(d, "beginner"), strings.HasPrefix(d, "easy"):
		return "Beginner"
	case strings.HasPrefix(d, "intermediate"), strings.HasPrefix(d, "medium"):
		return "Intermediate"
	case strings.HasPrefix(d, "advanced"), strings.HasPrefix(d, "hard"):
		return "Advanced"
	default:
		runes := []rune(d)
		runes[0] = unicode.ToUpper(runes[0])
		return string(runes)
	}
}

// coerceWeekNumber accepts a number, digit string, "Week N" phrase or hyphen
// range and reduces it to a single positive integer (ranges take the first
// bound).
func coerceWeekNumber(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		s := strings.TrimSpace(n)
		s = weekPrefixRe.ReplaceAllString(s, "")
		if idx := strings.Index(s, "-"); idx >= 0 {
			s = strings.TrimSpace(s[:idx])
		}
		if parsed, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

// coerceHours accepts a number, digit string or range; ranges reduce to the
// ceiling of the average.
func coerceHours(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		s := strings.TrimSpace(n)
		if idx := strings.Index(s, "-"); idx >= 0 {
			lo, errLo := strconv.Atoi(strings.TrimSpace(s[:idx]))
			hi, errHi := strconv.Atoi(strings.TrimSpace(s[idx+1:]))
			if errLo == nil && errHi == nil {
				return int(math.Ceil(float64(lo+hi) / 2.0)), true
			}
			if errLo == nil {
				return lo, true
			}
			return 0, false
		}
		if parsed, err := strconv.Atoi(s); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

// isPhaseLike duck-types an object as a phase by checking for at least one
// diagnostic field.
func isPhaseLike(obj map[string]any) bool {
	for _, field := range []string{"phaseName", "title", "weekNumber", "objective", "topics"} {
		if _, ok := obj[field]; ok {
			return true
		}
	}
	return false
}

func firstString(obj map[string]any, aliases []string) string {
	for _, field := range aliases {
		if s, ok := obj[field].(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func stringField(obj map[string]any, field string) string {
	s, _ := obj[field].(string)
	return strings.TrimSpace(s)
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
