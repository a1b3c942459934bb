package types

import (
	"time"

	"gorm.io/datatypes"
)

// Roadmap is a detailed learning roadmap for one role and experience level.
// Phases are kept as a JSON column: the model output is a document, not a
// relational graph, and it is always read and written whole.
type Roadmap struct {
	ID              string                      `gorm:"primaryKey" json:"id"`
	Role            string                      `gorm:"column:role;not null" json:"role"`
	ExperienceLevel string                      `gorm:"column:experience_level;not null" json:"experienceLevel"`
	CompositeKey    string                      `gorm:"column:composite_key;uniqueIndex:idx_roadmap_composite_key" json:"compositeKey"`
	EstimatedWeeks  int                         `gorm:"column:estimated_weeks" json:"estimatedWeeks"`
	Phases          datatypes.JSONSlice[Phase]  `gorm:"type:jsonb;column:phases" json:"phases"`
	RequiredSkills  datatypes.JSONSlice[string] `gorm:"type:jsonb;column:required_skills" json:"requiredSkills,omitempty"`
	Prerequisites   datatypes.JSONSlice[string] `gorm:"type:jsonb;column:prerequisites" json:"prerequisites,omitempty"`
	Fallback        bool                        `gorm:"column:fallback;not null;default:false" json:"fallback"`
	CreatedAt       time.Time                   `gorm:"not null" json:"createdAt"`
	UpdatedAt       time.Time                   `gorm:"not null" json:"updatedAt"`
}

func (Roadmap) TableName() string { return "roadmap" }

// Phase is one block of a roadmap, pinned to a single week number.
type Phase struct {
	PhaseName    string   `json:"phaseName"`
	WeekNumber   int      `json:"weekNumber"`
	Objective    string   `json:"objective,omitempty"`
	Topics       []Topic  `json:"topics,omitempty"`
	Deliverables []string `json:"deliverables,omitempty"`
}

type Topic struct {
	TopicName      string     `json:"topicName"`
	Description    string     `json:"description,omitempty"`
	EstimatedHours int        `json:"estimatedHours"`
	Difficulty     string     `json:"difficulty"`
	Subtopics      []Subtopic `json:"subtopics,omitempty"`
}

type Subtopic struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Resources   []LearningResource `json:"resources,omitempty"`
}

type LearningResource struct {
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// MaxWeekNumber is the derived roadmap length. The generator's own total is
// never trusted; the merged phase list is the source of truth.
func (r *Roadmap) MaxWeekNumber() int {
	max := 0
	for _, p := range r.Phases {
		if p.WeekNumber > max {
			max = p.WeekNumber
		}
	}
	if max < 1 {
		return 1
	}
	return max
}
