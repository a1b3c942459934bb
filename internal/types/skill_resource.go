package types

import (
	"time"

	"gorm.io/datatypes"
)

// SkillResource is the curated resource bundle for one (skill, role,
// experience level) triple. The four category lists are JSON columns for the
// same reason roadmap phases are.
type SkillResource struct {
	ID              string                            `gorm:"primaryKey" json:"id"`
	SkillName       string                            `gorm:"column:skill_name;not null;uniqueIndex:idx_skill_resource_key" json:"skillName"`
	Role            string                            `gorm:"column:role;not null;uniqueIndex:idx_skill_resource_key" json:"role"`
	ExperienceLevel string                            `gorm:"column:experience_level;not null;uniqueIndex:idx_skill_resource_key" json:"experienceLevel"`
	LearningPaths   datatypes.JSONSlice[ResourceItem] `gorm:"type:jsonb;column:learning_paths" json:"learningPaths"`
	Projects        datatypes.JSONSlice[ResourceItem] `gorm:"type:jsonb;column:projects" json:"projects"`
	Certifications  datatypes.JSONSlice[ResourceItem] `gorm:"type:jsonb;column:certifications" json:"certifications"`
	Communities     datatypes.JSONSlice[ResourceItem] `gorm:"type:jsonb;column:communities" json:"communities"`
	Fallback        bool                              `gorm:"column:fallback;not null;default:false" json:"fallback"`
	CreatedAt       time.Time                         `gorm:"not null" json:"createdAt"`
	UpdatedAt       time.Time                         `gorm:"not null" json:"updatedAt"`
}

func (SkillResource) TableName() string { return "skill_resource" }

type ResourceItem struct {
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	Description    string  `json:"description,omitempty"`
	Type           string  `json:"type,omitempty"`  // FREE, PAID, COMMUNITY
	Level          string  `json:"level,omitempty"` // BEGINNER, INTERMEDIATE, ADVANCED
	Rating         float64 `json:"rating,omitempty"`
	EstimatedHours int     `json:"estimatedHours,omitempty"`
}
