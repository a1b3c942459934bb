package types

import (
	"time"

	"gorm.io/datatypes"
)

// InterviewQuestion is one persisted question/answer pair. Questions are
// stored as individual rows so role-level and skill-level lookups can sample
// from the same pool.
type InterviewQuestion struct {
	ID         string                      `gorm:"primaryKey" json:"id"`
	Role       string                      `gorm:"column:role;not null;index:idx_question_role_exp" json:"role"`
	Experience string                      `gorm:"column:experience;not null;index:idx_question_role_exp" json:"experience"`
	Skill      string                      `gorm:"column:skill;index" json:"skill,omitempty"`
	Question   string                      `gorm:"column:question;not null" json:"question"`
	Answer     string                      `gorm:"column:answer" json:"answer"`
	Category   string                      `gorm:"column:category" json:"category"`
	Difficulty string                      `gorm:"column:difficulty" json:"difficulty"`
	Tags       datatypes.JSONSlice[string] `gorm:"type:jsonb;column:tags" json:"tags,omitempty"`
	CreatedAt  time.Time                   `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time                   `gorm:"not null" json:"updatedAt"`
}

func (InterviewQuestion) TableName() string { return "interview_question" }

// QuestionSet is the caller-facing grouping of generated questions. It is
// assembled from rows or fresh generation and never persisted as a unit.
type QuestionSet struct {
	Role            string         `json:"role"`
	ExperienceLevel string         `json:"experienceLevel"`
	Questions       []QuestionItem `json:"questions"`
	Fallback        bool           `json:"fallback,omitempty"`
}

type QuestionItem struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}
