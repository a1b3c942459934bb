package types

import "time"

// GenerationLog is an audit row for every completion call, kept so bad model
// output can be replayed through the normalizer offline.
type GenerationLog struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	Kind       string    `gorm:"column:kind;not null;index" json:"kind"` // roadmap, questions, skill_resources
	Model      string    `gorm:"column:model;not null" json:"model"`
	Prompt     string    `gorm:"column:prompt" json:"prompt"`
	Response   string    `gorm:"column:response" json:"response"`
	Success    bool      `gorm:"column:success;not null" json:"success"`
	Error      string    `gorm:"column:error" json:"error"`
	DurationMS int64     `gorm:"column:duration_ms" json:"durationMs"`
	CreatedAt  time.Time `gorm:"not null" json:"createdAt"`
}

func (GenerationLog) TableName() string { return "generation_log" }
