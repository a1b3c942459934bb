package types

import "time"

type Skill struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Category    string    `gorm:"column:category" json:"category,omitempty"`
	Proficiency int       `gorm:"column:proficiency" json:"proficiency,omitempty"`
	IsCore      bool      `gorm:"column:is_core;not null;default:false" json:"isCore"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}

func (Skill) TableName() string { return "skill" }
