package types

import "time"

// Role is a target job role callers can request content for.
type Role struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Category    string    `gorm:"column:category" json:"category,omitempty"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}

func (Role) TableName() string { return "role" }
