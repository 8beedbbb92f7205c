package model

import (
	"time"

	"gorm.io/gorm"
)

// Topic groups pool questions for practice attempts. Formal tests also
// reference a topic for cataloguing.
type Topic struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Title       string         `json:"title" gorm:"not null;uniqueIndex"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Questions   []Question     `json:"questions,omitempty" gorm:"foreignKey:TopicID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
