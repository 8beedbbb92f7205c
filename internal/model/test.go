package model

import (
	"time"

	"gorm.io/gorm"
)

// Test grading modes. The mode is dispatched once at scoring-engine entry.
const (
	ModeMCQ      = "mcq"
	ModeFreeText = "free_text"
)

// DefaultPassPercent applies when an admin creates a test without an explicit
// pass threshold.
const DefaultPassPercent = 60.0

// Test is an admin-authored, fixed ("formal") paper: an ordered, curated list
// of questions with a time limit and a pass threshold. Read-only once an
// attempt references it. Practice attempts are assembled from the topic pool
// instead and do not need a Test row.
type Test struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	Title            string         `json:"title" gorm:"not null;uniqueIndex"`
	TopicID          uint           `json:"topic_id" gorm:"not null;index"`
	Topic            Topic          `json:"topic,omitempty" gorm:"foreignKey:TopicID"`
	Level            string         `json:"level" gorm:"size:10;not null"`
	Mode             string         `json:"mode" gorm:"size:20;not null;default:'mcq'"`
	TimeLimitMinutes int            `json:"time_limit_minutes" gorm:"not null"`
	PassPercent      float64        `json:"pass_percent" gorm:"not null;default:60"`
	IsPublic         bool           `json:"is_public" gorm:"default:false"`
	CreatedBy        *uint          `json:"created_by,omitempty"`
	Questions        []Question     `json:"questions,omitempty" gorm:"foreignKey:TestID"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
