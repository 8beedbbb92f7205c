package model

import (
	"time"

	"gorm.io/gorm"
)

// Question difficulty levels.
const (
	LevelBasic  = "basic"
	LevelMedium = "medium"
	LevelHard   = "hard"
)

// Question belongs to a topic pool and optionally to a fixed test. MCQ
// questions carry ordered options; free-text questions carry none and are
// graded by the AI collaborator. Questions are never mutated by an attempt:
// every attempt grades against its own frozen snapshot.
type Question struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	TopicID     uint           `json:"topic_id" gorm:"not null;index"`
	TestID      *uint          `json:"test_id,omitempty" gorm:"index"`
	Text        string         `json:"text" gorm:"type:text;not null"`
	Level       string         `json:"level" gorm:"size:10;not null;index"`
	Marks       float64        `json:"marks" gorm:"not null"`
	OrderInTest int            `json:"order_in_test" gorm:"default:0"`
	Options     []Option       `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Option is one MCQ choice. IsCorrect must never reach a client while the
// owning attempt is still open; the DTO layer strips it.
type Option struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	QuestionID uint           `json:"question_id" gorm:"not null;index"`
	Text       string         `json:"text" gorm:"not null"`
	IsCorrect  bool           `json:"is_correct" gorm:"not null;default:false"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
