package model

import (
	"time"

	"gorm.io/gorm"
)

// Answer records a student's response to one question of an attempt. Unique
// per (attempt, question): re-recording while the attempt is open replaces the
// previous value, never duplicates it. ScoredMarks and AIComment stay nil
// until the attempt is submitted and scored.
//
// Answered distinguishes "the student picked nothing and submission recorded
// the gap" from "a response was given": the scoring engine inserts a row with
// Answered=false for every snapshot question left blank. The column carries no
// default: gorm skips zero-valued fields that have one, and a default would
// silently turn those blank rows into answered ones on insert.
type Answer struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	AttemptID        uint           `json:"attempt_id" gorm:"not null;uniqueIndex:idx_answer_attempt_question"`
	QuestionID       uint           `json:"question_id" gorm:"not null;uniqueIndex:idx_answer_attempt_question"`
	SelectedOptionID *uint          `json:"selected_option_id,omitempty"`
	Response         string         `json:"response,omitempty" gorm:"type:text"`
	Answered         bool           `json:"answered" gorm:"not null"`
	ScoredMarks      *float64       `json:"scored_marks,omitempty"`
	AIComment        *string        `json:"ai_comment,omitempty" gorm:"type:text"`
	NeedsReview      bool           `json:"needs_review" gorm:"not null;default:false"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
