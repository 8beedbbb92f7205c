package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Attempt statuses. Submitted is terminal: every field except read access is
// frozen the instant the status flips.
const (
	AttemptInProgress = "in_progress"
	AttemptSubmitted  = "submitted"
)

// Attempt origins.
const (
	OriginFormal   = "formal"
	OriginPractice = "practice"
)

// Submission triggers. Only the deadline sweeper issues TriggerTimeout on the
// server side; clients report timeout when their local countdown expires.
const (
	TriggerManual  = "manual"
	TriggerTimeout = "timeout"
	TriggerUnload  = "unload"
)

// SnapshotOption mirrors an Option inside the attempt's frozen question set.
type SnapshotOption struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// SnapshotQuestion is one question as frozen at attempt creation. Grading
// always runs against the snapshot, never the live pool, so later pool edits
// cannot change the result of an attempt already started.
type SnapshotQuestion struct {
	ID      uint             `json:"id"`
	Text    string           `json:"text"`
	Marks   float64          `json:"marks"`
	Options []SnapshotOption `json:"options,omitempty"`
}

// Attempt is one student's timed run through a test or a practice set. The
// deadline is set once at creation (started_at + time limit) and is immutable;
// "time remaining" is always derived server-side as max(0, deadline-now).
type Attempt struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	StudentID uint   `json:"student_id" gorm:"not null;index:idx_attempt_student_test"`
	Origin    string `json:"origin" gorm:"size:10;not null"`
	Mode      string `json:"mode" gorm:"size:20;not null"`

	// Formal attempts reference a Test; practice attempts record the topic,
	// level and selection seed they were assembled from.
	TestID  *uint   `json:"test_id,omitempty" gorm:"index:idx_attempt_student_test"`
	Test    *Test   `json:"test,omitempty" gorm:"foreignKey:TestID"`
	TopicID *uint   `json:"topic_id,omitempty" gorm:"index"`
	Level   *string `json:"level,omitempty" gorm:"size:10"`
	Seed    int64   `json:"seed" gorm:"not null"`

	QuestionSet datatypes.JSON `json:"-" gorm:"not null"`

	Status      string     `json:"status" gorm:"size:20;not null;default:'in_progress';index"`
	StartedAt   time.Time  `json:"started_at" gorm:"not null"`
	Deadline    time.Time  `json:"deadline" gorm:"not null;index"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	TotalScore    *float64 `json:"total_score,omitempty"`
	MaxScore      float64  `json:"max_score" gorm:"not null"`
	PassPercent   float64  `json:"pass_percent" gorm:"not null"`
	Passed        *bool    `json:"passed,omitempty"`
	Late          bool     `json:"late" gorm:"not null;default:false"`
	SubmitTrigger *string  `json:"submit_trigger,omitempty" gorm:"size:10"`
	Feedback      string   `json:"feedback,omitempty" gorm:"type:text"`

	Answers   []Answer       `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsSubmitted reports whether the attempt has reached its terminal state.
func (a *Attempt) IsSubmitted() bool {
	return a.Status == AttemptSubmitted
}

// TimeRemaining returns the authoritative remaining duration at the given
// instant, clamped to zero. Clients must trust this over their local clock.
func (a *Attempt) TimeRemaining(now time.Time) time.Duration {
	if a.IsSubmitted() {
		return 0
	}
	remaining := a.Deadline.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Snapshot decodes the frozen question set.
func (a *Attempt) Snapshot() ([]SnapshotQuestion, error) {
	var qs []SnapshotQuestion
	if err := json.Unmarshal(a.QuestionSet, &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// SetSnapshot freezes the given question set onto the attempt.
func (a *Attempt) SetSnapshot(qs []SnapshotQuestion) error {
	buf, err := json.Marshal(qs)
	if err != nil {
		return err
	}
	a.QuestionSet = datatypes.JSON(buf)
	return nil
}
