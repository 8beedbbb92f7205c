package dto

import "time"

// ErrorResponse is the uniform error body for every endpoint.
type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// OptionPublicDTO is an MCQ choice as shown to a student during an open
// attempt. It deliberately has no correctness flag.
type OptionPublicDTO struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// QuestionPublicDTO is a snapshot question as rendered to the student.
type QuestionPublicDTO struct {
	ID      uint              `json:"id"`
	Text    string            `json:"text"`
	Marks   float64           `json:"marks"`
	Options []OptionPublicDTO `json:"options,omitempty"`
}

// RecordedAnswerDTO echoes the currently stored answer for one question.
type RecordedAnswerDTO struct {
	QuestionID       uint   `json:"question_id"`
	SelectedOptionID *uint  `json:"selected_option_id,omitempty"`
	Response         string `json:"response,omitempty"`
}

// AttemptStateDTO is the live view of an attempt: questions without answer
// keys, previously recorded answers, and the server-authoritative remaining
// time in seconds.
type AttemptStateDTO struct {
	ID                   uint                `json:"id"`
	Origin               string              `json:"origin"`
	Mode                 string              `json:"mode"`
	TestID               *uint               `json:"test_id,omitempty"`
	TestTitle            string              `json:"test_title,omitempty"`
	Status               string              `json:"status"`
	StartedAt            time.Time           `json:"started_at"`
	Deadline             time.Time           `json:"deadline"`
	TimeRemainingSeconds int64               `json:"time_remaining_seconds"`
	Questions            []QuestionPublicDTO `json:"questions"`
	Answers              []RecordedAnswerDTO `json:"answers,omitempty"`
}

// QuestionResultDTO is the per-question outcome once an attempt is scored.
// CorrectOptionID is only ever populated here, after submission.
type QuestionResultDTO struct {
	QuestionID       uint    `json:"question_id"`
	Text             string  `json:"text"`
	Marks            float64 `json:"marks"`
	Answered         bool    `json:"answered"`
	SelectedOptionID *uint   `json:"selected_option_id,omitempty"`
	CorrectOptionID  *uint   `json:"correct_option_id,omitempty"`
	Response         string  `json:"response,omitempty"`
	ScoredMarks      float64 `json:"scored_marks"`
	AIComment        *string `json:"ai_comment,omitempty"`
	NeedsReview      bool    `json:"needs_review"`
}

// AttemptResultDTO is the stored, immutable result of a submitted attempt.
type AttemptResultDTO struct {
	ID            uint                `json:"id"`
	TestID        *uint               `json:"test_id,omitempty"`
	TestTitle     string              `json:"test_title,omitempty"`
	Origin        string              `json:"origin"`
	Mode          string              `json:"mode"`
	Status        string              `json:"status"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
	TotalScore    float64             `json:"total_score"`
	MaxScore      float64             `json:"max_score"`
	PassPercent   float64             `json:"pass_percent"`
	Passed        bool                `json:"passed"`
	Late          bool                `json:"late"`
	SubmitTrigger string              `json:"submit_trigger,omitempty"`
	Feedback      string              `json:"feedback,omitempty"`
	Questions     []QuestionResultDTO `json:"questions"`
}

// AttemptSummaryDTO lists a student's attempts for a test.
type AttemptSummaryDTO struct {
	ID          uint       `json:"id"`
	TestID      *uint      `json:"test_id,omitempty"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	TotalScore  *float64   `json:"total_score,omitempty"`
	Passed      *bool      `json:"passed,omitempty"`
	Late        bool       `json:"late"`
}

// TestSummaryDTO is used for listing tests available to students.
type TestSummaryDTO struct {
	ID               uint      `json:"id"`
	Title            string    `json:"title"`
	Level            string    `json:"level"`
	Mode             string    `json:"mode"`
	TimeLimitMinutes int       `json:"time_limit_minutes"`
	QuestionCount    int       `json:"question_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// TestResponseDTO shows full test details (still without answer keys) so a
// student can decide to start an attempt.
type TestResponseDTO struct {
	ID               uint                `json:"id"`
	Title            string              `json:"title"`
	TopicID          uint                `json:"topic_id"`
	Level            string              `json:"level"`
	Mode             string              `json:"mode"`
	TimeLimitMinutes int                 `json:"time_limit_minutes"`
	PassPercent      float64             `json:"pass_percent"`
	Questions        []QuestionPublicDTO `json:"questions,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

// TopicResponseDTO echoes a created topic.
type TopicResponseDTO struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// OptionAdminDTO includes the correctness flag; admin-only responses.
type OptionAdminDTO struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionAdminDTO is the authoring view of a question.
type QuestionAdminDTO struct {
	ID          uint             `json:"id"`
	TopicID     uint             `json:"topic_id"`
	TestID      *uint            `json:"test_id,omitempty"`
	Text        string           `json:"text"`
	Level       string           `json:"level"`
	Marks       float64          `json:"marks"`
	OrderInTest int              `json:"order_in_test,omitempty"`
	Options     []OptionAdminDTO `json:"options,omitempty"`
}

// TestAdminDTO is the authoring view of a full test.
type TestAdminDTO struct {
	ID               uint               `json:"id"`
	Title            string             `json:"title"`
	TopicID          uint               `json:"topic_id"`
	Level            string             `json:"level"`
	Mode             string             `json:"mode"`
	TimeLimitMinutes int                `json:"time_limit_minutes"`
	PassPercent      float64            `json:"pass_percent"`
	IsPublic         bool               `json:"is_public"`
	Questions        []QuestionAdminDTO `json:"questions,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}
