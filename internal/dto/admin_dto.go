package dto

// OptionCreateDTO is one MCQ choice within a question being authored.
type OptionCreateDTO struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionCreateDTO is used within TestCreateDTO for admin test creation.
// MCQ questions need at least two options with exactly one marked correct;
// free-text questions carry no options.
type QuestionCreateDTO struct {
	Text        string            `json:"text" binding:"required"`
	Marks       float64           `json:"marks" binding:"required,gt=0"`
	OrderInTest int               `json:"order_in_test" binding:"required,min=1"`
	Options     []OptionCreateDTO `json:"options" binding:"omitempty,dive"`
}

// TestCreateDTO is for an admin to author a new formal test with all its
// questions.
type TestCreateDTO struct {
	Title            string              `json:"title" binding:"required"`
	TopicID          uint                `json:"topic_id" binding:"required"`
	Level            string              `json:"level" binding:"required,oneof=basic medium hard"`
	Mode             string              `json:"mode" binding:"required,oneof=mcq free_text"`
	TimeLimitMinutes int                 `json:"time_limit_minutes" binding:"required,gt=0"`
	PassPercent      float64             `json:"pass_percent" binding:"omitempty,gt=0,lte=100"`
	IsPublic         bool                `json:"is_public"`
	Questions        []QuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
}

// TopicCreateDTO creates a practice pool container.
type TopicCreateDTO struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// PoolQuestionCreateDTO adds a standalone question to a topic's practice pool.
type PoolQuestionCreateDTO struct {
	TopicID uint              `json:"topic_id" binding:"required"`
	Text    string            `json:"text" binding:"required"`
	Level   string            `json:"level" binding:"required,oneof=basic medium hard"`
	Marks   float64           `json:"marks" binding:"required,gt=0"`
	Options []OptionCreateDTO `json:"options" binding:"omitempty,dive"`
}

// GenerateQuestionsDTO asks the AI collaborator to draft multiple-choice
// pool questions for a topic. Drafts land in the practice pool; admins review
// them before curating any into a formal test.
type GenerateQuestionsDTO struct {
	Level string  `json:"level" binding:"required,oneof=basic medium hard"`
	Count int     `json:"count" binding:"required,min=1,max=20"`
	Marks float64 `json:"marks" binding:"omitempty,gt=0"`
}
