package dto

// CreateAttemptRequest starts an attempt. Formal attempts reference a test;
// practice attempts name a topic and level and let the selector assemble the
// question set. Exactly one of the two shapes must be provided.
type CreateAttemptRequest struct {
	TestID  *uint   `json:"test_id"`
	TopicID *uint   `json:"topic_id"`
	Level   *string `json:"level" binding:"omitempty,oneof=basic medium hard"`
}

// RecordAnswerRequest upserts one answer. MCQ attempts set SelectedOptionID;
// free-text attempts set Response.
type RecordAnswerRequest struct {
	QuestionID       uint   `json:"question_id" binding:"required"`
	SelectedOptionID *uint  `json:"selected_option_id"`
	Response         string `json:"response"`
}

// SubmitAttemptRequest finalizes an attempt. Trigger defaults to manual.
type SubmitAttemptRequest struct {
	Trigger string `json:"trigger" binding:"omitempty,oneof=manual timeout unload"`
}
