package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ankit-karki-11/smarttest/config"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// AnswerGrader is the narrow view the scoring engine depends on. It grades a
// single free-text response against its question and mark ceiling.
type AnswerGrader interface {
	GradeAnswer(questionText, studentResponse string, maxMarks float64) (score float64, comment string, err error)
}

// AnswerReview is one graded question as handed to the feedback generator.
type AnswerReview struct {
	QuestionText string
	Response     string
	ScoredMarks  float64
	MaxMarks     float64
}

// GeneratedOption and GeneratedQuestion mirror the JSON the model is asked to
// emit when authoring pool questions.
type GeneratedOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type GeneratedQuestion struct {
	Text    string            `json:"text"`
	Options []GeneratedOption `json:"options"`
}

// GradingService is the full AI collaborator surface: per-answer grading,
// whole-attempt feedback, and pool question authoring.
type GradingService interface {
	AnswerGrader
	GenerateFeedback(testTitle string, reviews []AnswerReview) (string, error)
	GenerateQuestions(topic, level string, count int) ([]GeneratedQuestion, error)
}

type geminiGraderService struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewGeminiGraderService(cfg *config.Config) (GradingService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. GradingService will be non-functional.")
		return &geminiGraderService{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	return &geminiGraderService{client: model, cfg: cfg}, nil
}

// parseScoreAndComment extracts the "Score:" line and the "Feedback:" block
// from the model's response. The model is instructed to use exactly this
// layout but occasionally drifts, so parsing is tolerant of missing labels.
func parseScoreAndComment(rawResponse string) (scoreStr string, commentStr string, err error) {
	scorePrefix := "Score:"
	feedbackPrefix := "Feedback:"

	scoreIndex := strings.Index(rawResponse, scorePrefix)
	feedbackIndex := strings.Index(rawResponse, feedbackPrefix)

	if scoreIndex == -1 {
		return "", rawResponse, fmt.Errorf("response does not contain 'Score:' prefix. Raw: %s", rawResponse)
	}

	endOfScoreLine := strings.Index(rawResponse[scoreIndex:], "\n")
	if endOfScoreLine == -1 {
		scoreStr = strings.TrimSpace(rawResponse[scoreIndex+len(scorePrefix):])
	} else {
		scoreStr = strings.TrimSpace(rawResponse[scoreIndex+len(scorePrefix) : scoreIndex+endOfScoreLine])
	}

	if feedbackIndex != -1 && feedbackIndex > scoreIndex {
		commentStr = strings.TrimSpace(rawResponse[feedbackIndex+len(feedbackPrefix):])
	} else if endOfScoreLine != -1 && len(rawResponse) > scoreIndex+endOfScoreLine+1 {
		commentStr = strings.TrimSpace(rawResponse[scoreIndex+endOfScoreLine+1:])
	} else {
		commentStr = "Feedback not found in the expected format after the score."
	}

	// The score line sometimes carries trailing words; keep only the number.
	parts := strings.Fields(scoreStr)
	if len(parts) > 0 {
		scoreStr = parts[0]
	}

	return scoreStr, commentStr, nil
}

func (s *geminiGraderService) GradeAnswer(questionText, studentResponse string, maxMarks float64) (float64, string, error) {
	if s.client == nil {
		return 0.0, "", fmt.Errorf("gemini client not initialized")
	}

	ctx := context.Background()

	var prompt strings.Builder
	prompt.WriteString("You are an experienced examiner grading a student's written answer on a timed test.\n")
	prompt.WriteString("Grade strictly but fairly against the question below.\n\n")
	prompt.WriteString("Question:\n---\n")
	prompt.WriteString(questionText)
	prompt.WriteString("\n---\n\n")
	prompt.WriteString("Student's Answer:\n---\n")
	prompt.WriteString(studentResponse)
	prompt.WriteString("\n---\n\n")
	prompt.WriteString(fmt.Sprintf(`Evaluate the answer for factual correctness, completeness, and clarity.
Award a numerical score from 0.0 to %.1f. Partial credit is allowed.
An answer that is entirely wrong or off-topic scores 0.0.

Format your response strictly as:
Score: [Your Numerical Score Here]
Feedback:
[One or two sentences explaining the score, naming what was right and what was missing or wrong]
`, maxMarks))

	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error during answer grading")
		return 0.0, "", err
	}

	fullResponseText, err := candidateText(resp)
	if err != nil {
		return 0.0, "", err
	}

	scoreStr, comment, parseErr := parseScoreAndComment(fullResponseText)
	if parseErr != nil {
		log.Warn().Err(parseErr).Str("rawResponse", fullResponseText).Msg("Failed to parse score from Gemini response")
		return 0.0, "", parseErr
	}

	parsedScore, scoreErr := strconv.ParseFloat(strings.TrimSpace(scoreStr), 64)
	if scoreErr != nil {
		log.Warn().Err(scoreErr).Str("scoreStr", scoreStr).Msg("Failed to parse score string to float")
		return 0.0, "", fmt.Errorf("could not parse score value (%q) from AI response", scoreStr)
	}

	if parsedScore > maxMarks {
		parsedScore = maxMarks
	}
	if parsedScore < 0 {
		parsedScore = 0
	}

	return parsedScore, strings.TrimSpace(comment), nil
}

func (s *geminiGraderService) GenerateFeedback(testTitle string, reviews []AnswerReview) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	ctx := context.Background()

	var prompt strings.Builder
	prompt.WriteString("You are a tutor writing a short end-of-test summary for a student.\n")
	prompt.WriteString(fmt.Sprintf("The student just completed the test %q. Their graded answers follow.\n\n", testTitle))
	for i, r := range reviews {
		prompt.WriteString(fmt.Sprintf("Question %d (%.1f of %.1f marks):\n%s\n", i+1, r.ScoredMarks, r.MaxMarks, r.QuestionText))
		if r.Response == "" {
			prompt.WriteString("Student's answer: (left blank)\n\n")
		} else {
			prompt.WriteString(fmt.Sprintf("Student's answer: %s\n\n", r.Response))
		}
	}
	prompt.WriteString(`Write 3 to 5 sentences of constructive feedback for the student.
Name the topics they handled well and the topics they should revise.
Address the student directly. Do not repeat the scores back to them.
`)

	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		log.Error().Err(err).Str("testTitle", testTitle).Msg("Gemini API error during feedback generation")
		return "", err
	}

	feedback, err := candidateText(resp)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(feedback), nil
}

func (s *geminiGraderService) GenerateQuestions(topic, level string, count int) ([]GeneratedQuestion, error) {
	if s.client == nil {
		return nil, fmt.Errorf("gemini client not initialized")
	}

	ctx := context.Background()

	prompt := fmt.Sprintf(`You are an exam author. Write %d multiple-choice questions on the topic %q at %q difficulty.
Each question must have exactly 4 options with exactly one correct option.

Respond with a JSON array only, no prose and no markdown fences, in this shape:
[
  {
    "text": "the question text",
    "options": [
      {"text": "option text", "is_correct": true},
      {"text": "option text", "is_correct": false},
      {"text": "option text", "is_correct": false},
      {"text": "option text", "is_correct": false}
    ]
  }
]
`, count, topic, level)

	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Gemini API error during question generation")
		return nil, err
	}

	raw, err := candidateText(resp)
	if err != nil {
		return nil, err
	}

	// Strip markdown fences the model adds despite being told not to.
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var questions []GeneratedQuestion
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		log.Warn().Err(err).Str("rawResponse", raw).Msg("Failed to parse generated questions JSON")
		return nil, fmt.Errorf("could not parse generated questions: %w", err)
	}

	for i, q := range questions {
		correct := 0
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		if q.Text == "" || len(q.Options) < 2 || correct != 1 {
			return nil, fmt.Errorf("generated question %d is malformed (options=%d, correct=%d)", i+1, len(q.Options), correct)
		}
	}

	return questions, nil
}

func candidateText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response.")
		return "", fmt.Errorf("gemini returned no content")
	}

	text := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text += string(txt)
		}
	}
	if text == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return text, nil
}
