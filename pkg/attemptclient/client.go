// Package attemptclient is a small client for the attempt engine meant for
// test-taking frontends and integration tests. It mirrors the behavior a
// browser session has to implement: seed a local countdown from the server's
// remaining time, auto-submit with the timeout trigger when it expires, and
// fire a best-effort unload submit when the session is abandoned.
package attemptclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Submit triggers, mirroring the server's vocabulary.
const (
	TriggerManual  = "manual"
	TriggerTimeout = "timeout"
	TriggerUnload  = "unload"
)

// Client talks to one attempt engine instance on behalf of one student.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	now     func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client, e.g. for custom timeouts.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// New returns a client for the engine at baseURL (e.g. "http://host:8080")
// authenticating with the given bearer token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response from the engine.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("attempt engine returned %d: %s", e.StatusCode, e.Message)
}

// Option as shown to the student, without a correctness flag.
type OptionView struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type QuestionView struct {
	ID      uint         `json:"id"`
	Text    string       `json:"text"`
	Marks   float64      `json:"marks"`
	Options []OptionView `json:"options"`
}

type RecordedAnswer struct {
	QuestionID       uint   `json:"question_id"`
	SelectedOptionID *uint  `json:"selected_option_id,omitempty"`
	Response         string `json:"response,omitempty"`
}

// AttemptState is the live view of an open attempt.
type AttemptState struct {
	ID                   uint             `json:"id"`
	Origin               string           `json:"origin"`
	Mode                 string           `json:"mode"`
	Status               string           `json:"status"`
	StartedAt            time.Time        `json:"started_at"`
	Deadline             time.Time        `json:"deadline"`
	TimeRemainingSeconds int64            `json:"time_remaining_seconds"`
	Questions            []QuestionView   `json:"questions"`
	Answers              []RecordedAnswer `json:"answers"`
}

type QuestionResult struct {
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

// Result is the stored outcome of a submitted attempt.
type Result struct {
	ID            uint             `json:"id"`
	Status        string           `json:"status"`
	TotalScore    float64          `json:"total_score"`
	MaxScore      float64          `json:"max_score"`
	PassPercent   float64          `json:"pass_percent"`
	Passed        bool             `json:"passed"`
	Late          bool             `json:"late"`
	SubmitTrigger string           `json:"submit_trigger"`
	Feedback      string           `json:"feedback,omitempty"`
	Questions     []QuestionResult `json:"questions"`
}

type createAttemptRequest struct {
	TestID  *uint   `json:"test_id,omitempty"`
	TopicID *uint   `json:"topic_id,omitempty"`
	Level   *string `json:"level,omitempty"`
}

type recordAnswerRequest struct {
	QuestionID       uint   `json:"question_id"`
	SelectedOptionID *uint  `json:"selected_option_id,omitempty"`
	Response         string `json:"response,omitempty"`
}

type submitRequest struct {
	Trigger string `json:"trigger"`
}

// StartFormal begins a formal attempt on the given test.
func (c *Client) StartFormal(ctx context.Context, testID uint) (*Session, error) {
	return c.start(ctx, createAttemptRequest{TestID: &testID})
}

// StartPractice begins a practice attempt drawn from a topic pool. Level may
// be empty; the server applies its default.
func (c *Client) StartPractice(ctx context.Context, topicID uint, level string) (*Session, error) {
	req := createAttemptRequest{TopicID: &topicID}
	if level != "" {
		req.Level = &level
	}
	return c.start(ctx, req)
}

func (c *Client) start(ctx context.Context, req createAttemptRequest) (*Session, error) {
	var state AttemptState
	if err := c.do(ctx, http.MethodPost, "/api/v1/attempts", req, http.StatusCreated, &state); err != nil {
		return nil, err
	}
	return c.newSession(&state), nil
}

// Resume reattaches to an existing attempt, e.g. after a page reload. The
// local countdown is reseeded from the server's remaining time, so a skewed
// client clock cannot buy extra time.
func (c *Client) Resume(ctx context.Context, attemptID uint) (*Session, error) {
	var state AttemptState
	path := fmt.Sprintf("/api/v1/attempts/%d", attemptID)
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &state); err != nil {
		return nil, err
	}
	return c.newSession(&state), nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, wantStatus int, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var errBody struct {
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &errBody) != nil || errBody.Message == "" {
			errBody.Message = string(raw)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
