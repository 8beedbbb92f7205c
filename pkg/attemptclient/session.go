package attemptclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Session states. Transitions only move forward: active sessions finalize
// exactly once and every later submit path collapses into the stored result.
type State int

const (
	StateActive State = iota
	StateFinalizing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateFinalizing:
		return "finalizing"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrNotActive is returned for answer or submit calls on a session that has
// already finalized.
var ErrNotActive = errors.New("session is no longer active")

// Session is one live test-taking run. It owns a local countdown seeded from
// the server's remaining time and fires an automatic timeout submit when it
// expires. All methods are safe for concurrent use.
type Session struct {
	client *Client

	mu        sync.Mutex
	state     State
	attemptID uint
	questions []QuestionView
	// localDeadline is derived from the server's time_remaining_seconds at
	// session start, not from the server's absolute deadline, so client
	// clock skew does not matter.
	localDeadline time.Time
	timer         *time.Timer
	result        *Result
	onFinalized   func(*Result)
}

func (c *Client) newSession(state *AttemptState) *Session {
	s := &Session{
		client:        c,
		state:         StateActive,
		attemptID:     state.ID,
		questions:     state.Questions,
		localDeadline: c.now().Add(time.Duration(state.TimeRemainingSeconds) * time.Second),
	}
	if state.Status == "submitted" {
		s.state = StateClosed
	} else {
		s.timer = time.AfterFunc(s.localDeadline.Sub(c.now()), s.expire)
	}
	return s
}

// AttemptID returns the server-side attempt id.
func (s *Session) AttemptID() uint {
	return s.attemptID
}

// Questions returns the frozen question set for rendering.
func (s *Session) Questions() []QuestionView {
	return s.questions
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Remaining reports the local countdown, clamped to zero.
func (s *Session) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return 0
	}
	remaining := s.localDeadline.Sub(s.client.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// OnFinalized registers a callback invoked once the session finalizes with a
// stored result, whatever the trigger. Useful for rendering the result after
// an automatic timeout submit. If the session already finalized, the callback
// fires immediately.
func (s *Session) OnFinalized(fn func(*Result)) {
	s.mu.Lock()
	if s.state == StateClosed && s.result != nil {
		res := s.result
		s.mu.Unlock()
		fn(res)
		return
	}
	s.onFinalized = fn
	s.mu.Unlock()
}

// SelectOption records an MCQ answer. Recording the same question again
// replaces the previous choice.
func (s *Session) SelectOption(ctx context.Context, questionID, optionID uint) error {
	return s.record(ctx, recordAnswerRequest{QuestionID: questionID, SelectedOptionID: &optionID})
}

// WriteResponse records a free-text answer.
func (s *Session) WriteResponse(ctx context.Context, questionID uint, response string) error {
	return s.record(ctx, recordAnswerRequest{QuestionID: questionID, Response: response})
}

func (s *Session) record(ctx context.Context, req recordAnswerRequest) error {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return ErrNotActive
	}
	s.mu.Unlock()

	path := fmt.Sprintf("/api/v1/attempts/%d/answers", s.attemptID)
	err := s.client.do(ctx, http.MethodPost, path, req, http.StatusOK, nil)

	// A conflict means the server already closed the attempt (deadline sweep
	// won). Stop treating the session as active.
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
		s.mu.Lock()
		if s.state == StateActive {
			s.state = StateFinalizing
			s.stopTimerLocked()
		}
		s.mu.Unlock()
		return ErrNotActive
	}
	return err
}

// Submit finalizes the session with the manual trigger and returns the scored
// result. Submitting an already finalized session returns the stored result.
func (s *Session) Submit(ctx context.Context) (*Result, error) {
	return s.submit(ctx, TriggerManual)
}

func (s *Session) submit(ctx context.Context, trigger string) (*Result, error) {
	s.mu.Lock()
	switch s.state {
	case StateClosed:
		if s.result != nil {
			res := s.result
			s.mu.Unlock()
			return res, nil
		}
	case StateActive, StateFinalizing:
		s.state = StateFinalizing
		s.stopTimerLocked()
	}
	s.mu.Unlock()

	var result Result
	path := fmt.Sprintf("/api/v1/attempts/%d/submit", s.attemptID)
	err := s.client.do(ctx, http.MethodPost, path, submitRequest{Trigger: trigger}, http.StatusOK, &result)

	s.mu.Lock()
	if err != nil {
		// Leave the session in finalizing so a retry is possible; the server
		// submit is idempotent either way.
		s.mu.Unlock()
		return nil, err
	}
	s.state = StateClosed
	s.result = &result
	cb := s.onFinalized
	s.mu.Unlock()

	if cb != nil {
		cb(&result)
	}
	return &result, nil
}

// expire fires when the local countdown runs out: the session auto-submits
// with the timeout trigger, exactly like a browser whose timer hits zero.
func (s *Session) expire() {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	log.Info().Uint("attemptID", s.attemptID).Msg("Local countdown expired, auto-submitting")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := s.submit(ctx, TriggerTimeout); err != nil {
		log.Warn().Err(err).Uint("attemptID", s.attemptID).Msg("Timeout submit failed; server sweep will close the attempt")
	}
}

// Close abandons the session. An active session fires a best-effort unload
// submit in the background, mirroring a browser's beforeunload handler; the
// call itself never blocks on the network.
func (s *Session) Close() {
	s.mu.Lock()
	wasActive := s.state == StateActive
	if s.state != StateClosed {
		s.state = StateClosed
	}
	s.stopTimerLocked()
	s.mu.Unlock()

	if !wasActive {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		path := fmt.Sprintf("/api/v1/attempts/%d/submit", s.attemptID)
		if err := s.client.do(ctx, http.MethodPost, path, submitRequest{Trigger: TriggerUnload}, http.StatusOK, nil); err != nil {
			log.Debug().Err(err).Uint("attemptID", s.attemptID).Msg("Unload submit failed; server sweep will close the attempt")
		}
	}()
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
