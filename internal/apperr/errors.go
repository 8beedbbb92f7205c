// Package apperr holds the engine's sentinel errors. Services wrap these with
// context via fmt.Errorf("…: %w", err); controllers match with errors.Is and
// map them to HTTP statuses.
package apperr

import "errors"

var (
	// ErrValidation covers malformed references: a question outside the
	// attempt's snapshot, an option that does not belong to the question, a
	// level that does not exist. Never retried.
	ErrValidation = errors.New("validation failed")

	// ErrAttemptClosed is returned when writing answers to a finalized
	// attempt. Submit itself treats a closed attempt as idempotent success
	// instead.
	ErrAttemptClosed = errors.New("attempt already submitted")

	// ErrInsufficientQuestions means the topic/level pool is smaller than the
	// requested practice set. No attempt is created.
	ErrInsufficientQuestions = errors.New("not enough questions in pool")

	// ErrGradingUnavailable marks a failed call to the AI grading
	// collaborator. Recovered locally: the answer scores 0 and is flagged for
	// manual review; submission itself never fails on it.
	ErrGradingUnavailable = errors.New("grading service unavailable")

	// ErrDuplicateActiveAttempt enforces the one-open-attempt-per-test policy.
	ErrDuplicateActiveAttempt = errors.New("an attempt on this test is already in progress")

	// ErrResultsPending guards the results endpoint until the attempt is
	// submitted and scored.
	ErrResultsPending = errors.New("results pending until attempt is submitted")

	ErrAttemptNotFound = errors.New("attempt not found")
	ErrTestNotFound    = errors.New("test not found")
	ErrTopicNotFound   = errors.New("topic not found")
	ErrForbidden       = errors.New("not the owner of this attempt")
)
