package service

import (
	"fmt"
	"time"

	"github.com/ankit-karki-11/smarttest/config"
	"github.com/ankit-karki-11/smarttest/internal/apperr"
	"github.com/ankit-karki-11/smarttest/internal/dto"
	"github.com/ankit-karki-11/smarttest/internal/model"
	"github.com/ankit-karki-11/smarttest/internal/repository"
	"github.com/rs/zerolog/log"
)

// AnswerService records answers on an open attempt. Re-recording the same
// question replaces the stored value, so the request is safe to retry.
type AnswerService interface {
	RecordAnswer(studentID, attemptID uint, req dto.RecordAnswerRequest) (*dto.RecordedAnswerDTO, error)
}

type answerService struct {
	attemptRepo repository.AttemptRepository
	answerRepo  repository.AnswerRepository
	cfg         *config.Config
	now         func() time.Time
	locks       *AttemptLocks
}

func NewAnswerService(attemptRepo repository.AttemptRepository, answerRepo repository.AnswerRepository, cfg *config.Config, locks *AttemptLocks) AnswerService {
	return &answerService{
		attemptRepo: attemptRepo,
		answerRepo:  answerRepo,
		cfg:         cfg,
		now:         time.Now,
		locks:       locks,
	}
}

func (s *answerService) RecordAnswer(studentID, attemptID uint, req dto.RecordAnswerRequest) (*dto.RecordedAnswerDTO, error) {
	// Holding the attempt's lock keeps this write ordered against a submit in
	// flight: it runs either before the submit loads the answers or after the
	// attempt is marked submitted, never in between.
	mu := s.locks.lock(attemptID)
	mu.Lock()
	defer mu.Unlock()

	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		return nil, apperr.ErrAttemptNotFound
	}
	if attempt.StudentID != studentID {
		return nil, apperr.ErrForbidden
	}

	// Recording stays open through the submit grace window; past that the
	// attempt is as good as closed even if the sweeper has not run yet.
	grace := time.Duration(s.cfg.Engine.SubmitGraceSeconds) * time.Second
	if attempt.IsSubmitted() || s.now().After(attempt.Deadline.Add(grace)) {
		return nil, apperr.ErrAttemptClosed
	}

	question, err := s.snapshotQuestion(attempt, req.QuestionID)
	if err != nil {
		return nil, err
	}

	answer := &model.Answer{
		AttemptID:  attempt.ID,
		QuestionID: question.ID,
		Answered:   true,
	}
	switch attempt.Mode {
	case model.ModeMCQ:
		if req.SelectedOptionID == nil {
			return nil, fmt.Errorf("selected_option_id is required on an mcq attempt: %w", apperr.ErrValidation)
		}
		if !optionBelongs(question, *req.SelectedOptionID) {
			return nil, fmt.Errorf("option %d does not belong to question %d: %w", *req.SelectedOptionID, question.ID, apperr.ErrValidation)
		}
		answer.SelectedOptionID = req.SelectedOptionID
	case model.ModeFreeText:
		if req.Response == "" {
			return nil, fmt.Errorf("response is required on a free_text attempt: %w", apperr.ErrValidation)
		}
		answer.Response = req.Response
	default:
		return nil, fmt.Errorf("attempt %d has unknown mode %q", attempt.ID, attempt.Mode)
	}

	if err := s.answerRepo.Upsert(answer); err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Uint("questionID", question.ID).Msg("RecordAnswer: upsert failed")
		return nil, err
	}

	return &dto.RecordedAnswerDTO{
		QuestionID:       answer.QuestionID,
		SelectedOptionID: answer.SelectedOptionID,
		Response:         answer.Response,
	}, nil
}

// snapshotQuestion resolves the question inside the attempt's frozen set.
// Questions outside the snapshot are rejected even if they exist in the pool.
func (s *answerService) snapshotQuestion(attempt *model.Attempt, questionID uint) (*model.SnapshotQuestion, error) {
	snapshot, err := attempt.Snapshot()
	if err != nil {
		return nil, err
	}
	for i := range snapshot {
		if snapshot[i].ID == questionID {
			return &snapshot[i], nil
		}
	}
	return nil, fmt.Errorf("question %d is not part of attempt %d: %w", questionID, attempt.ID, apperr.ErrValidation)
}

func optionBelongs(q *model.SnapshotQuestion, optionID uint) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}
