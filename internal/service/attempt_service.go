package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/ankit-karki-11/smarttest/config"
	"github.com/ankit-karki-11/smarttest/internal/apperr"
	"github.com/ankit-karki-11/smarttest/internal/dto"
	"github.com/ankit-karki-11/smarttest/internal/model"
	"github.com/ankit-karki-11/smarttest/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SystemActor is the student id the deadline sweeper submits with. It bypasses
// the ownership check; no real user has id 0.
const SystemActor uint = 0

// AttemptService owns the attempt lifecycle: creation with a frozen question
// set and an immutable deadline, live state reads with server-authoritative
// remaining time, exactly-once submission, and the overdue sweep.
type AttemptService interface {
	CreateAttempt(studentID uint, req dto.CreateAttemptRequest) (*dto.AttemptStateDTO, error)
	GetAttempt(studentID, attemptID uint) (*dto.AttemptStateDTO, error)
	GetResults(studentID, attemptID uint) (*dto.AttemptResultDTO, error)
	// Submit finalizes the attempt. It is idempotent: submitting an already
	// submitted attempt returns the stored result unchanged, whatever the
	// trigger of either call.
	Submit(studentID, attemptID uint, trigger string) (*dto.AttemptResultDTO, error)
	ListAttempts(studentID, testID uint) ([]dto.AttemptSummaryDTO, error)
	// ExpireOverdue closes every in_progress attempt whose deadline plus the
	// configured grace window has passed, and returns how many it closed.
	ExpireOverdue() (int, error)
}

type attemptService struct {
	db          *gorm.DB
	attemptRepo repository.AttemptRepository
	answerRepo  repository.AnswerRepository
	testRepo    repository.TestRepository
	selector    QuestionSelectorService
	scoring     ScoringService
	grading     GradingService
	cfg         *config.Config

	// now is swappable in tests; everything time-related goes through it.
	now func() time.Time

	// locks is shared with the answer service so an answer write can never
	// land between a submit's answer load and its freeze transaction.
	locks *AttemptLocks
}

func NewAttemptService(
	db *gorm.DB,
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	testRepo repository.TestRepository,
	selector QuestionSelectorService,
	scoring ScoringService,
	grading GradingService,
	cfg *config.Config,
	locks *AttemptLocks,
) AttemptService {
	return &attemptService{
		db:          db,
		attemptRepo: attemptRepo,
		answerRepo:  answerRepo,
		testRepo:    testRepo,
		selector:    selector,
		scoring:     scoring,
		grading:     grading,
		cfg:         cfg,
		now:         time.Now,
		locks:       locks,
	}
}

func (s *attemptService) CreateAttempt(studentID uint, req dto.CreateAttemptRequest) (*dto.AttemptStateDTO, error) {
	switch {
	case req.TestID != nil && req.TopicID == nil:
		return s.createFormal(studentID, *req.TestID)
	case req.TestID == nil && req.TopicID != nil:
		return s.createPractice(studentID, req)
	default:
		return nil, fmt.Errorf("exactly one of test_id or topic_id must be set: %w", apperr.ErrValidation)
	}
}

func (s *attemptService) createFormal(studentID, testID uint) (*dto.AttemptStateDTO, error) {
	test, err := s.testRepo.FindByIDWithQuestions(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrTestNotFound
		}
		log.Error().Err(err).Uint("testID", testID).Msg("CreateAttempt: failed to load test")
		return nil, err
	}

	// One open attempt per student per test. The student must finish or let
	// the sweeper close the old one before starting again.
	if _, err := s.attemptRepo.FindActiveByStudentAndTest(studentID, testID); err == nil {
		return nil, apperr.ErrDuplicateActiveAttempt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := s.now()
	snapshot, err := s.selector.SelectFormal(test)
	if err != nil {
		return nil, err
	}

	attempt := &model.Attempt{
		StudentID:   studentID,
		Origin:      model.OriginFormal,
		Mode:        test.Mode,
		TestID:      &test.ID,
		TopicID:     &test.TopicID,
		Level:       &test.Level,
		Seed:        now.UnixNano(),
		Status:      model.AttemptInProgress,
		StartedAt:   now,
		Deadline:    now.Add(time.Duration(test.TimeLimitMinutes) * time.Minute),
		MaxScore:    sumMarks(snapshot),
		PassPercent: test.PassPercent,
	}
	if err := attempt.SetSnapshot(snapshot); err != nil {
		return nil, err
	}
	if err := s.attemptRepo.Create(attempt); err != nil {
		log.Error().Err(err).Uint("studentID", studentID).Uint("testID", testID).Msg("CreateAttempt: failed to persist attempt")
		return nil, err
	}
	attempt.Test = test

	log.Info().Uint("attemptID", attempt.ID).Uint("studentID", studentID).Uint("testID", testID).
		Time("deadline", attempt.Deadline).Msg("Formal attempt started")
	return s.buildState(attempt, nil, s.now())
}

func (s *attemptService) createPractice(studentID uint, req dto.CreateAttemptRequest) (*dto.AttemptStateDTO, error) {
	level := model.LevelMedium
	if req.Level != nil {
		level = *req.Level
	}

	now := s.now()
	seed := now.UnixNano()
	snapshot, err := s.selector.SelectPractice(*req.TopicID, level, s.cfg.Engine.PracticeQuestionCount, seed)
	if err != nil {
		return nil, err
	}

	attempt := &model.Attempt{
		StudentID:   studentID,
		Origin:      model.OriginPractice,
		Mode:        model.ModeMCQ,
		TopicID:     req.TopicID,
		Level:       &level,
		Seed:        seed,
		Status:      model.AttemptInProgress,
		StartedAt:   now,
		Deadline:    now.Add(time.Duration(s.cfg.Engine.PracticeTimeLimitMinutes) * time.Minute),
		MaxScore:    sumMarks(snapshot),
		PassPercent: s.cfg.Engine.PracticePassPercent,
	}
	if err := attempt.SetSnapshot(snapshot); err != nil {
		return nil, err
	}
	if err := s.attemptRepo.Create(attempt); err != nil {
		log.Error().Err(err).Uint("studentID", studentID).Uint("topicID", *req.TopicID).Msg("CreateAttempt: failed to persist practice attempt")
		return nil, err
	}

	log.Info().Uint("attemptID", attempt.ID).Uint("studentID", studentID).Uint("topicID", *req.TopicID).
		Str("level", level).Msg("Practice attempt started")
	return s.buildState(attempt, nil, s.now())
}

func (s *attemptService) GetAttempt(studentID, attemptID uint) (*dto.AttemptStateDTO, error) {
	attempt, err := s.loadOwned(studentID, attemptID)
	if err != nil {
		return nil, err
	}
	answers, err := s.answerRepo.FindByAttempt(attempt.ID)
	if err != nil {
		return nil, err
	}
	return s.buildState(attempt, answers, s.now())
}

func (s *attemptService) GetResults(studentID, attemptID uint) (*dto.AttemptResultDTO, error) {
	attempt, err := s.loadOwned(studentID, attemptID)
	if err != nil {
		return nil, err
	}
	if !attempt.IsSubmitted() {
		return nil, apperr.ErrResultsPending
	}
	return s.buildResult(attempt)
}

func (s *attemptService) Submit(studentID, attemptID uint, trigger string) (*dto.AttemptResultDTO, error) {
	if trigger == "" {
		trigger = model.TriggerManual
	}
	switch trigger {
	case model.TriggerManual, model.TriggerTimeout, model.TriggerUnload:
	default:
		return nil, fmt.Errorf("unknown submit trigger %q: %w", trigger, apperr.ErrValidation)
	}

	mu := s.locks.lock(attemptID)
	mu.Lock()
	defer mu.Unlock()

	attempt, err := s.loadOwned(studentID, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.IsSubmitted() {
		s.locks.forget(attemptID)
		return s.buildResult(attempt)
	}

	now := s.now()
	// A manual submit after the deadline is still accepted but marked late;
	// the sweeper may simply not have run yet.
	late := trigger == model.TriggerManual && now.After(attempt.Deadline)

	answers, err := s.answerRepo.FindByAttempt(attempt.ID)
	if err != nil {
		return nil, err
	}

	// Scoring (including AI grading calls) happens before the freeze
	// transaction so no network call ever runs inside it. If we crash here
	// the attempt stays in_progress and a retry is safe.
	outcome, err := s.scoring.Score(attempt, answers)
	if err != nil {
		return nil, err
	}

	feedback := s.generateFeedback(attempt, outcome)

	test := attempt.Test
	err = s.db.Transaction(func(tx *gorm.DB) error {
		locked, err := s.attemptRepo.FindByIDForUpdate(tx, attempt.ID)
		if err != nil {
			return err
		}
		if locked.IsSubmitted() {
			// Another writer won the race; discard our computation and
			// surface the stored result.
			attempt = locked
			return nil
		}

		completed := now
		trig := trigger
		passed := outcome.Passed
		locked.Status = model.AttemptSubmitted
		locked.CompletedAt = &completed
		locked.TotalScore = &outcome.TotalScore
		locked.MaxScore = outcome.MaxScore
		locked.Passed = &passed
		locked.Late = late
		locked.SubmitTrigger = &trig
		locked.Feedback = feedback

		for i := range outcome.Answers {
			outcome.Answers[i].AttemptID = locked.ID
			if err := tx.Save(&outcome.Answers[i]).Error; err != nil {
				return err
			}
		}
		if err := tx.Save(locked).Error; err != nil {
			return err
		}
		attempt = locked
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Str("trigger", trigger).Msg("Submit: freeze transaction failed")
		return nil, err
	}
	attempt.Test = test
	s.locks.forget(attemptID)

	log.Info().Uint("attemptID", attempt.ID).Str("trigger", trigger).Bool("late", attempt.Late).
		Float64("totalScore", derefFloat(attempt.TotalScore)).Msg("Attempt submitted")
	return s.buildResult(attempt)
}

func (s *attemptService) ListAttempts(studentID, testID uint) ([]dto.AttemptSummaryDTO, error) {
	attempts, err := s.attemptRepo.FindAllByTestAndStudent(testID, studentID)
	if err != nil {
		return nil, err
	}
	summaries := make([]dto.AttemptSummaryDTO, len(attempts))
	for i, a := range attempts {
		summaries[i] = dto.AttemptSummaryDTO{
			ID:          a.ID,
			TestID:      a.TestID,
			Status:      a.Status,
			StartedAt:   a.StartedAt,
			CompletedAt: a.CompletedAt,
			TotalScore:  a.TotalScore,
			Passed:      a.Passed,
			Late:        a.Late,
		}
	}
	return summaries, nil
}

func (s *attemptService) ExpireOverdue() (int, error) {
	grace := time.Duration(s.cfg.Engine.SubmitGraceSeconds) * time.Second
	cutoff := s.now().Add(-grace)

	overdue, err := s.attemptRepo.FindOverdue(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("ExpireOverdue: failed to list overdue attempts")
		return 0, err
	}

	closed := 0
	for _, a := range overdue {
		if _, err := s.Submit(SystemActor, a.ID, model.TriggerTimeout); err != nil {
			log.Error().Err(err).Uint("attemptID", a.ID).Msg("ExpireOverdue: failed to close attempt")
			continue
		}
		closed++
	}
	if closed > 0 {
		log.Info().Int("closed", closed).Msg("ExpireOverdue: closed overdue attempts")
	}
	return closed, nil
}

// loadOwned fetches the attempt and enforces ownership. SystemActor skips the
// ownership check.
func (s *attemptService) loadOwned(studentID, attemptID uint) (*model.Attempt, error) {
	attempt, err := s.attemptRepo.FindByIDWithTest(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrAttemptNotFound
		}
		return nil, err
	}
	if studentID != SystemActor && attempt.StudentID != studentID {
		return nil, apperr.ErrForbidden
	}
	return attempt, nil
}

// generateFeedback asks the AI collaborator for an end-of-test summary on
// free-text attempts. Feedback is best-effort: a failure degrades to an empty
// string and never blocks submission.
func (s *attemptService) generateFeedback(attempt *model.Attempt, outcome *ScoreOutcome) string {
	if attempt.Mode != model.ModeFreeText || outcome.GradingFailures > 0 {
		return ""
	}

	snapshot, err := attempt.Snapshot()
	if err != nil {
		return ""
	}
	byQuestion := make(map[uint]model.Answer, len(outcome.Answers))
	for _, a := range outcome.Answers {
		byQuestion[a.QuestionID] = a
	}

	title := "Practice"
	if attempt.Test != nil {
		title = attempt.Test.Title
	}

	reviews := make([]AnswerReview, 0, len(snapshot))
	for _, q := range snapshot {
		a := byQuestion[q.ID]
		reviews = append(reviews, AnswerReview{
			QuestionText: q.Text,
			Response:     a.Response,
			ScoredMarks:  derefFloat(a.ScoredMarks),
			MaxMarks:     q.Marks,
		})
	}

	feedback, err := s.grading.GenerateFeedback(title, reviews)
	if err != nil {
		log.Warn().Err(err).Uint("attemptID", attempt.ID).Msg("Submit: feedback generation failed, continuing without feedback")
		return ""
	}
	return feedback
}

func (s *attemptService) buildState(attempt *model.Attempt, answers []model.Answer, now time.Time) (*dto.AttemptStateDTO, error) {
	snapshot, err := attempt.Snapshot()
	if err != nil {
		return nil, err
	}

	questions := make([]dto.QuestionPublicDTO, len(snapshot))
	for i, q := range snapshot {
		pub := dto.QuestionPublicDTO{ID: q.ID, Text: q.Text, Marks: q.Marks}
		// is_correct never leaves the server while the attempt is open.
		for _, opt := range q.Options {
			pub.Options = append(pub.Options, dto.OptionPublicDTO{ID: opt.ID, Text: opt.Text})
		}
		questions[i] = pub
	}

	recorded := make([]dto.RecordedAnswerDTO, 0, len(answers))
	for _, a := range answers {
		recorded = append(recorded, dto.RecordedAnswerDTO{
			QuestionID:       a.QuestionID,
			SelectedOptionID: a.SelectedOptionID,
			Response:         a.Response,
		})
	}

	state := &dto.AttemptStateDTO{
		ID:                   attempt.ID,
		Origin:               attempt.Origin,
		Mode:                 attempt.Mode,
		TestID:               attempt.TestID,
		Status:               attempt.Status,
		StartedAt:            attempt.StartedAt,
		Deadline:             attempt.Deadline,
		TimeRemainingSeconds: int64(attempt.TimeRemaining(now) / time.Second),
		Questions:            questions,
		Answers:              recorded,
	}
	if attempt.Test != nil {
		state.TestTitle = attempt.Test.Title
	}
	return state, nil
}

func (s *attemptService) buildResult(attempt *model.Attempt) (*dto.AttemptResultDTO, error) {
	snapshot, err := attempt.Snapshot()
	if err != nil {
		return nil, err
	}
	answers, err := s.answerRepo.FindByAttempt(attempt.ID)
	if err != nil {
		return nil, err
	}
	byQuestion := make(map[uint]model.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	questions := make([]dto.QuestionResultDTO, len(snapshot))
	for i, q := range snapshot {
		a := byQuestion[q.ID]
		res := dto.QuestionResultDTO{
			QuestionID:       q.ID,
			Text:             q.Text,
			Marks:            q.Marks,
			Answered:         a.Answered,
			SelectedOptionID: a.SelectedOptionID,
			Response:         a.Response,
			ScoredMarks:      derefFloat(a.ScoredMarks),
			AIComment:        a.AIComment,
			NeedsReview:      a.NeedsReview,
		}
		for _, opt := range q.Options {
			if opt.IsCorrect {
				id := opt.ID
				res.CorrectOptionID = &id
				break
			}
		}
		questions[i] = res
	}

	result := &dto.AttemptResultDTO{
		ID:          attempt.ID,
		TestID:      attempt.TestID,
		Origin:      attempt.Origin,
		Mode:        attempt.Mode,
		Status:      attempt.Status,
		CompletedAt: attempt.CompletedAt,
		TotalScore:  derefFloat(attempt.TotalScore),
		MaxScore:    attempt.MaxScore,
		PassPercent: attempt.PassPercent,
		Passed:      attempt.Passed != nil && *attempt.Passed,
		Late:        attempt.Late,
		Feedback:    attempt.Feedback,
		Questions:   questions,
	}
	if attempt.SubmitTrigger != nil {
		result.SubmitTrigger = *attempt.SubmitTrigger
	}
	if attempt.Test != nil {
		result.TestTitle = attempt.Test.Title
	}
	return result, nil
}

func sumMarks(snapshot []model.SnapshotQuestion) float64 {
	total := 0.0
	for _, q := range snapshot {
		total += q.Marks
	}
	return total
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
