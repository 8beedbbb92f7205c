package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ankit-karki-11/smarttest/config"
	"github.com/ankit-karki-11/smarttest/internal/apperr"
	"github.com/ankit-karki-11/smarttest/internal/dto"
	"github.com/ankit-karki-11/smarttest/internal/model"
	"github.com/ankit-karki-11/smarttest/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testClock is a controllable time source shared with the service under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(start time.Time) *testClock {
	return &testClock{now: start}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func engineConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Engine.SubmitGraceSeconds = 30
	cfg.Engine.SweepIntervalSeconds = 15
	cfg.Engine.PracticeQuestionCount = 5
	cfg.Engine.PracticeTimeLimitMinutes = 10
	cfg.Engine.PracticePassPercent = 60
	return cfg
}

func newTestAttemptService(t *testing.T, db *gorm.DB, grading GradingService, clock *testClock) AttemptService {
	t.Helper()
	return newSharedLockAttemptService(t, db, grading, clock, NewAttemptLocks())
}

func newSharedLockAttemptService(t *testing.T, db *gorm.DB, grading GradingService, clock *testClock, locks *AttemptLocks) AttemptService {
	t.Helper()
	svc := NewAttemptService(
		db,
		repository.NewAttemptRepository(db),
		repository.NewAnswerRepository(db),
		repository.NewTestRepository(db),
		NewQuestionSelectorService(repository.NewQuestionRepository(db)),
		NewScoringService(grading),
		grading,
		engineConfig(),
		locks,
	)
	if clock != nil {
		svc.(*attemptService).now = clock.Now
	}
	return svc
}

// answerAll records the correct option for the first n questions of the
// attempt, directly through the repository.
func answerAll(t *testing.T, db *gorm.DB, state *dto.AttemptStateDTO, n int) {
	t.Helper()
	answerRepo := repository.NewAnswerRepository(db)
	for i, q := range state.Questions {
		if i >= n {
			break
		}
		// The seed helpers always create the correct option first.
		id := q.Options[0].ID
		require.NoError(t, answerRepo.Upsert(&model.Answer{
			AttemptID:        state.ID,
			QuestionID:       q.ID,
			SelectedOptionID: &id,
			Answered:         true,
		}))
	}
}

func TestCreateFormalAttempt(t *testing.T) {
	db := setupTestDB(t)
	test := seedMCQTest(t, db, 4, 30)
	clock := newTestClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := newTestAttemptService(t, db, &stubGradingService{}, clock)

	state, err := svc.CreateAttempt(7, dto.CreateAttemptRequest{TestID: &test.ID})
	require.NoError(t, err)

	assert.Equal(t, model.OriginFormal, state.Origin)
	assert.Equal(t, model.ModeMCQ, state.Mode)
	assert.Equal(t, model.AttemptInProgress, state.Status)
	assert.Equal(t, clock.Now().Add(30*time.Minute), state.Deadline)
	assert.Equal(t, int64(30*60), state.TimeRemainingSeconds)
	assert.Len(t, state.Questions, 4)
}

func TestCreateAttemptRejectsAmbiguousSource(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAttemptService(t, db, &stubGradingService{}, nil)

	testID, topicID := uint(1), uint(2)
	_, err := svc.CreateAttempt(7, dto.CreateAttemptRequest{TestID: &testID, TopicID: &topicID})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.CreateAttempt(7, dto.CreateAttemptRequest{})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestCreateAttemptDuplicateActiveRejected(t *testing.T) {
	db := setupTestDB(t)
	test := seedMCQTest(t, db, 3, 30)
	svc := newTestAttemptService(t, db, &stubGradingService{}, nil)

	_, err := svc.CreateAttempt(7, dto.CreateAttemptRequest{TestID: &test.ID})
	require.NoError(t, err)

	_, err = svc.CreateAttempt(7, dto.CreateAttemptRequest{TestID: &test.ID})
	assert.True(t, errors.Is(err, apperr.ErrDuplicateActiveAttempt))

	// A different student is unaffected.
	_, err = svc.CreateAttempt(8, dto.CreateAttemptRequest{TestID: &test.ID})
	assert.NoError(t, err)
}

func TestCreatePracticeAttemptUsesEngineDefaults(t *testing.T) {
	db := setupTestDB(t)
	topicID := seedPool(t, db, 12, model.LevelMedium)
	clock := newTestClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := newTestAttemptService(t, db, &stubGradingService{}, clock)

	state, err := svc.CreateAttempt(7, dto.CreateAttemptRequest{TopicID: &topicID})
	require.NoError(t, err)

	assert.Equal(t, model.OriginPractice, state.Origin)
	assert.Equal(t, model.ModeMCQ, state.Mode)
	assert.Len(t, state.Questions, 5)
	assert.Equal(t, int64(10*60), state.TimeRemainingSeconds)
}

func TestGetAttemptTimeRemainingClampedToZero(t *testing.T) {
	db := setupTestDB(t)
	test := seedMCQTest(t, db, 2, 10)
	clock := newTestClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := newTestAttemptService(t, db, &stubGradingService{}, clock)

	state, err := svc.CreateAttempt(7, dto.CreateAttemptRequest{TestID: &test.ID})
	require.NoError(t, err)

	clock.Advance(25 * time.Minute)
	state, err = svc.GetAttempt(7, state.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), state.TimeRemainingSeconds)
	assert.Equal(t, model.AttemptInProgress, state.Status, "expiry alone does not change status")
}

func TestSubmitScoresAndIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	test := seedMCQTest(t, db, 4, 30)
	clock := newTestClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := newTestAttemptService(t, db, &stubGradingService{}, clock)

	state, err := svc.CreateAttempt(7, dto.CreateAttemptRequest{TestID: &test.ID})
	require.NoError(t, err)
	answerAll(t, db, state, 3)

	clock.Advance(5 * time.Minute)
	result, err := svc.Submit(7, state.ID, model.TriggerManual)
	require.NoError(t, err)

	assert.Equal(t, model.AttemptSubmitted, result.Status)
	assert.Equal(t, 3.0, result.TotalScore)
	assert.Equal(t, 4.0, result.MaxScore)
	assert.True(t, result.Passed)
	assert.False(t, result.Late)
	assert.Equal(t, model.TriggerManual, result.SubmitTrigger)
	require.Len(t, result.Questions, 4)

	unanswered := result.Questions[3]
	assert.False(t, unanswered.Answered)
	assert.Equal(t, 0.0, unanswered.ScoredMarks)
	require.NotNil(t, result.Questions[0].CorrectOptionID, "answer key is revealed after submission")

	// Submitting again, even with a different trigger, returns the stored
	// result unchanged.
	clock.Advance(time.Hour)
	again, err := svc.Submit(7, state.ID, model.TriggerTimeout)
	require.NoError(t, err)
	assert.Equal(t, result.TotalScore, again.TotalScore)
	assert.Equal(t, model.TriggerManual, again.SubmitTrigger)
	require.NotNil(t, again.CompletedAt)
	assert.True(t, result.CompletedAt.Equal(*again.CompletedAt))
}

func TestSubmitLateManualAcceptedAndMarked(t *testing.T) {
	db := setupTestDB(t)
	test := seedMCQTest(t, db, 2, 10)
	clock := newTestClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := newTestAttemptService(t, db, &stubGradingService{}, clock)

	state, err := svc.CreateAttempt(7, dto.CreateAttemptRequest{TestID: &test.ID})
	require.NoError(t, err)
	answerAll(t, db, state, 2)

	clock.Advance(11 * time.Minute)
	result, err := svc.Submit(7, state.ID, model.TriggerManual)
	require.NoError(t, err)
	assert.True(t, result.Late)
	assert.Equal(t, 2.0, result.TotalScore, "answers on file still count")
}

func TestSubmitTimeoutTriggerIsNotLate(t *testing.T) {
	db := setupTestDB(t)
	test := seedMCQTest(t, db, 2, 10)
	clock := newTestClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := newTestAttemptService(t, db, &stubGradingService{}, clock)

	state, err := svc.CreateAttempt(7, dto.CreateAttemptRequest{TestID: &test.ID})
	require.NoError(t, err)

	clock.Advance(12 * time.Minute)
	result, err := svc.Submit(7, state.ID, model.TriggerTimeout)
	require.NoError(t, err)
	assert.False(t, result.Late, "late only applies to manual submits")
	assert.Equal(t, model.TriggerTimeout, result.SubmitTrigger)
}

func TestSubmitOwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	test := seedMCQTest(t, db, 2, 10)
	svc := newTestAttemptService(t, db, &stubGradingService{}, nil)

	state, err := svc.CreateAttempt(7, dto.CreateAttemptRequest{TestID: &test.ID})
	require.NoError(t, err)

	_, err = svc.Submit(8, state.ID, model.TriggerManual)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = svc.GetResults(8, state.ID)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))
}

func TestGetResultsPendingUntilSubmitted(t *testing.T) {
	db := setupTestDB(t)
	test := seedMCQTest(t, db, 2, 10)
	svc := newTestAttemptService(t, db, &stubGradingService{}, nil)

	state, err := svc.CreateAttempt(7, dto.CreateAttemptRequest{TestID: &test.ID})
	require.NoError(t, err)

	_, err = svc.GetResults(7, state.ID)
	assert.True(t, errors.Is(err, apperr.ErrResultsPending))

	_, err = svc.Submit(7, state.ID, model.TriggerManual)
	require.NoError(t, err)

	result, err := svc.GetResults(7, state.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptSubmitted, result.Status)
}

func TestConcurrentSubmitsScoreExactlyOnce(t *testing.T) {
	db := setupTestDB(t)
	test := seedMCQTest(t, db, 3, 10)
	clock := newTestClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := newTestAttemptService(t, db, &stubGradingService{}, clock)

	state, err := svc.CreateAttempt(7, dto.CreateAttemptRequest{TestID: &test.ID})
	require.NoError(t, err)
	answerAll(t, db, state, 3)
	clock.Advance(10 * time.Minute)

	var wg sync.WaitGroup
	results := make([]*dto.AttemptResultDTO, 2)
	errs := make([]error, 2)
	triggers := []string{model.TriggerManual, model.TriggerTimeout}
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Submit(7, state.ID, triggers[i])
		}(i)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	// Both callers see the same stored result; whichever won fixed the
	// trigger for both.
	assert.Equal(t, results[0].SubmitTrigger, results[1].SubmitTrigger)
	assert.Equal(t, results[0].TotalScore, results[1].TotalScore)
	require.NotNil(t, results[0].CompletedAt)
	require.NotNil(t, results[1].CompletedAt)
	assert.True(t, results[0].CompletedAt.Equal(*results[1].CompletedAt))

	var count int64
	require.NoError(t, db.Model(&model.Attempt{}).
		Where("id = ? AND status = ?", state.ID, model.AttemptSubmitted).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestExpireOverdueHonorsGraceWindow(t *testing.T) {
	db := setupTestDB(t)
	test := seedMCQTest(t, db, 2, 10)
	clock := newTestClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := newTestAttemptService(t, db, &stubGradingService{}, clock)

	state, err := svc.CreateAttempt(7, dto.CreateAttemptRequest{TestID: &test.ID})
	require.NoError(t, err)
	answerAll(t, db, state, 1)

	// Deadline passed but still inside the grace window: the sweeper waits.
	clock.Advance(10*time.Minute + 10*time.Second)
	closed, err := svc.ExpireOverdue()
	require.NoError(t, err)
	assert.Zero(t, closed)

	// Past the grace window the sweeper closes it with the timeout trigger.
	clock.Advance(30 * time.Second)
	closed, err = svc.ExpireOverdue()
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	result, err := svc.GetResults(7, state.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TriggerTimeout, result.SubmitTrigger)
	assert.False(t, result.Late)
	assert.Equal(t, 1.0, result.TotalScore)

	// Nothing left to sweep.
	closed, err = svc.ExpireOverdue()
	require.NoError(t, err)
	assert.Zero(t, closed)
}

func TestSubmitFreeTextStoresCommentsAndFeedback(t *testing.T) {
	db := setupTestDB(t)
	clock := newTestClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	topic := model.Topic{Title: "Essay topic"}
	require.NoError(t, db.Create(&topic).Error)
	test := model.Test{
		Title:            "Essay test",
		TopicID:          topic.ID,
		Level:            model.LevelMedium,
		Mode:             model.ModeFreeText,
		TimeLimitMinutes: 20,
		PassPercent:      60,
		Questions: []model.Question{
			{TopicID: topic.ID, Text: "Explain A", Level: model.LevelMedium, Marks: 2, OrderInTest: 1},
			{TopicID: topic.ID, Text: "Explain B", Level: model.LevelMedium, Marks: 2, OrderInTest: 2},
		},
	}
	require.NoError(t, db.Create(&test).Error)

	grader := &stubGradingService{
		scores:   map[string]float64{"strong answer": 2, "weak answer": 1},
		comments: map[string]string{"strong answer": "Well argued.", "weak answer": "Needs evidence."},
		feedback: "Solid grasp of A; revise B.",
	}
	svc := newTestAttemptService(t, db, grader, clock)

	state, err := svc.CreateAttempt(7, dto.CreateAttemptRequest{TestID: &test.ID})
	require.NoError(t, err)

	answerRepo := repository.NewAnswerRepository(db)
	require.NoError(t, answerRepo.Upsert(&model.Answer{
		AttemptID: state.ID, QuestionID: state.Questions[0].ID, Response: "strong answer", Answered: true,
	}))
	require.NoError(t, answerRepo.Upsert(&model.Answer{
		AttemptID: state.ID, QuestionID: state.Questions[1].ID, Response: "weak answer", Answered: true,
	}))

	result, err := svc.Submit(7, state.ID, model.TriggerManual)
	require.NoError(t, err)

	assert.Equal(t, 3.0, result.TotalScore)
	assert.True(t, result.Passed)
	assert.Equal(t, "Solid grasp of A; revise B.", result.Feedback)
	require.NotNil(t, result.Questions[0].AIComment)
	assert.Equal(t, "Well argued.", *result.Questions[0].AIComment)
	assert.Nil(t, result.Questions[0].CorrectOptionID)
}

func TestSubmitPersistsUnansweredRowsAsUnanswered(t *testing.T) {
	db := setupTestDB(t)
	test := seedMCQTest(t, db, 3, 30)
	clock := newTestClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := newTestAttemptService(t, db, &stubGradingService{}, clock)

	state, err := svc.CreateAttempt(7, dto.CreateAttemptRequest{TestID: &test.ID})
	require.NoError(t, err)

	// Submit without recording anything.
	result, err := svc.Submit(7, state.ID, model.TriggerManual)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.TotalScore)
	assert.False(t, result.Passed)
	require.Len(t, result.Questions, 3)
	for _, q := range result.Questions {
		assert.False(t, q.Answered)
		assert.Equal(t, 0.0, q.ScoredMarks)
	}

	// The flag must survive the insert, not just the in-memory outcome.
	var rows []model.Answer
	require.NoError(t, db.Where("attempt_id = ?", state.ID).Find(&rows).Error)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.False(t, row.Answered)
	}
}

func TestSubmitReleasesAttemptLock(t *testing.T) {
	db := setupTestDB(t)
	test := seedMCQTest(t, db, 2, 30)
	clock := newTestClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := newTestAttemptService(t, db, &stubGradingService{}, clock)

	state, err := svc.CreateAttempt(7, dto.CreateAttemptRequest{TestID: &test.ID})
	require.NoError(t, err)
	answerAll(t, db, state, 2)

	_, err = svc.Submit(7, state.ID, model.TriggerManual)
	require.NoError(t, err)

	_, held := svc.(*attemptService).locks.m.Load(state.ID)
	assert.False(t, held, "lock entry survives past submission")

	// A repeat submit still resolves through the stored result.
	again, err := svc.Submit(7, state.ID, model.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 2.0, again.TotalScore)
	_, held = svc.(*attemptService).locks.m.Load(state.ID)
	assert.False(t, held)
}
