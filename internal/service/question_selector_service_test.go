package service

import (
	"errors"
	"testing"

	"github.com/ankit-karki-11/smarttest/internal/apperr"
	"github.com/ankit-karki-11/smarttest/internal/model"
	"github.com/ankit-karki-11/smarttest/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectPracticeSameSeedSameSelection(t *testing.T) {
	db := setupTestDB(t)
	topicID := seedPool(t, db, 12, model.LevelMedium)
	selector := NewQuestionSelectorService(repository.NewQuestionRepository(db))

	first, err := selector.SelectPractice(topicID, model.LevelMedium, 5, 42)
	require.NoError(t, err)
	second, err := selector.SelectPractice(topicID, model.LevelMedium, 5, 42)
	require.NoError(t, err)

	require.Len(t, first, 5)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID, "same seed must reproduce the draw")
	}
}

func TestSelectPracticeDifferentSeedsDiffer(t *testing.T) {
	db := setupTestDB(t)
	topicID := seedPool(t, db, 30, model.LevelMedium)
	selector := NewQuestionSelectorService(repository.NewQuestionRepository(db))

	first, err := selector.SelectPractice(topicID, model.LevelMedium, 10, 1)
	require.NoError(t, err)
	second, err := selector.SelectPractice(topicID, model.LevelMedium, 10, 2)
	require.NoError(t, err)

	same := true
	for i := range first {
		if first[i].ID != second[i].ID {
			same = false
			break
		}
	}
	assert.False(t, same, "different seeds over a 30-question pool should not produce the same draw")
}

func TestSelectPracticeInsufficientPool(t *testing.T) {
	db := setupTestDB(t)
	topicID := seedPool(t, db, 3, model.LevelHard)
	selector := NewQuestionSelectorService(repository.NewQuestionRepository(db))

	_, err := selector.SelectPractice(topicID, model.LevelHard, 10, 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInsufficientQuestions))
}

func TestSelectPracticeLevelFilter(t *testing.T) {
	db := setupTestDB(t)
	topicID := seedPool(t, db, 8, model.LevelBasic)
	selector := NewQuestionSelectorService(repository.NewQuestionRepository(db))

	// The basic pool has 8 questions, so requesting 8 at a different level
	// must fail on the level filter alone.
	_, err := selector.SelectPractice(topicID, model.LevelHard, 8, 7)
	assert.True(t, errors.Is(err, apperr.ErrInsufficientQuestions))

	got, err := selector.SelectPractice(topicID, model.LevelBasic, 8, 7)
	require.NoError(t, err)
	assert.Len(t, got, 8)
}

func TestSelectPracticeSnapshotCarriesAnswerKey(t *testing.T) {
	db := setupTestDB(t)
	topicID := seedPool(t, db, 5, model.LevelMedium)
	selector := NewQuestionSelectorService(repository.NewQuestionRepository(db))

	snapshot, err := selector.SelectPractice(topicID, model.LevelMedium, 5, 99)
	require.NoError(t, err)

	for _, q := range snapshot {
		require.Len(t, q.Options, 4)
		correct := 0
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		assert.Equal(t, 1, correct, "snapshot must keep the answer key for grading")
	}
}

func TestSelectFormalKeepsAuthoredOrder(t *testing.T) {
	db := setupTestDB(t)
	test := seedMCQTest(t, db, 4, 30)

	loaded, err := repository.NewTestRepository(db).FindByIDWithQuestions(test.ID)
	require.NoError(t, err)

	selector := NewQuestionSelectorService(repository.NewQuestionRepository(db))
	snapshot, err := selector.SelectFormal(loaded)
	require.NoError(t, err)

	require.Len(t, snapshot, 4)
	for i, q := range snapshot {
		assert.Equal(t, loaded.Questions[i].ID, q.ID)
	}
}

func TestSelectFormalEmptyTestRejected(t *testing.T) {
	db := setupTestDB(t)
	selector := NewQuestionSelectorService(repository.NewQuestionRepository(db))

	_, err := selector.SelectFormal(&model.Test{ID: 1})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}
