package service

import (
	"fmt"
	"math/rand"

	"github.com/ankit-karki-11/smarttest/internal/apperr"
	"github.com/ankit-karki-11/smarttest/internal/model"
	"github.com/ankit-karki-11/smarttest/internal/repository"
	"github.com/rs/zerolog/log"
)

// QuestionSelectorService assembles the frozen question set for a new attempt.
// Formal tests return their authored questions in stored order; practice
// attempts draw a seeded random sample from the topic/level pool. The same
// seed always yields the same selection, which makes replays reproducible.
type QuestionSelectorService interface {
	SelectFormal(test *model.Test) ([]model.SnapshotQuestion, error)
	SelectPractice(topicID uint, level string, count int, seed int64) ([]model.SnapshotQuestion, error)
}

type questionSelectorService struct {
	questionRepo repository.QuestionRepository
}

func NewQuestionSelectorService(questionRepo repository.QuestionRepository) QuestionSelectorService {
	return &questionSelectorService{questionRepo: questionRepo}
}

func (s *questionSelectorService) SelectFormal(test *model.Test) ([]model.SnapshotQuestion, error) {
	if len(test.Questions) == 0 {
		return nil, fmt.Errorf("test %d has no questions: %w", test.ID, apperr.ErrValidation)
	}
	return snapshotQuestions(test.Questions), nil
}

func (s *questionSelectorService) SelectPractice(topicID uint, level string, count int, seed int64) ([]model.SnapshotQuestion, error) {
	pool, err := s.questionRepo.FindPool(topicID, level)
	if err != nil {
		log.Error().Err(err).Uint("topicID", topicID).Str("level", level).Msg("SelectPractice: failed to load question pool")
		return nil, fmt.Errorf("error loading question pool for topic %d: %w", topicID, err)
	}
	if len(pool) < count {
		return nil, fmt.Errorf("pool for topic %d level %s has %d questions, need %d: %w",
			topicID, level, len(pool), count, apperr.ErrInsufficientQuestions)
	}

	fisherYatesShuffle(pool, rand.New(rand.NewSource(seed)))
	return snapshotQuestions(pool[:count]), nil
}

// fisherYatesShuffle shuffles the slice in place with the given source, so a
// recorded seed reproduces the draw exactly.
func fisherYatesShuffle(questions []model.Question, rng *rand.Rand) {
	for i := len(questions) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		questions[i], questions[j] = questions[j], questions[i]
	}
}

func snapshotQuestions(questions []model.Question) []model.SnapshotQuestion {
	snap := make([]model.SnapshotQuestion, len(questions))
	for i, q := range questions {
		sq := model.SnapshotQuestion{
			ID:    q.ID,
			Text:  q.Text,
			Marks: q.Marks,
		}
		for _, opt := range q.Options {
			sq.Options = append(sq.Options, model.SnapshotOption{
				ID:        opt.ID,
				Text:      opt.Text,
				IsCorrect: opt.IsCorrect,
			})
		}
		snap[i] = sq
	}
	return snap
}
