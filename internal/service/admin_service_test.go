package service

import (
	"errors"
	"testing"

	"github.com/ankit-karki-11/smarttest/internal/apperr"
	"github.com/ankit-karki-11/smarttest/internal/dto"
	"github.com/ankit-karki-11/smarttest/internal/model"
	"github.com/ankit-karki-11/smarttest/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestAdminService(db *gorm.DB, grading GradingService) AdminService {
	return NewAdminService(
		repository.NewTopicRepository(db),
		repository.NewTestRepository(db),
		repository.NewQuestionRepository(db),
		grading,
	)
}

func mcqQuestion(order int) dto.QuestionCreateDTO {
	return dto.QuestionCreateDTO{
		Text:        "What is X?",
		Marks:       1,
		OrderInTest: order,
		Options: []dto.OptionCreateDTO{
			{Text: "right", IsCorrect: true},
			{Text: "wrong"},
		},
	}
}

func TestCreateTestAndTopic(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAdminService(db, &stubGradingService{})

	topic, err := svc.CreateTopic(dto.TopicCreateDTO{Title: "Networks", Description: "OSI and friends"})
	require.NoError(t, err)
	require.NotZero(t, topic.ID)

	test, err := svc.CreateTest(1, dto.TestCreateDTO{
		Title:            "Networks midterm",
		TopicID:          topic.ID,
		Level:            model.LevelMedium,
		Mode:             model.ModeMCQ,
		TimeLimitMinutes: 30,
		Questions:        []dto.QuestionCreateDTO{mcqQuestion(1), mcqQuestion(2)},
	})
	require.NoError(t, err)

	assert.Equal(t, model.DefaultPassPercent, test.PassPercent, "omitted pass percent falls back to the default")
	require.Len(t, test.Questions, 2)
	assert.Len(t, test.Questions[0].Options, 2)
}

func TestCreateTestValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAdminService(db, &stubGradingService{})
	topic, err := svc.CreateTopic(dto.TopicCreateDTO{Title: "Algebra"})
	require.NoError(t, err)

	base := dto.TestCreateDTO{
		Title:            "Algebra quiz",
		TopicID:          topic.ID,
		Level:            model.LevelBasic,
		Mode:             model.ModeMCQ,
		TimeLimitMinutes: 15,
	}

	t.Run("duplicate order rejected", func(t *testing.T) {
		req := base
		req.Questions = []dto.QuestionCreateDTO{mcqQuestion(1), mcqQuestion(1)}
		_, err := svc.CreateTest(1, req)
		assert.True(t, errors.Is(err, apperr.ErrValidation))
	})

	t.Run("mcq needs exactly one correct option", func(t *testing.T) {
		q := mcqQuestion(1)
		q.Options[1].IsCorrect = true
		req := base
		req.Questions = []dto.QuestionCreateDTO{q}
		_, err := svc.CreateTest(1, req)
		assert.True(t, errors.Is(err, apperr.ErrValidation))
	})

	t.Run("free_text questions carry no options", func(t *testing.T) {
		req := base
		req.Mode = model.ModeFreeText
		req.Questions = []dto.QuestionCreateDTO{mcqQuestion(1)}
		_, err := svc.CreateTest(1, req)
		assert.True(t, errors.Is(err, apperr.ErrValidation))
	})

	t.Run("unknown topic rejected", func(t *testing.T) {
		req := base
		req.TopicID = 9999
		req.Questions = []dto.QuestionCreateDTO{mcqQuestion(1)}
		_, err := svc.CreateTest(1, req)
		assert.True(t, errors.Is(err, apperr.ErrTopicNotFound))
	})
}

func TestGeneratePoolQuestionsStoresDrafts(t *testing.T) {
	db := setupTestDB(t)
	grading := &stubGradingService{
		generated: []GeneratedQuestion{
			{Text: "Generated 1", Options: []GeneratedOption{
				{Text: "a", IsCorrect: true}, {Text: "b"}, {Text: "c"}, {Text: "d"},
			}},
			{Text: "Generated 2", Options: []GeneratedOption{
				{Text: "a"}, {Text: "b", IsCorrect: true}, {Text: "c"}, {Text: "d"},
			}},
		},
	}
	svc := newTestAdminService(db, grading)
	topic, err := svc.CreateTopic(dto.TopicCreateDTO{Title: "History"})
	require.NoError(t, err)

	drafts, err := svc.GeneratePoolQuestions(topic.ID, dto.GenerateQuestionsDTO{Level: model.LevelHard, Count: 2})
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	// Drafts land in the topic's practice pool, not on any test.
	pool, err := repository.NewQuestionRepository(db).FindPool(topic.ID, model.LevelHard)
	require.NoError(t, err)
	require.Len(t, pool, 2)
	assert.Nil(t, pool[0].TestID)
	assert.Len(t, pool[0].Options, 4)
	assert.Equal(t, 1.0, pool[0].Marks, "omitted marks default to one")
}

func TestGeneratePoolQuestionsUnavailableCollaborator(t *testing.T) {
	db := setupTestDB(t)
	grading := &stubGradingService{genErr: errors.New("no api key")}
	svc := newTestAdminService(db, grading)
	topic, err := svc.CreateTopic(dto.TopicCreateDTO{Title: "Physics"})
	require.NoError(t, err)

	_, err = svc.GeneratePoolQuestions(topic.ID, dto.GenerateQuestionsDTO{Level: model.LevelBasic, Count: 3})
	assert.True(t, errors.Is(err, apperr.ErrGradingUnavailable))
}
