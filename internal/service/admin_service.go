package service

import (
	"errors"
	"fmt"

	"github.com/ankit-karki-11/smarttest/internal/apperr"
	"github.com/ankit-karki-11/smarttest/internal/dto"
	"github.com/ankit-karki-11/smarttest/internal/model"
	"github.com/ankit-karki-11/smarttest/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AdminService covers authoring: topics, formal tests, practice pool
// questions, and AI-drafted pool questions.
type AdminService interface {
	CreateTopic(req dto.TopicCreateDTO) (*dto.TopicResponseDTO, error)
	ListTopics() ([]dto.TopicResponseDTO, error)
	CreateTest(createdBy uint, req dto.TestCreateDTO) (*dto.TestAdminDTO, error)
	CreatePoolQuestion(req dto.PoolQuestionCreateDTO) (*dto.QuestionAdminDTO, error)
	// GeneratePoolQuestions drafts pool questions with the AI collaborator
	// and stores them in the topic's practice pool.
	GeneratePoolQuestions(topicID uint, req dto.GenerateQuestionsDTO) ([]dto.QuestionAdminDTO, error)
}

type adminService struct {
	topicRepo    repository.TopicRepository
	testRepo     repository.TestRepository
	questionRepo repository.QuestionRepository
	grading      GradingService
}

func NewAdminService(
	topicRepo repository.TopicRepository,
	testRepo repository.TestRepository,
	questionRepo repository.QuestionRepository,
	grading GradingService,
) AdminService {
	return &adminService{
		topicRepo:    topicRepo,
		testRepo:     testRepo,
		questionRepo: questionRepo,
		grading:      grading,
	}
}

func (s *adminService) CreateTopic(req dto.TopicCreateDTO) (*dto.TopicResponseDTO, error) {
	topic := model.Topic{
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.topicRepo.Create(&topic); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("Failed to create topic")
		return nil, fmt.Errorf("database error creating topic: %w", err)
	}

	var resp dto.TopicResponseDTO
	if err := copier.Copy(&resp, &topic); err != nil {
		return nil, fmt.Errorf("error preparing topic response: %w", err)
	}
	return &resp, nil
}

func (s *adminService) ListTopics() ([]dto.TopicResponseDTO, error) {
	topics, err := s.topicRepo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list topics")
		return nil, fmt.Errorf("error fetching topics: %w", err)
	}

	var dtos []dto.TopicResponseDTO
	if err := copier.Copy(&dtos, &topics); err != nil {
		return nil, fmt.Errorf("error preparing topics response: %w", err)
	}
	return dtos, nil
}

func (s *adminService) CreateTest(createdBy uint, req dto.TestCreateDTO) (*dto.TestAdminDTO, error) {
	if _, err := s.topicRepo.FindByID(req.TopicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrTopicNotFound
		}
		return nil, err
	}

	orderSeen := make(map[int]bool)
	questions := make([]model.Question, 0, len(req.Questions))
	for _, qDto := range req.Questions {
		if orderSeen[qDto.OrderInTest] {
			return nil, fmt.Errorf("duplicate order_in_test %d: %w", qDto.OrderInTest, apperr.ErrValidation)
		}
		orderSeen[qDto.OrderInTest] = true

		if err := validateQuestionShape(req.Mode, qDto); err != nil {
			return nil, err
		}

		q := model.Question{
			TopicID:     req.TopicID,
			Text:        qDto.Text,
			Level:       req.Level,
			Marks:       qDto.Marks,
			OrderInTest: qDto.OrderInTest,
		}
		for _, oDto := range qDto.Options {
			q.Options = append(q.Options, model.Option{Text: oDto.Text, IsCorrect: oDto.IsCorrect})
		}
		questions = append(questions, q)
	}

	passPercent := req.PassPercent
	if passPercent == 0 {
		passPercent = model.DefaultPassPercent
	}

	test := model.Test{
		Title:            req.Title,
		TopicID:          req.TopicID,
		Level:            req.Level,
		Mode:             req.Mode,
		TimeLimitMinutes: req.TimeLimitMinutes,
		PassPercent:      passPercent,
		IsPublic:         req.IsPublic,
		CreatedBy:        &createdBy,
		Questions:        questions,
	}
	if err := s.testRepo.Create(&test); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("Failed to create test")
		return nil, fmt.Errorf("database error creating test: %w", err)
	}

	created, err := s.testRepo.FindByIDWithQuestions(test.ID)
	if err != nil {
		log.Error().Err(err).Uint("testID", test.ID).Msg("Failed to reload newly created test")
		created = &test
	}

	var resp dto.TestAdminDTO
	if err := copier.Copy(&resp, created); err != nil {
		return nil, fmt.Errorf("error preparing test response: %w", err)
	}
	return &resp, nil
}

func (s *adminService) CreatePoolQuestion(req dto.PoolQuestionCreateDTO) (*dto.QuestionAdminDTO, error) {
	if _, err := s.topicRepo.FindByID(req.TopicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrTopicNotFound
		}
		return nil, err
	}
	if err := validateOptions(req.Options); err != nil {
		return nil, err
	}

	question := model.Question{
		TopicID: req.TopicID,
		Text:    req.Text,
		Level:   req.Level,
		Marks:   req.Marks,
	}
	for _, oDto := range req.Options {
		question.Options = append(question.Options, model.Option{Text: oDto.Text, IsCorrect: oDto.IsCorrect})
	}

	if err := s.questionRepo.Create(&question); err != nil {
		log.Error().Err(err).Uint("topicID", req.TopicID).Msg("Failed to create pool question")
		return nil, fmt.Errorf("database error creating question: %w", err)
	}

	var resp dto.QuestionAdminDTO
	if err := copier.Copy(&resp, &question); err != nil {
		return nil, fmt.Errorf("error preparing question response: %w", err)
	}
	return &resp, nil
}

func (s *adminService) GeneratePoolQuestions(topicID uint, req dto.GenerateQuestionsDTO) ([]dto.QuestionAdminDTO, error) {
	topic, err := s.topicRepo.FindByID(topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrTopicNotFound
		}
		return nil, err
	}

	generated, err := s.grading.GenerateQuestions(topic.Title, req.Level, req.Count)
	if err != nil {
		log.Error().Err(err).Uint("topicID", topicID).Msg("AI question generation failed")
		return nil, fmt.Errorf("question generation failed: %w", apperr.ErrGradingUnavailable)
	}

	marks := req.Marks
	if marks == 0 {
		marks = 1.0
	}

	questions := make([]model.Question, len(generated))
	for i, g := range generated {
		q := model.Question{
			TopicID: topicID,
			Text:    g.Text,
			Level:   req.Level,
			Marks:   marks,
		}
		for _, opt := range g.Options {
			q.Options = append(q.Options, model.Option{Text: opt.Text, IsCorrect: opt.IsCorrect})
		}
		questions[i] = q
	}

	if err := s.questionRepo.CreateBatch(questions); err != nil {
		log.Error().Err(err).Uint("topicID", topicID).Msg("Failed to persist generated questions")
		return nil, fmt.Errorf("database error storing generated questions: %w", err)
	}

	log.Info().Uint("topicID", topicID).Int("count", len(questions)).Str("level", req.Level).
		Msg("Generated pool questions stored")

	var dtos []dto.QuestionAdminDTO
	if err := copier.Copy(&dtos, &questions); err != nil {
		return nil, fmt.Errorf("error preparing generated questions response: %w", err)
	}
	return dtos, nil
}

// validateQuestionShape enforces the mode contract: mcq questions need at
// least two options with exactly one correct, free_text questions carry none.
func validateQuestionShape(mode string, q dto.QuestionCreateDTO) error {
	switch mode {
	case model.ModeMCQ:
		return validateOptions(q.Options)
	case model.ModeFreeText:
		if len(q.Options) > 0 {
			return fmt.Errorf("free_text question %q must not have options: %w", q.Text, apperr.ErrValidation)
		}
		return nil
	default:
		return fmt.Errorf("unknown test mode %q: %w", mode, apperr.ErrValidation)
	}
}

func validateOptions(options []dto.OptionCreateDTO) error {
	if len(options) < 2 {
		return fmt.Errorf("an mcq question needs at least two options: %w", apperr.ErrValidation)
	}
	correct := 0
	for _, opt := range options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("an mcq question needs exactly one correct option, got %d: %w", correct, apperr.ErrValidation)
	}
	return nil
}
