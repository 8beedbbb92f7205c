package service

import (
	"errors"
	"fmt"

	"github.com/ankit-karki-11/smarttest/internal/apperr"
	"github.com/ankit-karki-11/smarttest/internal/dto"
	"github.com/ankit-karki-11/smarttest/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// UserTestService is the student-facing catalog: which tests exist and what
// they look like, always without answer keys.
type UserTestService interface {
	GetAllTests() ([]dto.TestSummaryDTO, error)
	GetTestDetails(testID uint) (*dto.TestResponseDTO, error)
}

type userTestService struct {
	testRepo repository.TestRepository
}

func NewUserTestService(testRepo repository.TestRepository) UserTestService {
	return &userTestService{testRepo: testRepo}
}

func (s *userTestService) GetAllTests() ([]dto.TestSummaryDTO, error) {
	testsWithCount, err := s.testRepo.FindAllWithQuestionCount()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get all tests with question count from repository")
		return nil, fmt.Errorf("error fetching tests: %w", err)
	}

	var dtos []dto.TestSummaryDTO
	for _, twc := range testsWithCount {
		dtos = append(dtos, dto.TestSummaryDTO{
			ID:               twc.Test.ID,
			Title:            twc.Test.Title,
			Level:            twc.Test.Level,
			Mode:             twc.Test.Mode,
			TimeLimitMinutes: twc.Test.TimeLimitMinutes,
			QuestionCount:    twc.QuestionCount,
			CreatedAt:        twc.Test.CreatedAt,
		})
	}
	return dtos, nil
}

func (s *userTestService) GetTestDetails(testID uint) (*dto.TestResponseDTO, error) {
	test, err := s.testRepo.FindByIDWithQuestions(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrTestNotFound
		}
		log.Error().Err(err).Uint("testID", testID).Msg("Failed to get test details from repository")
		return nil, fmt.Errorf("error fetching test %d: %w", testID, err)
	}

	resp := dto.TestResponseDTO{
		ID:               test.ID,
		Title:            test.Title,
		TopicID:          test.TopicID,
		Level:            test.Level,
		Mode:             test.Mode,
		TimeLimitMinutes: test.TimeLimitMinutes,
		PassPercent:      test.PassPercent,
		CreatedAt:        test.CreatedAt,
	}
	for _, q := range test.Questions {
		pub := dto.QuestionPublicDTO{ID: q.ID, Text: q.Text, Marks: q.Marks}
		for _, opt := range q.Options {
			pub.Options = append(pub.Options, dto.OptionPublicDTO{ID: opt.ID, Text: opt.Text})
		}
		resp.Questions = append(resp.Questions, pub)
	}
	return &resp, nil
}
