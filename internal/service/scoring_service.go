package service

import (
	"fmt"
	"sync"

	"github.com/ankit-karki-11/smarttest/internal/model"
	"github.com/rs/zerolog/log"
)

const manualReviewComment = "Automatic grading was unavailable. This answer is pending manual review."

// ScoreOutcome carries everything the submit transaction needs to persist:
// every answer row (including rows for unanswered questions), the aggregate,
// and the verdict.
type ScoreOutcome struct {
	Answers    []model.Answer
	TotalScore float64
	MaxScore   float64
	Passed     bool
	// GradingFailures counts free-text answers that fell back to manual
	// review because the grading collaborator was unreachable.
	GradingFailures int
}

// ScoringService computes the result of a closed attempt from its frozen
// snapshot and the answers on file. It is invoked exactly once per attempt,
// by submit, while the attempt is serialized; re-reads of a submitted attempt
// return the stored result and never come back here.
type ScoringService interface {
	Score(attempt *model.Attempt, answers []model.Answer) (*ScoreOutcome, error)
}

type scoringService struct {
	grader AnswerGrader
}

func NewScoringService(grader AnswerGrader) ScoringService {
	return &scoringService{grader: grader}
}

func (s *scoringService) Score(attempt *model.Attempt, answers []model.Answer) (*ScoreOutcome, error) {
	snapshot, err := attempt.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("attempt %d has a corrupt question snapshot: %w", attempt.ID, err)
	}

	byQuestion := make(map[uint]model.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	// Mode is a tagged variant dispatched once; no per-question probing of
	// field presence.
	var outcome *ScoreOutcome
	switch attempt.Mode {
	case model.ModeMCQ:
		outcome = s.scoreMCQ(snapshot, byQuestion)
	case model.ModeFreeText:
		outcome = s.scoreFreeText(snapshot, byQuestion)
	default:
		return nil, fmt.Errorf("attempt %d has unknown mode %q", attempt.ID, attempt.Mode)
	}

	threshold := attempt.PassPercent / 100 * outcome.MaxScore
	outcome.Passed = outcome.TotalScore >= threshold
	return outcome, nil
}

func (s *scoringService) scoreMCQ(snapshot []model.SnapshotQuestion, byQuestion map[uint]model.Answer) *ScoreOutcome {
	outcome := &ScoreOutcome{}
	for _, q := range snapshot {
		outcome.MaxScore += q.Marks

		answer, ok := byQuestion[q.ID]
		if !ok || answer.SelectedOptionID == nil {
			outcome.Answers = append(outcome.Answers, unansweredRow(answer, q))
			continue
		}

		marks := 0.0
		for _, opt := range q.Options {
			if opt.IsCorrect && opt.ID == *answer.SelectedOptionID {
				marks = q.Marks
				break
			}
		}
		answer.Answered = true
		answer.ScoredMarks = &marks
		outcome.Answers = append(outcome.Answers, answer)
		outcome.TotalScore += marks
	}
	return outcome
}

// gradedAnswer carries one free-text grading result back from its goroutine.
type gradedAnswer struct {
	index  int
	answer model.Answer
	marks  float64
	failed bool
}

func (s *scoringService) scoreFreeText(snapshot []model.SnapshotQuestion, byQuestion map[uint]model.Answer) *ScoreOutcome {
	outcome := &ScoreOutcome{}
	rows := make([]model.Answer, len(snapshot))

	var wg sync.WaitGroup
	results := make(chan gradedAnswer, len(snapshot))

	for i, q := range snapshot {
		outcome.MaxScore += q.Marks

		answer, ok := byQuestion[q.ID]
		if !ok || answer.Response == "" {
			rows[i] = unansweredRow(answer, q)
			continue
		}

		wg.Add(1)
		go func(idx int, question model.SnapshotQuestion, ans model.Answer) {
			defer wg.Done()

			score, comment, gradeErr := s.grader.GradeAnswer(question.Text, ans.Response, question.Marks)
			if gradeErr != nil {
				log.Warn().Err(gradeErr).Uint("questionID", question.ID).Msg("Score: grading collaborator failed, flagging answer for manual review")
				zero := 0.0
				msg := manualReviewComment
				ans.Answered = true
				ans.ScoredMarks = &zero
				ans.AIComment = &msg
				ans.NeedsReview = true
				results <- gradedAnswer{index: idx, answer: ans, failed: true}
				return
			}

			if score < 0 {
				score = 0
			}
			if score > question.Marks {
				score = question.Marks
			}
			ans.Answered = true
			ans.ScoredMarks = &score
			ans.AIComment = &comment
			results <- gradedAnswer{index: idx, answer: ans, marks: score}
		}(i, q, answer)
	}

	wg.Wait()
	close(results)

	for res := range results {
		rows[res.index] = res.answer
		outcome.TotalScore += res.marks
		if res.failed {
			outcome.GradingFailures++
		}
	}

	outcome.Answers = rows
	return outcome
}

// unansweredRow records an explicit zero-mark row for a question the student
// left blank, so "unanswered" is distinguishable from "never part of the set".
func unansweredRow(existing model.Answer, q model.SnapshotQuestion) model.Answer {
	zero := 0.0
	existing.QuestionID = q.ID
	existing.SelectedOptionID = nil
	existing.Answered = false
	existing.ScoredMarks = &zero
	return existing
}
