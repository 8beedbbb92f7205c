package user

import (
	"net/http"
	"strconv"

	"github.com/ankit-karki-11/smarttest/internal/controller"
	"github.com/ankit-karki-11/smarttest/internal/dto"
	"github.com/ankit-karki-11/smarttest/internal/middleware"
	"github.com/ankit-karki-11/smarttest/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AttemptController struct {
	attemptService service.AttemptService
	answerService  service.AnswerService
}

func NewAttemptController(attemptService service.AttemptService, answerService service.AnswerService) *AttemptController {
	return &AttemptController{
		attemptService: attemptService,
		answerService:  answerService,
	}
}

// CreateAttempt godoc
// @Summary Start a new attempt
// @Description Starts a formal attempt on a test (test_id) or a practice attempt from a topic pool (topic_id + optional level). The question set and deadline are fixed at creation.
// @Tags Attempts
// @Accept json
// @Produce json
// @Param attempt body dto.CreateAttemptRequest true "Attempt source: exactly one of test_id or topic_id"
// @Success 201 {object} dto.AttemptStateDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 404 {object} dto.ErrorResponse "Test or topic not found"
// @Failure 409 {object} dto.ErrorResponse "Open attempt already exists, or pool too small"
// @Security BearerAuth
// @Router /attempts [post]
func (c *AttemptController) CreateAttempt(ctx *gin.Context) {
	var req dto.CreateAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	state, err := c.attemptService.CreateAttempt(middleware.CurrentUserID(ctx), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, state)
}

// GetAttempt godoc
// @Summary Get the live state of an attempt
// @Description Returns the frozen question set (without answer keys), previously recorded answers, and the server-authoritative remaining time in seconds.
// @Tags Attempts
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptStateDTO
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another student"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Security BearerAuth
// @Router /attempts/{attempt_id} [get]
func (c *AttemptController) GetAttempt(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}

	state, err := c.attemptService.GetAttempt(middleware.CurrentUserID(ctx), attemptID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// RecordAnswer godoc
// @Summary Record or replace an answer
// @Description Upserts the answer for one question of an open attempt. Re-sending the same question replaces the stored answer.
// @Tags Attempts
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param answer body dto.RecordAnswerRequest true "Answer payload"
// @Success 200 {object} dto.RecordedAnswerDTO
// @Failure 400 {object} dto.ErrorResponse "Question or option not part of this attempt"
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another student"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt already submitted or past its deadline"
// @Security BearerAuth
// @Router /attempts/{attempt_id}/answers [post]
func (c *AttemptController) RecordAnswer(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}

	var req dto.RecordAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	recorded, err := c.answerService.RecordAnswer(middleware.CurrentUserID(ctx), attemptID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, recorded)
}

// SubmitAttempt godoc
// @Summary Submit an attempt
// @Description Finalizes the attempt with the given trigger and returns the scored result. Idempotent: re-submitting returns the stored result unchanged.
// @Tags Attempts
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param submission body dto.SubmitAttemptRequest false "Submit trigger, defaults to manual"
// @Success 200 {object} dto.AttemptResultDTO
// @Failure 400 {object} dto.ErrorResponse "Unknown trigger"
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another student"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Security BearerAuth
// @Router /attempts/{attempt_id}/submit [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}

	var req dto.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && ctx.Request.ContentLength > 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	log.Info().Uint("attemptID", attemptID).Str("trigger", req.Trigger).Msg("Submit requested")
	result, err := c.attemptService.Submit(middleware.CurrentUserID(ctx), attemptID, req.Trigger)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetResults godoc
// @Summary Get the result of a submitted attempt
// @Description Returns the stored result including per-question scores, correct options, AI comments and overall feedback. Conflicts while the attempt is still open.
// @Tags Attempts
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptResultDTO
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another student"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt not submitted yet"
// @Security BearerAuth
// @Router /attempts/{attempt_id}/results [get]
func (c *AttemptController) GetResults(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}

	result, err := c.attemptService.GetResults(middleware.CurrentUserID(ctx), attemptID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// ListMyAttempts godoc
// @Summary List my attempts on a test
// @Tags Attempts
// @Produce json
// @Param test_id path int true "Test ID"
// @Success 200 {array} dto.AttemptSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Test ID"
// @Security BearerAuth
// @Router /tests/{test_id}/my-attempts [get]
func (c *AttemptController) ListMyAttempts(ctx *gin.Context) {
	testID, ok := pathID(ctx, "test_id")
	if !ok {
		return
	}

	summaries, err := c.attemptService.ListAttempts(middleware.CurrentUserID(ctx), testID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, summaries)
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	val, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}
