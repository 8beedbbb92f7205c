package admin

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

type AdminController struct {
	adminService service.AdminService
}

func NewAdminController(adminService service.AdminService) *AdminController {
	return &AdminController{adminService: adminService}
}

// CreateTopic godoc
// @Summary (Admin) Create a topic
// @Tags Admin
// @Accept json
// @Produce json
// @Param topic body dto.TopicCreateDTO true "Topic"
// @Success 201 {object} dto.TopicResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/topics [post]
func (c *AdminController) CreateTopic(ctx *gin.Context) {
	var req dto.TopicCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	topic, err := c.adminService.CreateTopic(req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, topic)
}

// ListTopics godoc
// @Summary (Admin) List topics
// @Tags Admin
// @Produce json
// @Success 200 {array} dto.TopicResponseDTO
// @Security BearerAuth
// @Router /admin/topics [get]
func (c *AdminController) ListTopics(ctx *gin.Context) {
	topics, err := c.adminService.ListTopics()
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, topics)
}

// CreateTest godoc
// @Summary (Admin) Author a formal test
// @Description Creates a test with its full question list in one call. MCQ questions need at least two options with exactly one correct.
// @Tags Admin
// @Accept json
// @Produce json
// @Param test body dto.TestCreateDTO true "Test with questions"
// @Success 201 {object} dto.TestAdminDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Topic not found"
// @Security BearerAuth
// @Router /admin/tests [post]
func (c *AdminController) CreateTest(ctx *gin.Context) {
	var req dto.TestCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateTest: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	test, err := c.adminService.CreateTest(middleware.CurrentUserID(ctx), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, test)
}

// CreatePoolQuestion godoc
// @Summary (Admin) Add a question to a topic's practice pool
// @Tags Admin
// @Accept json
// @Produce json
// @Param question body dto.PoolQuestionCreateDTO true "Pool question"
// @Success 201 {object} dto.QuestionAdminDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Topic not found"
// @Security BearerAuth
// @Router /admin/questions [post]
func (c *AdminController) CreatePoolQuestion(ctx *gin.Context) {
	var req dto.PoolQuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	question, err := c.adminService.CreatePoolQuestion(req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, question)
}

// GenerateQuestions godoc
// @Summary (Admin) Draft pool questions with AI
// @Description Asks the AI collaborator to draft multiple-choice questions for the topic and stores them in the practice pool.
// @Tags Admin
// @Accept json
// @Produce json
// @Param topic_id path int true "Topic ID"
// @Param request body dto.GenerateQuestionsDTO true "Generation parameters"
// @Success 201 {array} dto.QuestionAdminDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Topic not found"
// @Failure 502 {object} dto.ErrorResponse "AI collaborator unavailable"
// @Security BearerAuth
// @Router /admin/topics/{topic_id}/generate-questions [post]
func (c *AdminController) GenerateQuestions(ctx *gin.Context) {
	topicIDStr := ctx.Param("topic_id")
	topicID, err := strconv.ParseUint(topicIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid topic_id format"})
		return
	}

	var req dto.GenerateQuestionsDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	questions, err := c.adminService.GeneratePoolQuestions(uint(topicID), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, questions)
}
