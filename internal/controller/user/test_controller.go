package user

import (
	"net/http"

	"github.com/ankit-karki-11/smarttest/internal/controller"
	"github.com/ankit-karki-11/smarttest/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type TestController struct {
	userTestService service.UserTestService
}

func NewTestController(userTestService service.UserTestService) *TestController {
	return &TestController{userTestService: userTestService}
}

// GetAllTests godoc
// @Summary List available tests
// @Tags Tests
// @Produce json
// @Success 200 {array} dto.TestSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tests [get]
func (c *TestController) GetAllTests(ctx *gin.Context) {
	tests, err := c.userTestService.GetAllTests()
	if err != nil {
		log.Error().Err(err).Msg("GetAllTests: service error")
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tests)
}

// GetTestDetails godoc
// @Summary Get details of a test
// @Description Full test details without answer keys, for a student deciding to start an attempt.
// @Tags Tests
// @Produce json
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.TestResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Test ID"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Security BearerAuth
// @Router /tests/{test_id} [get]
func (c *TestController) GetTestDetails(ctx *gin.Context) {
	testID, ok := pathID(ctx, "test_id")
	if !ok {
		return
	}

	details, err := c.userTestService.GetTestDetails(testID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, details)
}
