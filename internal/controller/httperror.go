// Package controller holds pieces shared by the user and admin handler
// packages.
package controller

import (
	"errors"
	"net/http"

	"github.com/ankit-karki-11/smarttest/internal/apperr"
	"github.com/ankit-karki-11/smarttest/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RespondError maps service errors onto HTTP statuses with the uniform error
// body. Unknown errors become an opaque 500 so internals never leak.
func RespondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, apperr.ErrAttemptNotFound),
		errors.Is(err, apperr.ErrTestNotFound),
		errors.Is(err, apperr.ErrTopicNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, apperr.ErrForbidden):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, apperr.ErrAttemptClosed),
		errors.Is(err, apperr.ErrDuplicateActiveAttempt),
		errors.Is(err, apperr.ErrInsufficientQuestions),
		errors.Is(err, apperr.ErrResultsPending):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, apperr.ErrGradingUnavailable):
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Unhandled service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
	}
}
