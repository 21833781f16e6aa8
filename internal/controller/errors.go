package controller

import (
	"edulearn_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError 将业务错误映射为 HTTP 状态码，未知错误记录日志后返回 500
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSubjectNotFound),
		errors.Is(err, util.ErrCategoryNotFound),
		errors.Is(err, util.ErrTopicNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrProgressNotFound),
		errors.Is(err, util.ErrSessionNotFound),
		errors.Is(err, util.ErrNoQuestionsAvailable):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrSessionAlreadySubmitted),
		errors.Is(err, util.ErrDuplicateName):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrSessionExpired):
		util.Error(ctx, http.StatusGone, err.Error())
	case errors.Is(err, util.ErrInvalidQuestion),
		errors.Is(err, util.ErrInvalidReference),
		errors.Is(err, util.ErrInvalidProgress),
		errors.Is(err, util.ErrInvalidFile),
		errors.Is(err, util.ErrInvalidRequest):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
