package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/arnabAdhikary98/room-loop/internal/service"
)

// HandleServiceError 把服务层的业务错误翻译成 HTTP 状态码。
// 错误文本即响应 message；不在集合里的错误一律按 500 处理并记日志。
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAuthenticationFailed):
		ErrorResponse(c, http.StatusUnauthorized, err.Error())

	case errors.Is(err, service.ErrRoomUpdateForbidden),
		errors.Is(err, service.ErrRoomDeleteForbidden),
		errors.Is(err, service.ErrInviteForbidden),
		errors.Is(err, service.ErrRoomAccessForbidden),
		errors.Is(err, service.ErrMessageDeleteForbidden):
		ErrorResponse(c, http.StatusForbidden, err.Error())

	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrMessageNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrInvalidTimeWindow),
		errors.Is(err, service.ErrStartInPast),
		errors.Is(err, service.ErrAlreadyParticipant),
		errors.Is(err, service.ErrRoomClosed),
		errors.Is(err, service.ErrRoomNotLive):
		ErrorResponse(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrEmailTaken):
		ErrorResponse(c, http.StatusConflict, err.Error())

	default:
		logrus.WithError(err).Error("Unhandled internal server error")
		ErrorResponse(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
