package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arnabAdhikary98/room-loop/internal/repository"
	"github.com/arnabAdhikary98/room-loop/internal/service"
)

// NotificationHandler 封装了通知相关的 HTTP 处理逻辑
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler 创建 NotificationHandler 实例
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List 返回当前用户的通知，按创建时间倒序。
// 支持 ?limit= ?offset= ?unreadOnly=true 查询参数。
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	unreadOnly := c.Query("unreadOnly") == "true"

	notifications, err := h.notificationService.List(c.Request.Context(), userID, repository.NotificationQuery{
		Limit:      limit,
		Offset:     offset,
		UnreadOnly: unreadOnly,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, notifications)
}

// UnreadCount 返回当前用户的未读通知数
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	count, err := h.notificationService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"count": count})
}

// MarkAsRead 把一条属于当前用户的通知标记为已读
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	notificationID, ok := pathID(c, "id")
	if !ok {
		return
	}
	notification, err := h.notificationService.MarkAsRead(c.Request.Context(), notificationID, userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, notification)
}

// MarkAllAsRead 把当前用户的全部通知标记为已读
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.notificationService.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
