package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/arnabAdhikary98/room-loop/internal/domain"
	"github.com/arnabAdhikary98/room-loop/internal/service"
)

// MessageHandler 封装了消息相关的 HTTP 处理逻辑
type MessageHandler struct {
	messageService *service.MessageService
}

// NewMessageHandler 创建 MessageHandler 实例
func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// GetRoomMessages 返回房间内按时间升序的消息 (仅参与者)
func (h *MessageHandler) GetRoomMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := pathID(c, "id")
	if !ok {
		return
	}
	messages, err := h.messageService.GetRoomMessages(c.Request.Context(), roomID, userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, messages)
}

// CreateMessageRequest 定义发消息请求的结构体
type CreateMessageRequest struct {
	Content string `json:"content" binding:"required"`
	Type    string `json:"type" binding:"omitempty,oneof=text emoji"`
}

// CreateMessage 处理发消息请求 (仅参与者，且房间必须 live)
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.CreateMessage: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, service.ErrMissingFields.Error())
		return
	}

	message, err := h.messageService.CreateMessage(c.Request.Context(), roomID, userID, req.Content, domain.MessageType(req.Type))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, message)
}

// DeleteMessage 处理删除消息请求 (仅发送者)
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	messageID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.messageService.DeleteMessage(c.Request.Context(), messageID, userID); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Message deleted successfully"})
}
