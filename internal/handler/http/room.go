package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/arnabAdhikary98/room-loop/internal/domain"
	"github.com/arnabAdhikary98/room-loop/internal/service"
)

// RoomHandler 封装了房间相关的 HTTP 处理逻辑
type RoomHandler struct {
	roomService *service.RoomService
}

// NewRoomHandler 创建 RoomHandler 实例
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// ListRooms 处理房间列表请求。支持 ?status= 和 ?tag= 过滤。
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.roomService.ListRooms(c.Request.Context(), c.Query("status"), c.Query("tag"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, rooms)
}

// GetRoom 处理单个房间查询
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, ok := pathID(c, "id")
	if !ok {
		return
	}
	room, err := h.roomService.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, room)
}

// CreateRoomRequest 定义创建房间请求的结构体
type CreateRoomRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description" binding:"required"`
	StartTime   time.Time         `json:"startTime" binding:"required"`
	EndTime     time.Time         `json:"endTime" binding:"required"`
	Tags        domain.StringList `json:"tags"`
	IsOpen      *bool             `json:"isOpen"`
}

// CreateRoom 处理创建房间请求
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.CreateRoom: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, service.ErrMissingFields.Error())
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), userID, service.CreateRoomInput{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Tags:        req.Tags,
		IsOpen:      req.IsOpen,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, room)
}

// UpdateRoomRequest 定义更新房间请求的结构体，缺失字段不修改
type UpdateRoomRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	StartTime   *time.Time         `json:"startTime"`
	EndTime     *time.Time         `json:"endTime"`
	Tags        *domain.StringList `json:"tags"`
	IsOpen      *bool              `json:"isOpen"`
}

// UpdateRoom 处理房间更新请求 (仅创建者)
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.UpdateRoom: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	room, err := h.roomService.UpdateRoom(c.Request.Context(), roomID, userID, service.UpdateRoomInput{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Tags:        req.Tags,
		IsOpen:      req.IsOpen,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, room)
}

// DeleteRoom 处理房间删除请求 (仅创建者)
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.roomService.DeleteRoom(c.Request.Context(), roomID, userID); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Room deleted successfully"})
}

// JoinRoom 处理加入房间请求
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.roomService.JoinRoom(c.Request.Context(), roomID, userID); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Joined room successfully"})
}

// InviteRequest 定义邀请请求的结构体
type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// InviteToRoom 处理按邮箱邀请请求 (仅创建者)
func (h *RoomHandler) InviteToRoom(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.InviteToRoom: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, service.ErrMissingFields.Error())
		return
	}
	if err := h.roomService.InviteToRoom(c.Request.Context(), roomID, userID, req.Email); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Invitation sent successfully"})
}
