package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/arnabAdhikary98/room-loop/internal/service"
)

// UserHandler 封装了用户资料相关的 HTTP 处理逻辑
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile 返回当前用户资料
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, user)
}

// UpdateProfileRequest 定义资料更新请求的结构体。
// 密码不走这个接口，请求里带了也会被忽略。
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

// UpdateProfile 处理资料更新请求
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.UpdateProfile: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, service.UpdateProfileInput{
		Name:  req.Name,
		Image: req.Image,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, user)
}

// GetUserRooms 返回当前用户创建和参与的房间
func (h *UserHandler) GetUserRooms(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	rooms, err := h.userService.GetUserRooms(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, rooms)
}
