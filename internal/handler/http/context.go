package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/arnabAdhikary98/room-loop/internal/middleware"
)

// currentUserID 读取 Auth 中间件写入上下文的用户 ID。
// 拿不到说明中间件没挂或出错，直接写好响应并返回 false。
func currentUserID(c *gin.Context) (uint, bool) {
	userIDAny, exists := c.Get(middleware.UserIDKey)
	if !exists {
		logrus.Warn("Handler: User ID not found in context, middleware missing or failed?")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, false
	}
	userID, ok := userIDAny.(uint)
	if !ok {
		logrus.Error("Handler: User ID in context is not uint")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error processing user ID"})
		return 0, false
	}
	return userID, true
}

// pathID 解析路径参数里的数字 ID，非法时写好 400 响应并返回 false。
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " parameter"})
		return 0, false
	}
	return uint(id), true
}
