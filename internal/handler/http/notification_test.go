package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/arnabAdhikary98/room-loop/internal/domain"
	httpHandler "github.com/arnabAdhikary98/room-loop/internal/handler/http"
	"github.com/arnabAdhikary98/room-loop/internal/middleware"
	"github.com/arnabAdhikary98/room-loop/internal/repository"
	"github.com/arnabAdhikary98/room-loop/internal/repository/mocks"
	"github.com/arnabAdhikary98/room-loop/internal/service"
)

// notificationListRouter 把 List 挂在一个注入固定用户身份的路由上。
func notificationListRouter(t *testing.T, userID uint) (*gin.Engine, *mocks.NotificationRepository) {
	gin.SetMode(gin.TestMode)
	mockRepo := mocks.NewNotificationRepository(t)
	handler := httpHandler.NewNotificationHandler(service.NewNotificationService(mockRepo, nil))

	router := gin.New()
	router.GET("/notifications", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
	}, handler.List)
	return router, mockRepo
}

func TestNotificationHandler_List_UnreadOnlyParam(t *testing.T) {
	router, mockRepo := notificationListRouter(t, 9)

	mockRepo.On("FindByRecipient", mock.Anything, uint(9), repository.NotificationQuery{
		Limit:      10,
		UnreadOnly: true,
	}).Return([]domain.Notification{}, nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications?unreadOnly=true", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestNotificationHandler_List_DefaultsToAllNotifications(t *testing.T) {
	router, mockRepo := notificationListRouter(t, 9)

	mockRepo.On("FindByRecipient", mock.Anything, uint(9), repository.NotificationQuery{
		Limit: 10,
	}).Return([]domain.Notification{}, nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications?limit=0", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertExpectations(t)
}
