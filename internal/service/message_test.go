package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arnabAdhikary98/room-loop/internal/domain"
	"github.com/arnabAdhikary98/room-loop/internal/repository"
	"github.com/arnabAdhikary98/room-loop/internal/repository/mocks"
	"github.com/arnabAdhikary98/room-loop/internal/service"
)

type messageServiceFixture struct {
	messageRepo      *mocks.MessageRepository
	roomRepo         *mocks.RoomRepository
	notificationRepo *mocks.NotificationRepository
	svc              *service.MessageService
}

func newMessageServiceFixture() *messageServiceFixture {
	f := &messageServiceFixture{
		messageRepo:      new(mocks.MessageRepository),
		roomRepo:         new(mocks.RoomRepository),
		notificationRepo: new(mocks.NotificationRepository),
	}
	notifications := service.NewNotificationService(f.notificationRepo, nil)
	f.svc = service.NewMessageService(f.messageRepo, f.roomRepo, notifications)
	return f
}

func liveRoom(id, creatorID uint) *domain.Room {
	return &domain.Room{
		ID:           id,
		Title:        "Evening sync",
		StartTime:    time.Now().Add(-time.Hour),
		EndTime:      time.Now().Add(time.Hour),
		CreatorID:    creatorID,
		Participants: []domain.User{{ID: creatorID, Name: "Creator"}},
	}
}

func TestMessageService_GetRoomMessages_NonParticipantForbidden(t *testing.T) {
	f := newMessageServiceFixture()
	ctx := context.Background()

	f.roomRepo.On("FindByID", ctx, uint(10)).Return(liveRoom(10, 1), nil).Once()

	_, err := f.svc.GetRoomMessages(ctx, 10, 99)

	assert.ErrorIs(t, err, service.ErrRoomAccessForbidden)
	f.messageRepo.AssertNotCalled(t, "FindByRoom", mock.Anything, mock.Anything)
}

func TestMessageService_GetRoomMessages_Success(t *testing.T) {
	f := newMessageServiceFixture()
	ctx := context.Background()

	f.roomRepo.On("FindByID", ctx, uint(10)).Return(liveRoom(10, 1), nil).Once()
	f.messageRepo.On("FindByRoom", ctx, uint(10)).
		Return([]domain.Message{{ID: 1, Content: "hi"}, {ID: 2, Content: "there"}}, nil).Once()

	messages, err := f.svc.GetRoomMessages(ctx, 10, 1)

	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestMessageService_CreateMessage_Success(t *testing.T) {
	f := newMessageServiceFixture()
	ctx := context.Background()

	room := liveRoom(10, 1)
	room.Participants = append(room.Participants, domain.User{ID: 2, Name: "Bob"})
	f.roomRepo.On("FindByID", ctx, uint(10)).Return(room, nil).Once()

	f.messageRepo.On("Create", ctx, mock.MatchedBy(func(msg *domain.Message) bool {
		return msg.RoomID == 10 && msg.SenderID == 2 &&
			msg.Content == "hello" && msg.Type == domain.MessageTypeText
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Message).ID = 7
		}).
		Return(nil).Once()

	// 除发送者外的参与者收到 new_message 通知
	f.notificationRepo.On("CreateBatch", ctx, mock.MatchedBy(func(batch []domain.Notification) bool {
		return len(batch) == 1 &&
			batch[0].RecipientID == 1 &&
			batch[0].Type == domain.NotificationNewMessage &&
			batch[0].MessageID != nil && *batch[0].MessageID == 7
	})).Return(nil).Once()

	f.messageRepo.On("FindByID", ctx, uint(7)).
		Return(&domain.Message{ID: 7, RoomID: 10, SenderID: 2, Content: "hello", Sender: &domain.User{ID: 2}}, nil).Once()

	message, err := f.svc.CreateMessage(ctx, 10, 2, "hello", "")

	require.NoError(t, err)
	assert.Equal(t, uint(7), message.ID)
	require.NotNil(t, message.Sender)
	f.notificationRepo.AssertExpectations(t)
}

func TestMessageService_CreateMessage_RoomNotLive(t *testing.T) {
	f := newMessageServiceFixture()
	ctx := context.Background()

	// 还没开始的房间
	room := liveRoom(10, 1)
	room.StartTime = time.Now().Add(time.Hour)
	room.EndTime = time.Now().Add(2 * time.Hour)
	f.roomRepo.On("FindByID", ctx, uint(10)).Return(room, nil).Once()

	_, err := f.svc.CreateMessage(ctx, 10, 1, "too early", domain.MessageTypeText)

	assert.ErrorIs(t, err, service.ErrRoomNotLive)
	f.messageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMessageService_CreateMessage_NonParticipantForbidden(t *testing.T) {
	f := newMessageServiceFixture()
	ctx := context.Background()

	f.roomRepo.On("FindByID", ctx, uint(10)).Return(liveRoom(10, 1), nil).Once()

	_, err := f.svc.CreateMessage(ctx, 10, 99, "intruder", domain.MessageTypeText)

	assert.ErrorIs(t, err, service.ErrRoomAccessForbidden)
}

// 通知创建失败时消息本身仍然成功
func TestMessageService_CreateMessage_FanOutFailureIsNonFatal(t *testing.T) {
	f := newMessageServiceFixture()
	ctx := context.Background()

	room := liveRoom(10, 1)
	room.Participants = append(room.Participants, domain.User{ID: 2})
	f.roomRepo.On("FindByID", ctx, uint(10)).Return(room, nil).Once()
	f.messageRepo.On("Create", ctx, mock.AnythingOfType("*domain.Message")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Message).ID = 7
		}).
		Return(nil).Once()
	f.notificationRepo.On("CreateBatch", ctx, mock.Anything).Return(assert.AnError).Once()
	f.messageRepo.On("FindByID", ctx, uint(7)).
		Return(&domain.Message{ID: 7}, nil).Once()

	message, err := f.svc.CreateMessage(ctx, 10, 2, "hello", domain.MessageTypeText)

	require.NoError(t, err)
	assert.Equal(t, uint(7), message.ID)
}

func TestMessageService_DeleteMessage_SenderOnly(t *testing.T) {
	f := newMessageServiceFixture()
	ctx := context.Background()

	f.messageRepo.On("FindByID", ctx, uint(7)).
		Return(&domain.Message{ID: 7, SenderID: 2}, nil).Once()

	err := f.svc.DeleteMessage(ctx, 7, 3)

	assert.ErrorIs(t, err, service.ErrMessageDeleteForbidden)
	f.messageRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestMessageService_DeleteMessage_Success(t *testing.T) {
	f := newMessageServiceFixture()
	ctx := context.Background()

	f.messageRepo.On("FindByID", ctx, uint(7)).
		Return(&domain.Message{ID: 7, SenderID: 2}, nil).Once()
	f.messageRepo.On("Delete", ctx, uint(7)).Return(nil).Once()

	require.NoError(t, f.svc.DeleteMessage(ctx, 7, 2))
	f.messageRepo.AssertExpectations(t)
}

func TestMessageService_DeleteMessage_NotFound(t *testing.T) {
	f := newMessageServiceFixture()
	ctx := context.Background()

	f.messageRepo.On("FindByID", ctx, uint(99)).
		Return(nil, repository.ErrMessageNotFound).Once()

	err := f.svc.DeleteMessage(ctx, 99, 2)
	assert.ErrorIs(t, err, service.ErrMessageNotFound)
}
