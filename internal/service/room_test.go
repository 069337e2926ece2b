package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arnabAdhikary98/room-loop/internal/domain"
	"github.com/arnabAdhikary98/room-loop/internal/repository"
	"github.com/arnabAdhikary98/room-loop/internal/repository/mocks"
	"github.com/arnabAdhikary98/room-loop/internal/service"
	"github.com/arnabAdhikary98/room-loop/internal/tasks"
)

// fakeEnqueuer 记录入队的任务，代替真实的 asynq.Client
type fakeEnqueuer struct {
	mock.Mock
}

func (f *fakeEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := f.Called(task)
	var info *asynq.TaskInfo
	if args.Get(0) != nil {
		info = args.Get(0).(*asynq.TaskInfo)
	}
	return info, args.Error(1)
}

type roomServiceFixture struct {
	roomRepo         *mocks.RoomRepository
	userRepo         *mocks.UserRepository
	inviteRepo       *mocks.InviteTokenRepository
	notificationRepo *mocks.NotificationRepository
	enqueuer         *fakeEnqueuer
	svc              *service.RoomService
}

func newRoomServiceFixture() *roomServiceFixture {
	f := &roomServiceFixture{
		roomRepo:         new(mocks.RoomRepository),
		userRepo:         new(mocks.UserRepository),
		inviteRepo:       new(mocks.InviteTokenRepository),
		notificationRepo: new(mocks.NotificationRepository),
		enqueuer:         new(fakeEnqueuer),
	}
	notifications := service.NewNotificationService(f.notificationRepo, nil)
	f.svc = service.NewRoomService(f.roomRepo, f.userRepo, f.inviteRepo, notifications, f.enqueuer, "http://localhost:3000")
	return f
}

func scheduledRoom(id, creatorID uint) *domain.Room {
	start := time.Now().Add(time.Hour)
	return &domain.Room{
		ID:           id,
		Title:        "Evening sync",
		Description:  "Weekly catch-up",
		StartTime:    start,
		EndTime:      start.Add(time.Hour),
		CreatorID:    creatorID,
		Participants: []domain.User{{ID: creatorID, Name: "Creator"}},
		Status:       domain.StatusScheduled,
		IsOpen:       true,
	}
}

func closedRoom(id, creatorID uint) *domain.Room {
	room := scheduledRoom(id, creatorID)
	room.StartTime = time.Now().Add(-2 * time.Hour)
	room.EndTime = time.Now().Add(-time.Hour)
	return room
}

func TestRoomService_ListRooms_DerivesAndFiltersStatus(t *testing.T) {
	f := newRoomServiceFixture()
	ctx := context.Background()

	now := time.Now()
	stored := []domain.Room{
		{ID: 1, StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)},   // scheduled
		{ID: 2, StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour)},      // live
		{ID: 3, StartTime: now.Add(-3 * time.Hour), EndTime: now.Add(-time.Hour)}, // closed
	}
	f.roomRepo.On("FindAll", ctx, repository.RoomFilter{}).Return(stored, nil).Once()

	rooms, err := f.svc.ListRooms(ctx, "live", "")

	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, uint(2), rooms[0].ID)
	assert.Equal(t, domain.StatusLive, rooms[0].Status)
}

func TestRoomService_CreateRoom_AddsCreatorAsParticipant(t *testing.T) {
	f := newRoomServiceFixture()
	ctx := context.Background()

	start := time.Now().Add(time.Hour)
	f.userRepo.On("FindByID", ctx, uint(1)).Return(&domain.User{ID: 1}, nil).Once()
	f.roomRepo.On("Save", ctx, mock.MatchedBy(func(room *domain.Room) bool {
		assert.Equal(t, domain.StatusScheduled, room.Status)
		assert.True(t, room.IsOpen, "未指定时默认开放")
		return room.CreatorID == 1
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Room).ID = 10
		}).
		Return(nil).Once()
	f.roomRepo.On("AddParticipant", ctx, uint(10), uint(1)).Return(nil).Once()
	f.roomRepo.On("FindByID", ctx, uint(10)).Return(scheduledRoom(10, 1), nil).Once()

	room, err := f.svc.CreateRoom(ctx, 1, service.CreateRoomInput{
		Title:       "Evening sync",
		Description: "Weekly catch-up",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
	})

	require.NoError(t, err)
	assert.Equal(t, uint(10), room.ID)
	f.roomRepo.AssertExpectations(t)
}

func TestRoomService_CreateRoom_InvalidWindow(t *testing.T) {
	f := newRoomServiceFixture()

	start := time.Now().Add(2 * time.Hour)
	_, err := f.svc.CreateRoom(context.Background(), 1, service.CreateRoomInput{
		Title:       "Backwards",
		Description: "End before start",
		StartTime:   start,
		EndTime:     start.Add(-time.Hour),
	})

	assert.ErrorIs(t, err, service.ErrInvalidTimeWindow)
	f.roomRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRoomService_UpdateRoom_NonCreatorForbidden(t *testing.T) {
	f := newRoomServiceFixture()
	ctx := context.Background()

	f.roomRepo.On("FindByID", ctx, uint(10)).Return(scheduledRoom(10, 1), nil).Once()

	title := "Hijacked"
	_, err := f.svc.UpdateRoom(ctx, 10, 2, service.UpdateRoomInput{Title: &title})

	assert.ErrorIs(t, err, service.ErrRoomUpdateForbidden)
	f.roomRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// reschedule 已关闭的房间: 新时间窗口有效则状态重置为 scheduled
func TestRoomService_UpdateRoom_RescheduleReopens(t *testing.T) {
	f := newRoomServiceFixture()
	ctx := context.Background()

	room := closedRoom(10, 1)
	f.roomRepo.On("FindByID", ctx, uint(10)).Return(room, nil).Once()

	newStart := time.Now().Add(24 * time.Hour)
	newEnd := newStart.Add(time.Hour)
	f.roomRepo.On("Save", ctx, mock.MatchedBy(func(saved *domain.Room) bool {
		assert.Equal(t, domain.StatusScheduled, saved.Status, "reschedule 后状态应重置为 scheduled")
		return saved.StartTime.Equal(newStart) && saved.EndTime.Equal(newEnd)
	})).Return(nil).Once()

	reloaded := scheduledRoom(10, 1)
	reloaded.StartTime = newStart
	reloaded.EndTime = newEnd
	f.roomRepo.On("FindByID", ctx, uint(10)).Return(reloaded, nil).Once()

	updated, err := f.svc.UpdateRoom(ctx, 10, 1, service.UpdateRoomInput{
		StartTime: &newStart,
		EndTime:   &newEnd,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, updated.Status)
}

func TestRoomService_UpdateRoom_RescheduleStartInPast(t *testing.T) {
	f := newRoomServiceFixture()
	ctx := context.Background()

	f.roomRepo.On("FindByID", ctx, uint(10)).Return(scheduledRoom(10, 1), nil).Once()

	pastStart := time.Now().Add(-time.Hour)
	newEnd := time.Now().Add(time.Hour)
	_, err := f.svc.UpdateRoom(ctx, 10, 1, service.UpdateRoomInput{
		StartTime: &pastStart,
		EndTime:   &newEnd,
	})

	assert.ErrorIs(t, err, service.ErrStartInPast)
	f.roomRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// 更新成功后向其他参与者 fan-out room_update 通知
func TestRoomService_UpdateRoom_FansOutToOtherParticipants(t *testing.T) {
	f := newRoomServiceFixture()
	ctx := context.Background()

	room := scheduledRoom(10, 1)
	room.Participants = []domain.User{{ID: 1}, {ID: 2}, {ID: 3}}
	f.roomRepo.On("FindByID", ctx, uint(10)).Return(room, nil).Twice()
	f.roomRepo.On("Save", ctx, mock.AnythingOfType("*domain.Room")).Return(nil).Once()

	f.notificationRepo.On("CreateBatch", ctx, mock.MatchedBy(func(batch []domain.Notification) bool {
		if len(batch) != 2 {
			return false
		}
		for _, n := range batch {
			assert.Equal(t, domain.NotificationRoomUpdate, n.Type)
			assert.NotEqual(t, uint(1), n.RecipientID, "请求者本人不应收到通知")
		}
		return true
	})).Return(nil).Once()

	title := "Renamed"
	_, err := f.svc.UpdateRoom(ctx, 10, 1, service.UpdateRoomInput{Title: &title})

	require.NoError(t, err)
	f.notificationRepo.AssertExpectations(t)
}

// fan-out 失败不应让更新本身失败
func TestRoomService_UpdateRoom_FanOutFailureIsNonFatal(t *testing.T) {
	f := newRoomServiceFixture()
	ctx := context.Background()

	room := scheduledRoom(10, 1)
	room.Participants = []domain.User{{ID: 1}, {ID: 2}}
	f.roomRepo.On("FindByID", ctx, uint(10)).Return(room, nil).Twice()
	f.roomRepo.On("Save", ctx, mock.AnythingOfType("*domain.Room")).Return(nil).Once()
	f.notificationRepo.On("CreateBatch", ctx, mock.Anything).
		Return(assert.AnError).Once()

	title := "Still works"
	_, err := f.svc.UpdateRoom(ctx, 10, 1, service.UpdateRoomInput{Title: &title})

	require.NoError(t, err)
}

func TestRoomService_DeleteRoom_NonCreatorForbidden(t *testing.T) {
	f := newRoomServiceFixture()
	ctx := context.Background()

	f.roomRepo.On("FindByID", ctx, uint(10)).Return(scheduledRoom(10, 1), nil).Once()

	err := f.svc.DeleteRoom(ctx, 10, 2)

	assert.ErrorIs(t, err, service.ErrRoomDeleteForbidden)
	f.roomRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRoomService_DeleteRoom_Success(t *testing.T) {
	f := newRoomServiceFixture()
	ctx := context.Background()

	f.roomRepo.On("FindByID", ctx, uint(10)).Return(scheduledRoom(10, 1), nil).Once()
	f.roomRepo.On("Delete", ctx, uint(10)).Return(nil).Once()

	require.NoError(t, f.svc.DeleteRoom(ctx, 10, 1))
	f.roomRepo.AssertExpectations(t)
}

func TestRoomService_JoinRoom_Success(t *testing.T) {
	f := newRoomServiceFixture()
	ctx := context.Background()

	f.roomRepo.On("FindByID", ctx, uint(10)).Return(scheduledRoom(10, 1), nil).Once()
	f.roomRepo.On("AddParticipant", ctx, uint(10), uint(2)).Return(nil).Once()

	require.NoError(t, f.svc.JoinRoom(ctx, 10, 2))
	f.roomRepo.AssertExpectations(t)
}

func TestRoomService_JoinRoom_ClosedRoom(t *testing.T) {
	f := newRoomServiceFixture()
	ctx := context.Background()

	f.roomRepo.On("FindByID", ctx, uint(10)).Return(closedRoom(10, 1), nil).Once()

	err := f.svc.JoinRoom(ctx, 10, 2)

	assert.ErrorIs(t, err, service.ErrRoomClosed)
	f.roomRepo.AssertNotCalled(t, "AddParticipant", mock.Anything, mock.Anything, mock.Anything)
}

func TestRoomService_JoinRoom_AlreadyParticipant(t *testing.T) {
	f := newRoomServiceFixture()
	ctx := context.Background()

	room := scheduledRoom(10, 1)
	room.Participants = append(room.Participants, domain.User{ID: 2})
	f.roomRepo.On("FindByID", ctx, uint(10)).Return(room, nil).Once()

	err := f.svc.JoinRoom(ctx, 10, 2)

	assert.ErrorIs(t, err, service.ErrAlreadyParticipant)
	f.roomRepo.AssertNotCalled(t, "AddParticipant", mock.Anything, mock.Anything, mock.Anything)
}

func TestRoomService_InviteToRoom_NonCreatorForbidden(t *testing.T) {
	f := newRoomServiceFixture()
	ctx := context.Background()

	f.roomRepo.On("FindByID", ctx, uint(10)).Return(scheduledRoom(10, 1), nil).Once()

	err := f.svc.InviteToRoom(ctx, 10, 2, "friend@example.com")

	assert.ErrorIs(t, err, service.ErrInviteForbidden)
}

// 邀请已注册用户: 创建 room_invite 通知并入队一封加入链接邮件
func TestRoomService_InviteToRoom_ExistingUser(t *testing.T) {
	f := newRoomServiceFixture()
	ctx := context.Background()

	f.roomRepo.On("FindByID", ctx, uint(10)).Return(scheduledRoom(10, 1), nil).Once()
	f.userRepo.On("FindByEmail", ctx, "friend@example.com").
		Return(&domain.User{ID: 2, Email: "friend@example.com"}, nil).Once()

	f.notificationRepo.On("CreateBatch", ctx, mock.MatchedBy(func(batch []domain.Notification) bool {
		return len(batch) == 1 &&
			batch[0].RecipientID == 2 &&
			batch[0].Type == domain.NotificationRoomInvite
	})).Return(nil).Once()

	f.enqueuer.On("Enqueue", mock.MatchedBy(func(task *asynq.Task) bool {
		return task.Type() == tasks.TypeEmailDelivery
	})).Return(nil, nil).Once()

	err := f.svc.InviteToRoom(ctx, 10, 1, "friend@example.com")

	require.NoError(t, err)
	f.notificationRepo.AssertExpectations(t)
	f.enqueuer.AssertExpectations(t)
	f.inviteRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRoomService_InviteToRoom_ExistingParticipant(t *testing.T) {
	f := newRoomServiceFixture()
	ctx := context.Background()

	room := scheduledRoom(10, 1)
	room.Participants = append(room.Participants, domain.User{ID: 2})
	f.roomRepo.On("FindByID", ctx, uint(10)).Return(room, nil).Once()
	f.userRepo.On("FindByEmail", ctx, "member@example.com").
		Return(&domain.User{ID: 2}, nil).Once()

	err := f.svc.InviteToRoom(ctx, 10, 1, "member@example.com")

	assert.ErrorIs(t, err, service.ErrAlreadyParticipant)
}

// 邀请未注册邮箱: 落库一次性令牌 (7 天有效) 并入队一封注册链接邮件
func TestRoomService_InviteToRoom_UnknownEmailCreatesToken(t *testing.T) {
	f := newRoomServiceFixture()
	ctx := context.Background()

	f.roomRepo.On("FindByID", ctx, uint(10)).Return(scheduledRoom(10, 1), nil).Once()
	f.userRepo.On("FindByEmail", ctx, "stranger@example.com").
		Return(nil, repository.ErrUserNotFound).Once()

	f.inviteRepo.On("Create", ctx, mock.MatchedBy(func(token *domain.InviteToken) bool {
		assert.Equal(t, "stranger@example.com", token.Email)
		assert.Equal(t, uint(10), token.RoomID)
		assert.Len(t, token.Token, 32)
		assert.WithinDuration(t, time.Now().Add(domain.InviteTokenTTL), token.ExpiresAt, time.Minute)
		return true
	})).Return(nil).Once()

	f.enqueuer.On("Enqueue", mock.MatchedBy(func(task *asynq.Task) bool {
		return task.Type() == tasks.TypeEmailDelivery
	})).Return(nil, nil).Once()

	err := f.svc.InviteToRoom(ctx, 10, 1, "stranger@example.com")

	require.NoError(t, err)
	f.inviteRepo.AssertExpectations(t)
	f.enqueuer.AssertNumberOfCalls(t, "Enqueue", 1)
	f.notificationRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

// 邮件入队失败不应让邀请失败
func TestRoomService_InviteToRoom_EnqueueFailureIsNonFatal(t *testing.T) {
	f := newRoomServiceFixture()
	ctx := context.Background()

	f.roomRepo.On("FindByID", ctx, uint(10)).Return(scheduledRoom(10, 1), nil).Once()
	f.userRepo.On("FindByEmail", ctx, "stranger@example.com").
		Return(nil, repository.ErrUserNotFound).Once()
	f.inviteRepo.On("Create", ctx, mock.AnythingOfType("*domain.InviteToken")).Return(nil).Once()
	f.enqueuer.On("Enqueue", mock.Anything).Return(nil, assert.AnError).Once()

	err := f.svc.InviteToRoom(ctx, 10, 1, "stranger@example.com")

	require.NoError(t, err)
}

// 令牌唯一索引冲突时重新生成
func TestRoomService_InviteToRoom_RetriesOnDuplicateToken(t *testing.T) {
	f := newRoomServiceFixture()
	ctx := context.Background()

	f.roomRepo.On("FindByID", ctx, uint(10)).Return(scheduledRoom(10, 1), nil).Once()
	f.userRepo.On("FindByEmail", ctx, "stranger@example.com").
		Return(nil, repository.ErrUserNotFound).Once()
	f.inviteRepo.On("Create", ctx, mock.AnythingOfType("*domain.InviteToken")).
		Return(repository.ErrDuplicateEntry).Once()
	f.inviteRepo.On("Create", ctx, mock.AnythingOfType("*domain.InviteToken")).
		Return(nil).Once()
	f.enqueuer.On("Enqueue", mock.Anything).Return(nil, nil).Once()

	err := f.svc.InviteToRoom(ctx, 10, 1, "stranger@example.com")

	require.NoError(t, err)
	f.inviteRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestRoomService_GetRoom_NotFound(t *testing.T) {
	f := newRoomServiceFixture()
	ctx := context.Background()

	f.roomRepo.On("FindByID", ctx, uint(99)).Return(nil, repository.ErrRoomNotFound).Once()

	_, err := f.svc.GetRoom(ctx, 99)
	assert.ErrorIs(t, err, service.ErrRoomNotFound)
}
