package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/arnabAdhikary98/room-loop/internal/domain"
	"github.com/arnabAdhikary98/room-loop/internal/repository"
	"github.com/arnabAdhikary98/room-loop/internal/tasks"
)

// TaskEnqueuer 抽象 asynq 客户端，便于在测试中替换。
// *asynq.Client 直接满足这个接口。
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RoomService 负责房间生命周期管理：状态派生、创建/更新/删除、加入和邀请。
type RoomService struct {
	roomRepo   repository.RoomRepository
	userRepo   repository.UserRepository
	inviteRepo repository.InviteTokenRepository

	notifications *NotificationService
	enqueuer      TaskEnqueuer // 可选，nil 时邀请邮件只记日志
	baseURL       string       // 邮件里的链接前缀
}

// NewRoomService 创建 RoomService 实例。
func NewRoomService(
	roomRepo repository.RoomRepository,
	userRepo repository.UserRepository,
	inviteRepo repository.InviteTokenRepository,
	notifications *NotificationService,
	enqueuer TaskEnqueuer,
	baseURL string,
) *RoomService {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for RoomService")
	}
	if userRepo == nil {
		panic("UserRepository cannot be nil for RoomService")
	}
	if inviteRepo == nil {
		panic("InviteTokenRepository cannot be nil for RoomService")
	}
	if notifications == nil {
		panic("NotificationService cannot be nil for RoomService")
	}
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	return &RoomService{
		roomRepo:      roomRepo,
		userRepo:      userRepo,
		inviteRepo:    inviteRepo,
		notifications: notifications,
		enqueuer:      enqueuer,
		baseURL:       baseURL,
	}
}

// CreateRoomInput 是创建房间的输入。
type CreateRoomInput struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Tags        domain.StringList
	IsOpen      *bool
}

// UpdateRoomInput 是更新房间的 patch，nil 字段表示不修改。
type UpdateRoomInput struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	Tags        *domain.StringList
	IsOpen      *bool
}

// ListRooms 返回按开始时间升序排列的房间列表，状态为读取时刻的派生值。
// status 过滤基于派生状态，在内存中进行；tag 过滤下推到存储层。
func (s *RoomService) ListRooms(ctx context.Context, status, tag string) ([]domain.Room, error) {
	rooms, err := s.roomRepo.FindAll(ctx, repository.RoomFilter{Tag: tag})
	if err != nil {
		logrus.WithError(err).Error("Failed to list rooms")
		return nil, ErrInternalServer
	}
	now := time.Now()
	result := make([]domain.Room, 0, len(rooms))
	for i := range rooms {
		rooms[i].Status = rooms[i].DeriveStatus(now)
		if status != "" && rooms[i].Status != domain.RoomStatus(status) {
			continue
		}
		result = append(result, rooms[i])
	}
	return result, nil
}

// GetRoom 返回带派生状态的单个房间 (populate 创建者和参与者)。
func (s *RoomService) GetRoom(ctx context.Context, id uint) (*domain.Room, error) {
	room, err := s.loadRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	room.Status = room.DeriveStatus(time.Now())
	return room, nil
}

// CreateRoom 创建新房间。创建者始终进入参与者集合。
func (s *RoomService) CreateRoom(ctx context.Context, creatorID uint, in CreateRoomInput) (*domain.Room, error) {
	logCtx := logrus.WithField("creator_id", creatorID)

	if in.Title == "" || in.Description == "" || in.StartTime.IsZero() || in.EndTime.IsZero() {
		return nil, ErrMissingFields
	}
	if !in.StartTime.Before(in.EndTime) {
		return nil, ErrInvalidTimeWindow
	}

	// 创建者记录消失时返回 404，而不是写入悬空引用
	if _, err := s.userRepo.FindByID(ctx, creatorID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logCtx.WithError(err).Error("Failed to load creator during room creation")
		return nil, ErrInternalServer
	}

	isOpen := true
	if in.IsOpen != nil {
		isOpen = *in.IsOpen
	}
	tags := in.Tags
	if tags == nil {
		tags = domain.StringList{}
	}
	room := &domain.Room{
		Title:       in.Title,
		Description: in.Description,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		CreatorID:   creatorID,
		Tags:        tags,
		Status:      domain.DeriveStatus(in.StartTime, in.EndTime, time.Now()),
		IsOpen:      isOpen,
	}
	if err := s.roomRepo.Save(ctx, room); err != nil {
		logCtx.WithError(err).Error("Failed to save new room")
		return nil, ErrInternalServer
	}
	if err := s.roomRepo.AddParticipant(ctx, room.ID, creatorID); err != nil {
		logCtx.WithError(err).WithField("room_id", room.ID).Error("Failed to add creator as participant")
		return nil, ErrInternalServer
	}

	logCtx.WithField("room_id", room.ID).Info("Room created successfully")
	return s.GetRoom(ctx, room.ID)
}

// UpdateRoom 更新房间 (仅限创建者)。修改时间窗口即 reschedule：
// 校验新窗口后强制把状态写回 scheduled，已结束的房间因此重新打开。
// 成功后向除请求者外的所有参与者 fan-out room_update 通知 (尽力而为)。
func (s *RoomService) UpdateRoom(ctx context.Context, roomID, requesterID uint, in UpdateRoomInput) (*domain.Room, error) {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": requesterID})

	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := requireCreator(room, requesterID, ErrRoomUpdateForbidden); err != nil {
		return nil, err
	}

	if in.Title != nil {
		room.Title = *in.Title
	}
	if in.Description != nil {
		room.Description = *in.Description
	}
	if in.Tags != nil {
		room.Tags = *in.Tags
	}
	if in.IsOpen != nil {
		room.IsOpen = *in.IsOpen
	}
	if in.StartTime != nil || in.EndTime != nil {
		newStart := room.StartTime
		newEnd := room.EndTime
		if in.StartTime != nil {
			newStart = *in.StartTime
		}
		if in.EndTime != nil {
			newEnd = *in.EndTime
		}
		if !newStart.Before(newEnd) {
			return nil, ErrInvalidTimeWindow
		}
		if newStart.Before(time.Now()) {
			return nil, ErrStartInPast
		}
		room.StartTime = newStart
		room.EndTime = newEnd
		room.Status = domain.StatusScheduled
	}

	if err := s.roomRepo.Save(ctx, room); err != nil {
		logCtx.WithError(err).Error("Failed to save room update")
		return nil, ErrInternalServer
	}

	// fan-out 与主写入不在同一事务：失败只记日志
	s.fanOutRoomUpdate(ctx, room, requesterID)

	logCtx.Info("Room updated successfully")
	return s.GetRoom(ctx, roomID)
}

// DeleteRoom 删除房间 (仅限创建者)，级联删除成员关系、消息和相关通知。
func (s *RoomService) DeleteRoom(ctx context.Context, roomID, requesterID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": requesterID})

	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if err := requireCreator(room, requesterID, ErrRoomDeleteForbidden); err != nil {
		return err
	}
	if err := s.roomRepo.Delete(ctx, roomID); err != nil {
		logCtx.WithError(err).Error("Failed to delete room")
		return ErrInternalServer
	}
	logCtx.Info("Room deleted")
	return nil
}

// JoinRoom 处理用户加入房间。已关闭的房间和重复加入都会被拒绝。
func (s *RoomService) JoinRoom(ctx context.Context, roomID, userID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID})

	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.DeriveStatus(time.Now()) == domain.StatusClosed {
		return ErrRoomClosed
	}
	if room.HasParticipant(userID) {
		return ErrAlreadyParticipant
	}
	if err := s.roomRepo.AddParticipant(ctx, roomID, userID); err != nil {
		logCtx.WithError(err).Error("Failed to add participant")
		return ErrInternalServer
	}
	logCtx.Info("User joined room")
	return nil
}

// InviteToRoom 处理创建者按邮箱邀请。
// 已注册的邮箱收到 room_invite 通知和加入链接；未注册的邮箱得到一个
// 7 天有效的一次性令牌和注册链接。邮件经由任务队列投递，尽力而为。
func (s *RoomService) InviteToRoom(ctx context.Context, roomID, inviterID uint, email string) error {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": inviterID, "invite_email": email})

	if email == "" {
		return ErrMissingFields
	}
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if err := requireCreator(room, inviterID, ErrInviteForbidden); err != nil {
		return err
	}

	invited, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return s.inviteExistingUser(ctx, logCtx, room, invited)
	case errors.Is(err, repository.ErrUserNotFound):
		return s.inviteByToken(ctx, logCtx, room, inviterID, email)
	default:
		logCtx.WithError(err).Error("Failed to resolve invite email")
		return ErrInternalServer
	}
}

func (s *RoomService) inviteExistingUser(ctx context.Context, logCtx *logrus.Entry, room *domain.Room, invited *domain.User) error {
	if room.HasParticipant(invited.ID) {
		return ErrAlreadyParticipant
	}

	roomID := room.ID
	senderID := room.CreatorID
	notification := domain.Notification{
		RecipientID: invited.ID,
		SenderID:    &senderID,
		Type:        domain.NotificationRoomInvite,
		Content:     fmt.Sprintf("You've been invited to join %q", room.Title),
		RoomID:      &roomID,
		RoomTitle:   room.Title,
	}
	if err := s.notifications.FanOut(ctx, []domain.Notification{notification}); err != nil {
		logCtx.WithError(err).Error("Failed to create invite notification")
		return ErrInternalServer
	}

	joinLink := fmt.Sprintf("%s/rooms/%d", s.baseURL, room.ID)
	s.enqueueInviteEmail(logCtx, room, invited.Email, joinLink, false)
	logCtx.Info("Invite sent to existing user")
	return nil
}

func (s *RoomService) inviteByToken(ctx context.Context, logCtx *logrus.Entry, room *domain.Room, inviterID uint, email string) error {
	token, err := s.createInviteToken(ctx, room.ID, inviterID, email)
	if err != nil {
		logCtx.WithError(err).Error("Failed to create invite token")
		return ErrInternalServer
	}

	signupLink := fmt.Sprintf("%s/auth/signup?email=%s&invite=%s&roomId=%d",
		s.baseURL, url.QueryEscape(email), token.Token, room.ID)
	s.enqueueInviteEmail(logCtx, room, email, signupLink, true)
	logCtx.Info("Invite token issued for unregistered email")
	return nil
}

// createInviteToken 生成唯一令牌并落库。唯一索引冲突时重试。
func (s *RoomService) createInviteToken(ctx context.Context, roomID, inviterID uint, email string) (*domain.InviteToken, error) {
	const maxAttempts = 5
	for attempt := 0; attempt < maxAttempts; attempt++ {
		b := make([]byte, 16)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("failed to generate random token: %w", err)
		}
		token := &domain.InviteToken{
			Token:     hex.EncodeToString(b),
			Email:     email,
			RoomID:    roomID,
			CreatorID: inviterID,
			ExpiresAt: time.Now().Add(domain.InviteTokenTTL),
		}
		err := s.inviteRepo.Create(ctx, token)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, err
		}
		// 128 位随机数碰撞几乎不可能，但唯一索引在，就按冲突重试
	}
	return nil, fmt.Errorf("failed to generate a unique invite token after %d attempts", maxAttempts)
}

func (s *RoomService) enqueueInviteEmail(logCtx *logrus.Entry, room *domain.Room, to, link string, signup bool) {
	subject := fmt.Sprintf("You've been invited to join %q on RoomLoop", room.Title)
	action := "Click here to join"
	if signup {
		action = "Sign up to join"
	}
	creatorName := ""
	if room.Creator != nil {
		creatorName = room.Creator.Name
	}
	payload := tasks.EmailDeliveryPayload{
		To:      to,
		Subject: subject,
		Text: fmt.Sprintf("%s has invited you to join a room titled %q on RoomLoop. %s: %s",
			creatorName, room.Title, action, link),
		HTML: fmt.Sprintf(
			"<h2>You've been invited to a room on RoomLoop</h2>"+
				"<p><strong>%s</strong> has invited you to join a room titled <strong>%q</strong></p>"+
				"<p>This room is scheduled for: %s - %s</p>"+
				`<p><a href="%s">%s</a></p>`,
			creatorName, room.Title,
			room.StartTime.Format(time.RFC1123), room.EndTime.Format(time.RFC1123),
			link, action),
	}

	if s.enqueuer == nil {
		logCtx.WithField("to", to).Info("Mail queue not configured, skipping invite email")
		return
	}
	payloadBytes, err := tasks.NewEmailDeliveryTask(payload)
	if err != nil {
		logCtx.WithError(err).Error("Failed to build invite email task")
		return
	}
	if _, err := s.enqueuer.Enqueue(asynq.NewTask(tasks.TypeEmailDelivery, payloadBytes)); err != nil {
		// 邮件与邀请主操作一样是两次独立写入，入队失败不回滚邀请
		logCtx.WithError(err).Error("Failed to enqueue invite email")
	}
}

func (s *RoomService) fanOutRoomUpdate(ctx context.Context, room *domain.Room, requesterID uint) {
	roomID := room.ID
	senderID := requesterID
	notifications := make([]domain.Notification, 0, len(room.Participants))
	for _, p := range room.Participants {
		if p.ID == requesterID {
			continue
		}
		notifications = append(notifications, domain.Notification{
			RecipientID: p.ID,
			SenderID:    &senderID,
			Type:        domain.NotificationRoomUpdate,
			Content:     fmt.Sprintf("The room %q has been updated", room.Title),
			RoomID:      &roomID,
			RoomTitle:   room.Title,
		})
	}
	if err := s.notifications.FanOut(ctx, notifications); err != nil {
		logrus.WithError(err).WithField("room_id", room.ID).
			Error("Failed to fan out room_update notifications")
	}
}

func (s *RoomService) loadRoom(ctx context.Context, id uint) (*domain.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		logrus.WithError(err).WithField("room_id", id).Error("Failed to load room")
		return nil, ErrInternalServer
	}
	return room, nil
}
