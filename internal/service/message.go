package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arnabAdhikary98/room-loop/internal/domain"
	"github.com/arnabAdhikary98/room-loop/internal/repository"
)

// MessageService 处理房间内消息的读写。
type MessageService struct {
	messageRepo   repository.MessageRepository
	roomRepo      repository.RoomRepository
	notifications *NotificationService
}

// NewMessageService 创建 MessageService 实例。
func NewMessageService(
	messageRepo repository.MessageRepository,
	roomRepo repository.RoomRepository,
	notifications *NotificationService,
) *MessageService {
	if messageRepo == nil {
		panic("MessageRepository cannot be nil for MessageService")
	}
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for MessageService")
	}
	if notifications == nil {
		panic("NotificationService cannot be nil for MessageService")
	}
	return &MessageService{
		messageRepo:   messageRepo,
		roomRepo:      roomRepo,
		notifications: notifications,
	}
}

// GetRoomMessages 返回房间按时间升序的消息，仅参与者可读。
func (s *MessageService) GetRoomMessages(ctx context.Context, roomID, userID uint) ([]domain.Message, error) {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(room, userID); err != nil {
		return nil, err
	}
	messages, err := s.messageRepo.FindByRoom(ctx, roomID)
	if err != nil {
		logrus.WithError(err).WithField("room_id", roomID).Error("Failed to load room messages")
		return nil, ErrInternalServer
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

// CreateMessage 在 live 状态的房间内发消息，发送者必须是参与者。
// 成功后向其余参与者 fan-out new_message 通知 (尽力而为)。
func (s *MessageService) CreateMessage(ctx context.Context, roomID, senderID uint, content string, msgType domain.MessageType) (*domain.Message, error) {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": senderID})

	if content == "" {
		return nil, ErrMissingFields
	}
	if msgType == "" {
		msgType = domain.MessageTypeText
	}
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(room, senderID); err != nil {
		return nil, err
	}
	if err := requireLive(room.DeriveStatus(time.Now())); err != nil {
		return nil, err
	}

	message := &domain.Message{
		RoomID:   roomID,
		SenderID: senderID,
		Content:  content,
		Type:     msgType,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		logCtx.WithError(err).Error("Failed to save message")
		return nil, ErrInternalServer
	}

	s.fanOutNewMessage(ctx, room, message)

	created, err := s.messageRepo.FindByID(ctx, message.ID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to reload created message")
		return nil, ErrInternalServer
	}
	return created, nil
}

// DeleteMessage 删除消息，仅限发送者本人，级联删除引用它的通知。
func (s *MessageService) DeleteMessage(ctx context.Context, messageID, userID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"message_id": messageID, "user_id": userID})

	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return ErrMessageNotFound
		}
		logCtx.WithError(err).Error("Failed to load message")
		return ErrInternalServer
	}
	if message.SenderID != userID {
		return ErrMessageDeleteForbidden
	}
	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		logCtx.WithError(err).Error("Failed to delete message")
		return ErrInternalServer
	}
	logCtx.Info("Message deleted")
	return nil
}

func (s *MessageService) fanOutNewMessage(ctx context.Context, room *domain.Room, message *domain.Message) {
	roomID := room.ID
	senderID := message.SenderID
	messageID := message.ID

	senderName := "Someone"
	for _, p := range room.Participants {
		if p.ID == senderID && p.Name != "" {
			senderName = p.Name
			break
		}
	}

	notifications := make([]domain.Notification, 0, len(room.Participants))
	for _, p := range room.Participants {
		if p.ID == senderID {
			continue
		}
		notifications = append(notifications, domain.Notification{
			RecipientID: p.ID,
			SenderID:    &senderID,
			Type:        domain.NotificationNewMessage,
			Content:     fmt.Sprintf("%s sent a message in %q", senderName, room.Title),
			RoomID:      &roomID,
			RoomTitle:   room.Title,
			MessageID:   &messageID,
		})
	}
	if err := s.notifications.FanOut(ctx, notifications); err != nil {
		logrus.WithError(err).WithField("room_id", room.ID).
			Error("Failed to fan out new_message notifications")
	}
}

func (s *MessageService) loadRoom(ctx context.Context, id uint) (*domain.Room, error) {
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
