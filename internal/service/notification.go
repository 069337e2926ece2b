package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/arnabAdhikary98/room-loop/internal/domain"
	"github.com/arnabAdhikary98/room-loop/internal/repository"
)

// DefaultNotificationLimit 是列表查询未指定 limit 时的默认页大小。
const DefaultNotificationLimit = 10

// NotificationService 负责通知的查询、已读状态管理和 fan-out 创建。
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	cache            repository.NotificationCache // 可选，nil 时直接查库
}

// NewNotificationService 创建 NotificationService 实例。
func NewNotificationService(notificationRepo repository.NotificationRepository, cache repository.NotificationCache) *NotificationService {
	if notificationRepo == nil {
		panic("NotificationRepository cannot be nil for NotificationService")
	}
	return &NotificationService{
		notificationRepo: notificationRepo,
		cache:            cache,
	}
}

// List 返回某用户的通知，按创建时间降序分页。
func (s *NotificationService) List(ctx context.Context, userID uint, q repository.NotificationQuery) ([]domain.Notification, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultNotificationLimit
	}
	notifications, err := s.notificationRepo.FindByRecipient(ctx, userID, q)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to list notifications")
		return nil, ErrInternalServer
	}
	return notifications, nil
}

// UnreadCount 返回某用户未读通知数量，优先走缓存。
// 缓存读写失败不影响结果，只记日志。
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	logCtx := logrus.WithField("user_id", userID)

	if s.cache != nil {
		count, hit, err := s.cache.GetUnreadCount(ctx, userID)
		if err != nil {
			logCtx.WithError(err).Warn("Unread count cache read failed")
		} else if hit {
			return count, nil
		}
	}

	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to count unread notifications")
		return 0, ErrInternalServer
	}

	if s.cache != nil {
		if err := s.cache.SetUnreadCount(ctx, userID, count); err != nil {
			logCtx.WithError(err).Warn("Unread count cache write failed")
		}
	}
	return count, nil
}

// MarkAsRead 将属于该用户的一条通知标记为已读。
func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID uint) (*domain.Notification, error) {
	notification, err := s.notificationRepo.MarkAsRead(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return nil, ErrNotificationNotFound
		}
		logrus.WithError(err).WithFields(logrus.Fields{"notification_id": id, "user_id": userID}).
			Error("Failed to mark notification as read")
		return nil, ErrInternalServer
	}
	s.invalidate(ctx, userID)
	return notification, nil
}

// MarkAllAsRead 将某用户的全部未读通知标记为已读。
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uint) error {
	if err := s.notificationRepo.MarkAllAsRead(ctx, userID); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to mark all notifications as read")
		return ErrInternalServer
	}
	s.invalidate(ctx, userID)
	return nil
}

// FanOut 批量创建通知并使接收者的未读缓存失效。
// 这是触发它的主操作 (房间更新 / 新消息 / 邀请) 之外的第二次独立写入：
// 两者不在同一事务里，fan-out 失败由调用方记日志，绝不使主操作失败。
func (s *NotificationService) FanOut(ctx context.Context, notifications []domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	if err := s.notificationRepo.CreateBatch(ctx, notifications); err != nil {
		return err
	}
	recipients := make([]uint, 0, len(notifications))
	for _, n := range notifications {
		recipients = append(recipients, n.RecipientID)
	}
	s.invalidate(ctx, recipients...)
	return nil
}

func (s *NotificationService) invalidate(ctx context.Context, userIDs ...uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUnreadCount(ctx, userIDs...); err != nil {
		logrus.WithError(err).Warn("Unread count cache invalidation failed")
	}
}
