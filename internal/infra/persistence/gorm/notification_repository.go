package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/arnabAdhikary98/room-loop/internal/domain"
	"github.com/arnabAdhikary98/room-loop/internal/repository"
)

// GormNotificationRepository 是 NotificationRepository 接口的 GORM 实现
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository 创建 GormNotificationRepository 实例
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	if db == nil {
		panic("database connection cannot be nil for GormNotificationRepository")
	}
	return &GormNotificationRepository{db: db}
}

// FindByRecipient 实现分页列出某用户的通知，按创建时间降序
func (r *GormNotificationRepository) FindByRecipient(ctx context.Context, recipientID uint, q repository.NotificationQuery) ([]domain.Notification, error) {
	var notifications []domain.Notification
	query := r.db.WithContext(ctx).
		Preload("Sender").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC")
	if q.UnreadOnly {
		query = query.Where("`read` = ?", false)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}
	if err := query.Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("gorm: find notifications for user %d: %w", recipientID, err)
	}
	return notifications, nil
}

// CountUnread 实现统计未读通知数量
func (r *GormNotificationRepository) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("recipient_id = ? AND `read` = ?", recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("gorm: count unread notifications for user %d: %w", recipientID, err)
	}
	return count, nil
}

// CreateBatch 实现批量创建通知
func (r *GormNotificationRepository) CreateBatch(ctx context.Context, notifications []domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&notifications).Error; err != nil {
		return fmt.Errorf("gorm: create %d notifications: %w", len(notifications), err)
	}
	return nil
}

// MarkAsRead 实现将属于某用户的一条通知标记为已读
func (r *GormNotificationRepository) MarkAsRead(ctx context.Context, id, recipientID uint) (*domain.Notification, error) {
	var notification domain.Notification
	err := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("gorm: find notification %d for user %d: %w", id, recipientID, err)
	}
	if !notification.Read {
		if err := r.db.WithContext(ctx).Model(&notification).Update("read", true).Error; err != nil {
			return nil, fmt.Errorf("gorm: mark notification %d as read: %w", id, err)
		}
		notification.Read = true
	}
	return &notification, nil
}

// MarkAllAsRead 实现将某用户全部未读通知标记为已读
func (r *GormNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID uint) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("recipient_id = ? AND `read` = ?", recipientID, false).
		Update("read", true).Error
	if err != nil {
		return fmt.Errorf("gorm: mark all notifications as read for user %d: %w", recipientID, err)
	}
	return nil
}
