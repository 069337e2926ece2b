package repository

import (
	"context"

	"github.com/arnabAdhikary98/room-loop/internal/domain"
)

// NotificationQuery 控制通知列表的分页和过滤。
type NotificationQuery struct {
	Limit      int
	Offset     int
	UnreadOnly bool
}

// NotificationRepository 定义了通知数据的存储和检索操作。
type NotificationRepository interface {
	// FindByRecipient 返回按创建时间降序排列的通知 (preload Sender)。
	FindByRecipient(ctx context.Context, recipientID uint, q NotificationQuery) ([]domain.Notification, error)

	// CountUnread 返回某用户未读通知的数量。
	CountUnread(ctx context.Context, recipientID uint) (int64, error)

	// CreateBatch 批量创建通知 (fan-out)。空切片直接返回 nil。
	CreateBatch(ctx context.Context, notifications []domain.Notification) error

	// MarkAsRead 将属于 recipientID 的一条通知标记为已读。
	// 不存在匹配记录时返回 ErrNotificationNotFound。
	MarkAsRead(ctx context.Context, id, recipientID uint) (*domain.Notification, error)

	// MarkAllAsRead 将某用户的全部未读通知标记为已读。
	MarkAllAsRead(ctx context.Context, recipientID uint) error
}

// NotificationCache 缓存未读数量，避免每次轮询都打到数据库。
// 任何写路径 (fan-out / 标记已读) 都必须使对应用户的缓存失效。
type NotificationCache interface {
	GetUnreadCount(ctx context.Context, userID uint) (int64, bool, error)
	SetUnreadCount(ctx context.Context, userID uint, count int64) error
	InvalidateUnreadCount(ctx context.Context, userIDs ...uint) error
}
