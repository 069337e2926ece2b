package repository

import (
	"context"

	"github.com/arnabAdhikary98/room-loop/internal/domain"
)

// MessageRepository 定义了消息数据的存储和检索操作。
type MessageRepository interface {
	// FindByID 根据消息 ID 查找消息 (preload Sender)。
	// 如果消息不存在，返回 ErrMessageNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Message, error)

	// FindByRoom 返回房间内按时间升序排列的全部消息 (preload Sender)。
	FindByRoom(ctx context.Context, roomID uint) ([]domain.Message, error)

	// Create 创建一条新消息。
	Create(ctx context.Context, message *domain.Message) error

	// Delete 删除消息及引用它的通知。
	Delete(ctx context.Context, id uint) error
}
