package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/arnabAdhikary98/room-loop/internal/domain"
	"github.com/arnabAdhikary98/room-loop/internal/repository"
)

// GormMessageRepository 是 MessageRepository 接口的 GORM 实现
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository 创建 GormMessageRepository 实例
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	if db == nil {
		panic("database connection cannot be nil for GormMessageRepository")
	}
	return &GormMessageRepository{db: db}
}

// FindByID 实现根据消息 ID 查找消息 (preload 发送者)
func (r *GormMessageRepository) FindByID(ctx context.Context, id uint) (*domain.Message, error) {
	var msg domain.Message
	err := r.db.WithContext(ctx).Preload("Sender").First(&msg, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMessageNotFound
		}
		return nil, fmt.Errorf("gorm: find message by id %d: %w", id, err)
	}
	return &msg, nil
}

// FindByRoom 实现按时间升序列出房间内的消息
func (r *GormMessageRepository) FindByRoom(ctx context.Context, roomID uint) ([]domain.Message, error) {
	var msgs []domain.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find messages for room %d: %w", roomID, err)
	}
	return msgs, nil
}

// Create 实现创建消息
func (r *GormMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("gorm: create message in room %d: %w", message.RoomID, err)
	}
	return nil
}

// Delete 实现删除消息并清理引用它的通知
func (r *GormMessageRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&domain.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Message{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("gorm: delete message %d: %w", id, err)
	}
	return nil
}
