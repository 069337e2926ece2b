package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arnabAdhikary98/room-loop/internal/domain"
	"github.com/arnabAdhikary98/room-loop/internal/repository"
)

// GormRoomRepository 是 RoomRepository 接口的 GORM 实现
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository 创建 GormRoomRepository 实例
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	if db == nil {
		panic("database connection cannot be nil for GormRoomRepository")
	}
	return &GormRoomRepository{db: db}
}

// FindByID 实现根据房间 ID 查找房间 (preload 创建者和参与者)
func (r *GormRoomRepository) FindByID(ctx context.Context, id uint) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Participants").
		First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: find room by id %d: %w", id, err)
	}
	return &room, nil
}

// FindAll 实现按条件列出房间，按开始时间升序
func (r *GormRoomRepository) FindAll(ctx context.Context, filter repository.RoomFilter) ([]domain.Room, error) {
	var rooms []domain.Room
	q := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Participants").
		Order("start_time ASC")
	if filter.Tag != "" {
		// tags 是 JSON 数组列，按序列化后的元素匹配
		q = q.Where("tags LIKE ?", fmt.Sprintf(`%%"%s"%%`, filter.Tag))
	}
	if err := q.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("gorm: find rooms: %w", err)
	}
	return rooms, nil
}

// FindByCreator 实现查询某用户创建的全部房间
func (r *GormRoomRepository) FindByCreator(ctx context.Context, creatorID uint) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("creator_id = ?", creatorID).
		Order("start_time ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find rooms by creator %d: %w", creatorID, err)
	}
	return rooms, nil
}

// FindByParticipant 实现查询某用户作为参与者 (非创建者) 的房间
func (r *GormRoomRepository) FindByParticipant(ctx context.Context, userID uint) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Joins("JOIN room_participants rp ON rp.room_id = rooms.id").
		Where("rp.user_id = ? AND rooms.creator_id <> ?", userID, userID).
		Order("rooms.start_time ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find rooms by participant %d: %w", userID, err)
	}
	return rooms, nil
}

// Save 实现保存房间信息（创建或更新）
// 参与者集合通过 AddParticipant 单独维护，这里不写关联表。
func (r *GormRoomRepository) Save(ctx context.Context, room *domain.Room) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(room).Error
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save room (id: %d): %w", room.ID, err)
	}
	return nil
}

// AddParticipant 实现将用户加入参与者集合 (INSERT IGNORE, 幂等)
func (r *GormRoomRepository) AddParticipant(ctx context.Context, roomID, userID uint) error {
	err := r.db.WithContext(ctx).
		Exec("INSERT IGNORE INTO room_participants (room_id, user_id) VALUES (?, ?)", roomID, userID).Error
	if err != nil {
		return fmt.Errorf("gorm: add participant %d to room %d: %w", userID, roomID, err)
	}
	return nil
}

// Delete 实现删除房间并级联清理成员关系、消息和相关通知
func (r *GormRoomRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM room_participants WHERE room_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", id).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", id).Delete(&domain.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", id).Delete(&domain.InviteToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Room{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("gorm: delete room %d: %w", id, err)
	}
	return nil
}
