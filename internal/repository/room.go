package repository

import (
	"context"

	"github.com/arnabAdhikary98/room-loop/internal/domain"
)

// RoomFilter 限定 FindAll 返回的房间集合。
// Status 在 service 层基于派生状态过滤，不进入 SQL。
type RoomFilter struct {
	Tag string
}

// RoomRepository 定义了房间数据的存储和检索操作。
// 所有 Find* 方法都会 preload Creator 和 Participants。
type RoomRepository interface {
	// FindByID 根据房间 ID 查找房间。
	// 如果房间不存在，返回 ErrRoomNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Room, error)

	// FindAll 返回按 start_time 升序排列的房间列表。
	FindAll(ctx context.Context, filter RoomFilter) ([]domain.Room, error)

	// FindByCreator 返回某用户创建的全部房间。
	FindByCreator(ctx context.Context, creatorID uint) ([]domain.Room, error)

	// FindByParticipant 返回某用户作为参与者 (但不是创建者) 的房间。
	FindByParticipant(ctx context.Context, userID uint) ([]domain.Room, error)

	// Save 保存房间信息。如果房间已存在 (基于 ID)，则更新；否则创建。
	Save(ctx context.Context, room *domain.Room) error

	// AddParticipant 将用户加入房间的参与者集合 (幂等)。
	AddParticipant(ctx context.Context, roomID, userID uint) error

	// Delete 删除房间并级联删除成员关系、消息和相关通知。
	Delete(ctx context.Context, id uint) error
}
