package repository

import (
	"context"

	"github.com/arnabAdhikary98/room-loop/internal/domain"
)

// UserRepository 定义了用户数据的存储和检索操作。
type UserRepository interface {
	// FindByID 根据用户 ID 查找用户。
	// 如果用户不存在，返回 ErrUserNotFound。
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// FindByEmail 根据邮箱查找用户。
	// 如果用户不存在，返回 ErrUserNotFound。
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// Save 保存用户信息。如果用户已存在 (基于 ID)，则更新；否则创建。
	// 唯一约束冲突返回 ErrDuplicateEntry。
	Save(ctx context.Context, user *domain.User) error
}
