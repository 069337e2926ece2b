package repository

import (
	"context"
	"time"

	"github.com/arnabAdhikary98/room-loop/internal/domain"
)

// InviteTokenRepository 定义了邀请令牌的存储和检索操作。
type InviteTokenRepository interface {
	// Create 保存一个新令牌。令牌字符串唯一冲突返回 ErrDuplicateEntry。
	Create(ctx context.Context, token *domain.InviteToken) error

	// FindByToken 根据令牌字符串查找。
	// 如果不存在，返回 ErrInviteTokenNotFound。
	FindByToken(ctx context.Context, token string) (*domain.InviteToken, error)

	// MarkUsed 将令牌标记为已消费。
	MarkUsed(ctx context.Context, id uint) error

	// DeleteExpired 删除在 before 之前过期且未使用的令牌，返回删除数量。
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
