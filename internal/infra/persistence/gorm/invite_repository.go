package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/arnabAdhikary98/room-loop/internal/domain"
	"github.com/arnabAdhikary98/room-loop/internal/repository"
)

// GormInviteTokenRepository 是 InviteTokenRepository 接口的 GORM 实现
type GormInviteTokenRepository struct {
	db *gorm.DB
}

// NewGormInviteTokenRepository 创建 GormInviteTokenRepository 实例
func NewGormInviteTokenRepository(db *gorm.DB) *GormInviteTokenRepository {
	if db == nil {
		panic("database connection cannot be nil for GormInviteTokenRepository")
	}
	return &GormInviteTokenRepository{db: db}
}

// Create 实现保存新令牌
func (r *GormInviteTokenRepository) Create(ctx context.Context, token *domain.InviteToken) error {
	err := r.db.WithContext(ctx).Create(token).Error
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create invite token for room %d: %w", token.RoomID, err)
	}
	return nil
}

// FindByToken 实现根据令牌字符串查找
func (r *GormInviteTokenRepository) FindByToken(ctx context.Context, token string) (*domain.InviteToken, error) {
	var invite domain.InviteToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrInviteTokenNotFound
		}
		return nil, fmt.Errorf("gorm: find invite token: %w", err)
	}
	return &invite, nil
}

// MarkUsed 实现标记令牌为已消费
func (r *GormInviteTokenRepository) MarkUsed(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&domain.InviteToken{}).
		Where("id = ?", id).
		Update("used", true).Error
	if err != nil {
		return fmt.Errorf("gorm: mark invite token %d used: %w", id, err)
	}
	return nil
}

// DeleteExpired 实现清理过期且未使用的令牌
func (r *GormInviteTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ? AND used = ?", before, false).
		Delete(&domain.InviteToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: delete expired invite tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}
