package redisstate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// unreadCountTTL 限制缓存条目的生存时间。轮询端每 5 秒查询一次未读数量，
// 缓存失效逻辑有遗漏时最多也只会短暂返回过期值。
const unreadCountTTL = 30 * time.Second

// RedisNotificationCache 是 NotificationCache 接口的 Redis 实现
type RedisNotificationCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisNotificationCache 创建 RedisNotificationCache 实例
func NewRedisNotificationCache(client *redis.Client, keyPrefix string) *RedisNotificationCache {
	if client == nil {
		panic("redis client cannot be nil for RedisNotificationCache")
	}
	if keyPrefix == "" {
		keyPrefix = "rl:" // 默认前缀 "rl:" (roomloop)
	}
	return &RedisNotificationCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (c *RedisNotificationCache) unreadCountKey(userID uint) string {
	return fmt.Sprintf("%suser:%d:unread_count", c.keyPrefix, userID)
}

// GetUnreadCount 返回缓存的未读数量。第二个返回值表示是否命中。
func (c *RedisNotificationCache) GetUnreadCount(ctx context.Context, userID uint) (int64, bool, error) {
	val, err := c.client.Get(ctx, c.unreadCountKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("redis: get unread count for user %d: %w", userID, err)
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// 脏数据，当作未命中并清掉
		logrus.WithField("user_id", userID).Warnf("RedisNotificationCache: invalid cached value %q", val)
		c.client.Del(ctx, c.unreadCountKey(userID))
		return 0, false, nil
	}
	return count, true, nil
}

// SetUnreadCount 写入未读数量，带 TTL。
func (c *RedisNotificationCache) SetUnreadCount(ctx context.Context, userID uint, count int64) error {
	err := c.client.Set(ctx, c.unreadCountKey(userID), count, unreadCountTTL).Err()
	if err != nil {
		return fmt.Errorf("redis: set unread count for user %d: %w", userID, err)
	}
	return nil
}

// InvalidateUnreadCount 使一批用户的缓存失效 (fan-out 或标记已读之后调用)。
func (c *RedisNotificationCache) InvalidateUnreadCount(ctx context.Context, userIDs ...uint) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, c.unreadCountKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis: invalidate unread counts: %w", err)
	}
	return nil
}
