package domain

import "time"

// InviteTokenTTL 是邀请令牌的有效期。
const InviteTokenTTL = 7 * 24 * time.Hour

// InviteToken 是发给尚未注册邮箱的一次性邀请凭证。
// 注册完成时被消费 (Used=true)，过期后由后台任务清理。
type InviteToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"type:varchar(64);uniqueIndex:idx_token;not null" json:"token"`
	Email     string    `gorm:"type:varchar(191);index;not null" json:"email"`
	RoomID    uint      `gorm:"index;not null" json:"room_id"`
	CreatorID uint      `gorm:"not null" json:"creator_id"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	Used      bool      `gorm:"default:false" json:"used"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// IsUsable reports whether the token can still be redeemed at the given time.
func (t *InviteToken) IsUsable(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}
