package domain

import "time"

// NotificationType 表示通知的触发来源。
type NotificationType string

const (
	NotificationRoomInvite NotificationType = "room_invite"
	NotificationRoomUpdate NotificationType = "room_update"
	NotificationNewMessage NotificationType = "new_message"
	NotificationSystem     NotificationType = "system"
)

// Notification 表示发给单个用户的一条通知记录。
// 由房间更新、新消息和邀请产生 (fan-out)，只有已读状态可变。
// RoomID/MessageID/SenderID 为可选引用，相关房间或消息被删除时级联删除。
type Notification struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RecipientID uint             `gorm:"index:idx_recipient_read;index:idx_recipient_created;not null" json:"recipient_id"`
	SenderID    *uint            `json:"sender_id,omitempty"`
	Sender      *User            `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Type        NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Content     string           `gorm:"type:text;not null" json:"content"`
	RoomID      *uint            `gorm:"index" json:"room_id,omitempty"`
	RoomTitle   string           `gorm:"type:varchar(191)" json:"room_title,omitempty"` // 冗余存储，避免展示时再查房间
	MessageID   *uint            `gorm:"index" json:"message_id,omitempty"`
	Read        bool             `gorm:"index:idx_recipient_read;default:false" json:"read"`
	CreatedAt   time.Time        `gorm:"autoCreateTime;index:idx_recipient_created" json:"created_at"`
}
