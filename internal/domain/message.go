package domain

import "time"

// MessageType 表示消息的内容类型。
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeEmoji MessageType = "emoji"
)

// Message 表示房间内的一条消息。创建后不可修改，只能由发送者删除。
// 只有当房间处于 live 状态且发送者是参与者时才允许创建。
type Message struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	RoomID    uint        `gorm:"index;not null" json:"room_id"`
	SenderID  uint        `gorm:"index;not null" json:"sender_id"`
	Sender    *User       `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Content   string      `gorm:"type:text;not null" json:"content"`
	Type      MessageType `gorm:"type:varchar(10);default:text" json:"type"`
	CreatedAt time.Time   `gorm:"autoCreateTime;index" json:"created_at"`
}
