package domain

import "time"

// RoomStatus 表示房间生命周期中的一个阶段。
type RoomStatus string

const (
	StatusScheduled RoomStatus = "scheduled"
	StatusLive      RoomStatus = "live"
	StatusClosed    RoomStatus = "closed"
)

// Room 表示一个限时活动房间。
// Participants 通过 room_participants 关联表维护，创建者始终是成员。
type Room struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"type:varchar(191);not null" json:"title"`
	Description  string     `gorm:"type:text;not null" json:"description"`
	StartTime    time.Time  `gorm:"index;not null" json:"start_time"`
	EndTime      time.Time  `gorm:"not null" json:"end_time"`
	CreatorID    uint       `gorm:"index;not null" json:"creator_id"`
	Creator      *User      `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Participants []User     `gorm:"many2many:room_participants" json:"participants,omitempty"`
	Tags         StringList `gorm:"type:json" json:"tags"`
	Status       RoomStatus `gorm:"type:varchar(20);default:scheduled" json:"status"`
	IsOpen       bool       `gorm:"default:true" json:"is_open"` // 目前 join 不强制检查，参见 service 层注释
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"-"`
}

// DeriveStatus computes the lifecycle status of a room at the given instant
// purely from its time window:
//
//	now < StartTime            => scheduled
//	StartTime <= now < EndTime => live
//	now >= EndTime             => closed
//
// The stored Status column is only authoritative right after an explicit
// reschedule; every read path re-applies this derivation with a single "now"
// per request.
func (r *Room) DeriveStatus(now time.Time) RoomStatus {
	return DeriveStatus(r.StartTime, r.EndTime, now)
}

// DeriveStatus 是 (*Room).DeriveStatus 的纯函数形式，便于单独测试。
func DeriveStatus(start, end, now time.Time) RoomStatus {
	if now.Before(start) {
		return StatusScheduled
	}
	if now.Before(end) {
		return StatusLive
	}
	return StatusClosed
}

// HasParticipant reports whether the given user is in the participant set.
// The creator counts as a participant even if the membership row is missing.
func (r *Room) HasParticipant(userID uint) bool {
	if r.CreatorID == userID {
		return true
	}
	for _, p := range r.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}
