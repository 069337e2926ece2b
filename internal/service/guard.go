package service

import (
	"github.com/arnabAdhikary98/room-loop/internal/domain"
)

// 授权检查是一组作用在已加载实体上的纯函数，由各个 service 方法按顺序调用，
// 第一个失败的检查短路。身份认证本身 (HTTP 层的 401) 由 JWT 中间件负责。

// requireCreator 检查 userID 是否是房间创建者，失败时返回调用方给定的业务错误
// (更新/删除/邀请各自有不同的面向用户文案)。
func requireCreator(room *domain.Room, userID uint, denied error) error {
	if room.CreatorID != userID {
		return denied
	}
	return nil
}

// requireParticipant 检查 userID 是否是房间参与者。创建者始终视为参与者。
func requireParticipant(room *domain.Room, userID uint) error {
	if !room.HasParticipant(userID) {
		return ErrRoomAccessForbidden
	}
	return nil
}

// requireLive 检查派生状态是否为 live。在消息创建前调用。
func requireLive(status domain.RoomStatus) error {
	if status != domain.StatusLive {
		return ErrRoomNotLive
	}
	return nil
}
