package service

import "errors"

// 服务层的业务错误集合。Handler 层通过 errors.Is 将它们映射为 HTTP 状态码，
// 错误文本就是返回给客户端的 message，所以这里保留面向用户的大小写。
var (
	// 404
	ErrUserNotFound         = errors.New("User not found")
	ErrRoomNotFound         = errors.New("Room not found")
	ErrMessageNotFound      = errors.New("Message not found")
	ErrNotificationNotFound = errors.New("Notification not found")

	// 403
	ErrRoomUpdateForbidden    = errors.New("Not authorized to update this room")
	ErrRoomDeleteForbidden    = errors.New("Not authorized to delete this room")
	ErrInviteForbidden        = errors.New("Only the room creator can send invites")
	ErrRoomAccessForbidden    = errors.New("Not authorized to access this room")
	ErrMessageDeleteForbidden = errors.New("Not authorized to delete this message")

	// 400
	ErrMissingFields      = errors.New("Missing required fields")
	ErrInvalidTimeWindow  = errors.New("End time must be after start time")
	ErrStartInPast        = errors.New("Start time cannot be in the past")
	ErrAlreadyParticipant = errors.New("Already a participant")
	ErrRoomClosed         = errors.New("Room is already closed")
	ErrRoomNotLive        = errors.New("Cannot send messages to a room that is not live")

	// 409
	ErrEmailTaken = errors.New("Email is already registered")

	// 401
	ErrAuthenticationFailed = errors.New("Invalid email or password")

	// 500 — 详细原因只进日志，不返回给客户端
	ErrInternalServer = errors.New("internal server error")
)
