package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arnabAdhikary98/room-loop/internal/domain"
)

func TestRequireCreator(t *testing.T) {
	room := &domain.Room{CreatorID: 1}

	assert.NoError(t, requireCreator(room, 1, ErrRoomUpdateForbidden))
	assert.ErrorIs(t, requireCreator(room, 2, ErrRoomUpdateForbidden), ErrRoomUpdateForbidden)
	// 调用方决定拒绝时返回哪个错误
	assert.ErrorIs(t, requireCreator(room, 2, ErrInviteForbidden), ErrInviteForbidden)
}

func TestRequireParticipant(t *testing.T) {
	room := &domain.Room{
		CreatorID:    1,
		Participants: []domain.User{{ID: 2}},
	}

	assert.NoError(t, requireParticipant(room, 1), "创建者始终是参与者")
	assert.NoError(t, requireParticipant(room, 2))
	assert.ErrorIs(t, requireParticipant(room, 3), ErrRoomAccessForbidden)
}

func TestRequireLive(t *testing.T) {
	assert.NoError(t, requireLive(domain.StatusLive))
	assert.ErrorIs(t, requireLive(domain.StatusScheduled), ErrRoomNotLive)
	assert.ErrorIs(t, requireLive(domain.StatusClosed), ErrRoomNotLive)
}
