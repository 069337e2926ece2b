package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arnabAdhikary98/room-loop/internal/domain"
)

func TestDeriveStatus(t *testing.T) {
	start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	testCases := []struct {
		name string
		now  time.Time
		want domain.RoomStatus
	}{
		{"开始之前", start.Add(-time.Minute), domain.StatusScheduled},
		{"恰好在开始时刻", start, domain.StatusLive},
		{"进行中", start.Add(time.Hour), domain.StatusLive},
		{"恰好在结束时刻", end, domain.StatusClosed},
		{"结束之后", end.Add(time.Minute), domain.StatusClosed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.DeriveStatus(start, end, tc.now))
		})
	}
}

// 状态随时间单调推进: scheduled -> live -> closed，不会回退
func TestDeriveStatus_Monotonic(t *testing.T) {
	start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	rank := map[domain.RoomStatus]int{
		domain.StatusScheduled: 0,
		domain.StatusLive:      1,
		domain.StatusClosed:    2,
	}

	prev := -1
	for now := start.Add(-time.Hour); now.Before(end.Add(time.Hour)); now = now.Add(5 * time.Minute) {
		cur := rank[domain.DeriveStatus(start, end, now)]
		assert.GreaterOrEqual(t, cur, prev, "状态不应随时间回退")
		prev = cur
	}
}

func TestRoom_HasParticipant(t *testing.T) {
	room := &domain.Room{
		CreatorID:    1,
		Participants: []domain.User{{ID: 2}, {ID: 3}},
	}

	assert.True(t, room.HasParticipant(1), "创建者始终视为参与者")
	assert.True(t, room.HasParticipant(2))
	assert.True(t, room.HasParticipant(3))
	assert.False(t, room.HasParticipant(4))
}

func TestInviteToken_IsUsable(t *testing.T) {
	now := time.Now()

	valid := &domain.InviteToken{ExpiresAt: now.Add(time.Hour)}
	assert.True(t, valid.IsUsable(now))

	expired := &domain.InviteToken{ExpiresAt: now.Add(-time.Minute)}
	assert.False(t, expired.IsUsable(now), "过期令牌不可用")

	used := &domain.InviteToken{ExpiresAt: now.Add(time.Hour), Used: true}
	assert.False(t, used.IsUsable(now), "已使用的令牌不可用")
}
