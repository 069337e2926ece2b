package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/arnabAdhikary98/room-loop/internal/repository"
)

// InvitePurgeHandler 清理过期且未使用的邀请令牌，由 scheduler 周期触发
type InvitePurgeHandler struct {
	inviteRepo repository.InviteTokenRepository
}

// NewInvitePurgeHandler 创建 Handler 实例
func NewInvitePurgeHandler(inviteRepo repository.InviteTokenRepository) *InvitePurgeHandler {
	return &InvitePurgeHandler{inviteRepo: inviteRepo}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *InvitePurgeHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logCtx := logrus.WithField("task_type", t.Type())
	logCtx.Info("Processing invite purge task...")

	deleted, err := h.inviteRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		logCtx.WithError(err).Error("Failed to purge expired invite tokens")
		return fmt.Errorf("failed to purge expired invite tokens: %w", err)
	}

	logCtx.WithField("deleted", deleted).Info("Invite purge task processed successfully")
	return nil
}
