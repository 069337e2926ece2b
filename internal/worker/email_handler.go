package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/arnabAdhikary98/room-loop/internal/mailer"
	"github.com/arnabAdhikary98/room-loop/internal/tasks"
)

// EmailDeliveryHandler 处理邀请邮件投递任务
type EmailDeliveryHandler struct {
	mailer mailer.Mailer
}

// NewEmailDeliveryHandler 创建 Handler 实例
func NewEmailDeliveryHandler(m mailer.Mailer) *EmailDeliveryHandler {
	return &EmailDeliveryHandler{mailer: m}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *EmailDeliveryHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	retryCount, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)

	var payload tasks.EmailDeliveryPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logrus.WithError(err).WithField("task_type", t.Type()).
			Error("Failed to unmarshal email task payload")
		// payload 损坏重试无意义
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	logCtx := logrus.WithFields(logrus.Fields{
		"task_type": t.Type(),
		"to":        payload.To,
		"retry":     retryCount,
		"max_retry": maxRetry,
	})
	logCtx.Info("Processing email delivery task...")

	if err := h.mailer.Send(mailer.Email{
		To:      payload.To,
		Subject: payload.Subject,
		Text:    payload.Text,
		HTML:    payload.HTML,
	}); err != nil {
		logCtx.WithError(err).Error("Failed to send email")
		return fmt.Errorf("failed to send email to %s: %w", payload.To, err)
	}

	logCtx.Info("Email delivery task processed successfully")
	return nil
}
