package tasks

import (
	"encoding/json"
)

// 定义任务类型常量
const (
	TypeEmailDelivery = "email:deliver"        // 邀请邮件投递任务
	TypeInvitePurge   = "invite:purge_expired" // 过期邀请令牌清理任务 (由 scheduler 周期触发)
)

// EmailDeliveryPayload 定义了邮件投递任务的数据结构
type EmailDeliveryPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

// NewEmailDeliveryTask 将邮件内容序列化为任务 payload
func NewEmailDeliveryTask(payload EmailDeliveryPayload) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return payloadBytes, nil
}
