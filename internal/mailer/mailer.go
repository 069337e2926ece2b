// Package mailer 封装邮件发送。生产环境走 SMTP，开发环境没有配置 SMTP 时
// 退化为只往日志里打印。
package mailer

import (
	"github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"
)

// Email 是一封待发送的邮件。
type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer 抽象邮件投递，便于在 Worker 测试里替换。
type Mailer interface {
	Send(email Email) error
}

// SMTPMailer 通过 SMTP 发送邮件。
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer 创建 SMTPMailer 实例。
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	if from == "" {
		from = username
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send 实现 Mailer 接口。
func (m *SMTPMailer) Send(email Email) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email.To)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/plain", email.Text)
	if email.HTML != "" {
		msg.AddAlternative("text/html", email.HTML)
	}
	return m.dialer.DialAndSend(msg)
}

// LogMailer 把邮件写进日志而不真正发送，用于本地开发。
type LogMailer struct{}

// Send 实现 Mailer 接口。
func (LogMailer) Send(email Email) error {
	logrus.WithFields(logrus.Fields{
		"to":      email.To,
		"subject": email.Subject,
	}).Info("LogMailer: would send email")
	return nil
}
