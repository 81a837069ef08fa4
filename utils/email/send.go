package email

import (
	"gopkg.in/gomail.v2"
	"maestro-dashboard/utils"
)

// Sender 发送 HTML 邮件。
type Sender interface {
	SendHtml(to []string, subject string, htmlContent string) error
}

type smtpSender struct {
	config Config
	dialer *gomail.Dialer
}

func NewSender(config *Config) Sender {
	return &smtpSender{
		config: *config,
		dialer: gomail.NewDialer(
			config.SMTP.Host,
			config.SMTP.Port,
			config.SMTP.UserName,
			config.SMTP.Password),
	}
}

func (s *smtpSender) SendHtml(to []string, subject string, htmlContent string) error {
	msg := buildMessage(s.config.from(), to, subject, htmlContent)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return utils.WrapErrorf(err, "send email to %v fail", to)
	}

	return nil
}

func buildMessage(from string, to []string, subject string, htmlContent string) *gomail.Message {
	msg := gomail.NewMessage()

	msg.SetHeader("From", from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)

	msg.SetBody("text/html", htmlContent)

	return msg
}
