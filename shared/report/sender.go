package report

import (
	"fmt"
	"net/smtp"

	"github.com/RedJS19J/YT-Analytics/shared/config"
)

// Sender delivers a rendered report over SMTP.
type Sender struct {
	config *config.EmailConfig
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{
		config: cfg,
	}
}

// SendHTML sends the HTML body as an email to the configured recipient.
func (s *Sender) SendHTML(subject, htmlBody string) error {
	if !s.config.Configured() {
		return fmt.Errorf("email delivery is not configured")
	}

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPServer)

	to := []string{s.config.ToEmail}
	msg := []byte(fmt.Sprintf(`To: %s
From: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, s.config.ToEmail, s.config.FromEmail, subject, htmlBody))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.FromEmail, to, msg)
}
