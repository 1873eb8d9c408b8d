package notification

import (
	"fmt"
	"net/smtp"

	"room-booking-backend/config"
)

// Mailer sends a plain-text message. Delivery is best effort; callers log
// failures and move on.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg config.MailConfig
}

// NewSMTPMailer creates a mailer from the mail config, or nil when mail is
// disabled.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	if !cfg.Enabled {
		return nil
	}
	return &SMTPMailer{cfg: cfg}
}

// Send delivers one message. The connection is re-established per send;
// booking volume does not justify a pooled client.
func (m *SMTPMailer) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	msg := []byte("From: " + m.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n")

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg)
}
