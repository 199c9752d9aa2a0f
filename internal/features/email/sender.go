package email

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"go-transfer/internal/config"
)

// Mailer delivers a plain text message.
type Mailer interface {
	Send(from string, to []string, subject, body string) error
}

type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
}

func NewSMTPMailer(cfg *config.Config) Mailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
	}
}

func (m *SMTPMailer) Send(from string, to []string, subject, body string) error {
	if m.host == "" || m.port == 0 {
		return errors.New("invalid email configuration: missing host or port")
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	msg := []byte(fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n"+
		"\r\n"+
		"%s\r\n", from, strings.Join(to, ", "), subject, body))

	return smtp.SendMail(addr, auth, from, to, msg)
}
