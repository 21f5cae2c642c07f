package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

// SMTPSender envia correos via SMTP usando gomail.
type SMTPSender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTPSender(host string, port int, username, password, from, fromName string) (*SMTPSender, error) {
	if strings.TrimSpace(host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("smtp from is required")
	}
	if port == 0 {
		port = 587
	}
	return &SMTPSender{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     from,
		fromName: fromName,
	}, nil
}

func (s *SMTPSender) SendPasswordResetCode(_ context.Context, toEmail string, code string, expiresAt time.Time) error {
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("to email is required")
	}

	body := fmt.Sprintf(
		"Your password reset code is: %s\nIt expires at %s UTC.\n",
		code,
		expiresAt.UTC().Format(time.RFC3339),
	)

	msg := gomail.NewMessage()
	if strings.TrimSpace(s.fromName) != "" {
		msg.SetHeader("From", msg.FormatAddress(s.from, s.fromName))
	} else {
		msg.SetHeader("From", s.from)
	}
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Your Password Reset Code")
	msg.SetBody("text/plain", body)

	return s.dialer.DialAndSend(msg)
}
