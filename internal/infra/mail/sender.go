// Package mail is the SMTP email transport, used when EMAIL_PROVIDER=smtp.
// Reply scanning still needs a mailbox provider; SMTP only sends.
package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/alexhuynh/fit-outreach/internal/entity"
)

type SMTPSender struct {
	Host      string
	Port      int
	User      string
	Password  string
	FromEmail string
	FromName  string
}

func NewSMTPSender(host string, port int, user, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		Host:      host,
		Port:      port,
		User:      user,
		Password:  password,
		FromEmail: fromEmail,
		FromName:  fromName,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg entity.OutboundEmail) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.FromEmail, s.FromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	for name, value := range msg.Headers {
		m.SetHeader(name, value)
	}
	m.SetBody("text/html", msg.HTMLBody)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
