package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/outreachd/outreach/internal/entity"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPChannel delivers plain-text messages through an SMTP relay. Each Send
// is one attempt; retries belong to the caller.
type SMTPChannel struct {
	Host string
	Port int
	User string

	dialer dialer
}

func NewSMTPChannel(host string, port int, user, password string) *SMTPChannel {
	return &SMTPChannel{
		Host:   host,
		Port:   port,
		User:   user,
		dialer: gomail.NewDialer(host, port, user, password),
	}
}

// Send fails fast on a cancelled context. Once the dial starts it waits for
// the relay's answer: gomail cannot abort a transaction, and returning early
// would report a failure for a message that may still be delivered.
func (s *SMTPChannel) Send(ctx context.Context, msg entity.OutboundMessage) error {
	m, err := buildMessage(msg)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

func buildMessage(msg entity.OutboundMessage) (*gomail.Message, error) {
	if strings.TrimSpace(msg.SenderEmail) == "" {
		return nil, errors.New("sender email is required")
	}
	if strings.TrimSpace(msg.To) == "" {
		return nil, errors.New("recipient email is required")
	}

	m := gomail.NewMessage()
	if name := strings.TrimSpace(msg.SenderName); name != "" {
		m.SetHeader("From", m.FormatAddress(msg.SenderEmail, name))
	} else {
		m.SetHeader("From", msg.SenderEmail)
	}
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	return m, nil
}
