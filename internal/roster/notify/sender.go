package notify

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/smtp"
	"strings"
	"sync"

	"github.com/aussiebroadwan/roster/pkg/slogx"
)

// Sender delivers a single message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends mail with PLAIN auth through a relay.
type SMTPSender struct {
	Config SMTPConfig

	// sendMail is smtp.SendMail; replaced in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPSender{Config: cfg, sendMail: smtp.SendMail}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)

	var auth smtp.Auth
	if s.Config.Username != "" {
		auth = smtp.PlainAuth("", s.Config.Username, s.Config.Password, s.Config.Host)
	}

	if err := s.sendMail(addr, auth, s.Config.From, []string{msg.To}, s.compose(msg)); err != nil {
		return fmt.Errorf("notify: smtp send: %w", err)
	}
	return nil
}

// compose renders RFC 5322 headers with a Q-encoded UTF-8 subject.
func (s *SMTPSender) compose(msg Message) []byte {
	headers := []string{
		"From: " + s.Config.From,
		"To: " + msg.To,
		"Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject),
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"Content-Transfer-Encoding: 8bit",
		"",
		msg.Body,
	}
	return []byte(strings.Join(headers, "\r\n"))
}

// LogSender writes messages to the request logger instead of sending them.
// The login code itself is never logged.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	slogx.FromContext(ctx).Info("email suppressed",
		slog.String("kind", string(msg.Kind)),
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	return nil
}

// Outbox keeps the last message per recipient in memory. It backs the debug
// endpoint used by end-to-end tests.
type Outbox struct {
	mu   sync.Mutex
	last map[string]Message
	all  []Message
}

func NewOutbox() *Outbox {
	return &Outbox{last: make(map[string]Message)}
}

func (o *Outbox) Send(_ context.Context, msg Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.last[strings.ToLower(msg.To)] = msg
	o.all = append(o.all, msg)
	return nil
}

// Last returns the most recent message sent to addr.
func (o *Outbox) Last(addr string) (Message, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	msg, ok := o.last[strings.ToLower(addr)]
	return msg, ok
}

// Messages returns every message sent to addr, oldest first.
func (o *Outbox) Messages(addr string) []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []Message
	for _, m := range o.all {
		if strings.EqualFold(m.To, addr) {
			out = append(out, m)
		}
	}
	return out
}

// Count returns how many messages of kind were sent to addr.
func (o *Outbox) Count(addr string, kind Kind) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, m := range o.all {
		if strings.EqualFold(m.To, addr) && m.Kind == kind {
			n++
		}
	}
	return n
}

// MultiSender fans a message out to every sender and returns the first error.
type MultiSender []Sender

func (m MultiSender) Send(ctx context.Context, msg Message) error {
	var first error
	for _, s := range m {
		if err := s.Send(ctx, msg); err != nil && first == nil {
			first = err
		}
	}
	return first
}
