package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"meetbook/internal/config"

	"github.com/rs/zerolog"
)

// SMTPNotifier delivers plain-text mail over SMTP. Delivery is best-effort
// by contract; callers must never let a send failure change request outcomes.
type SMTPNotifier struct {
	cfg    config.SMTPConfig
	logger *zerolog.Logger
}

func NewSMTPNotifier(cfg config.SMTPConfig, logger *zerolog.Logger) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, logger: logger}
}

func (n *SMTPNotifier) Notify(ctx context.Context, to, subject, body string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("recipient is empty")
	}

	msg := buildMessage(n.cfg.From, to, subject, body)
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}

	n.logger.Debug().Str("to", to).Str("subject", subject).Msg("mail sent")
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// NopNotifier logs instead of sending; used when SMTP is disabled and in tests.
type NopNotifier struct {
	logger *zerolog.Logger
}

func NewNopNotifier(logger *zerolog.Logger) *NopNotifier {
	return &NopNotifier{logger: logger}
}

func (n *NopNotifier) Notify(ctx context.Context, to, subject, body string) error {
	n.logger.Info().Str("to", to).Str("subject", subject).Msg("mail suppressed (smtp disabled)")
	return nil
}
