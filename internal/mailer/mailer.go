// Package mailer delivers the daily digest over SMTP as a
// multipart/alternative message with plain-text and HTML bodies.
package mailer

import (
	"context"
	"fmt"
	"time"

	mail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Digest is one article summary ready for delivery.
type Digest struct {
	Title   string
	URL     string
	Summary string
	Date    time.Time
}

// Config holds the SMTP endpoint and addressing for outgoing digests.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// Mailer sends digests through a single SMTP account.
type Mailer struct {
	cfg    Config
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// Send builds and delivers the digest email. Any error means the digest was
// not accepted by the mail server and the run must not commit.
func (m *Mailer) Send(ctx context.Context, d Digest) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(m.cfg.To); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject(fmt.Sprintf("📚 Daily Reading: %s", d.Title))

	html, err := renderHTML(d)
	if err != nil {
		return fmt.Errorf("render html body: %w", err)
	}
	msg.SetBodyString(mail.TypeTextPlain, renderPlain(d))
	msg.AddAlternativeString(mail.TypeTextHTML, html)

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	m.logger.Info("digest email sent", zap.String("to", m.cfg.To), zap.String("url", d.URL))
	return nil
}
