// Package notify renders and delivers notification emails.
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/spec-kit/quickdesk/internal/config"
)

// Message is an outgoing email whose body is markdown.
type Message struct {
	To       string
	Subject  string
	Markdown string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer returns an SMTP mailer, or one that only logs when mail is
// disabled in configuration.
func NewMailer(cfg config.MailConfig, logger *zap.Logger) Mailer {
	if !cfg.Enabled {
		logger.Info("email notifications are disabled")
		return &disabledMailer{logger: logger}
	}
	return NewSMTPMailer(cfg, NewRenderer(), logger)
}

// SMTPMailer sends multipart plain/HTML emails through gomail.
type SMTPMailer struct {
	cfg      config.MailConfig
	dialer   *gomail.Dialer
	renderer *Renderer
	logger   *zap.Logger
}

// NewSMTPMailer builds a mailer for the configured relay.
func NewSMTPMailer(cfg config.MailConfig, renderer *Renderer, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		cfg:      cfg,
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		renderer: renderer,
		logger:   logger,
	}
}

// Send renders msg and delivers it.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	email, err := m.compose(msg)
	if err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(email); err != nil {
		return fmt.Errorf("send email to %s: %w", msg.To, err)
	}
	m.logger.Info("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func (m *SMTPMailer) compose(msg Message) (*gomail.Message, error) {
	html, err := m.renderer.Render(msg.Markdown)
	if err != nil {
		return nil, err
	}
	email := gomail.NewMessage()
	email.SetAddressHeader("From", m.cfg.From, m.cfg.FromName)
	email.SetHeader("To", msg.To)
	email.SetHeader("Subject", msg.Subject)
	email.SetBody("text/plain", msg.Markdown)
	email.AddAlternative("text/html", html)
	return email, nil
}

type disabledMailer struct {
	logger *zap.Logger
}

func (d *disabledMailer) Send(_ context.Context, msg Message) error {
	d.logger.Debug("email skipped, notifications disabled",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
