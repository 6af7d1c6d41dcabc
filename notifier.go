package photoshare

import (
	"context"
	"fmt"
	"net/smtp"
)

type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Username string
	Password string
}

type smtpNotifier struct {
	cfg    SMTPConfig
	logger Logger
}

var _ Notifier = (*smtpNotifier)(nil)

// NewSMTPNotifier delivers verification and password reset emails over
// plain SMTP. Credentials are optional; without them the dial is
// unauthenticated, which is what local relays expect.
func NewSMTPNotifier(cfg SMTPConfig) Notifier {
	return &smtpNotifier{cfg: cfg, logger: defLogger{}}
}

func (n *smtpNotifier) SendVerification(ctx context.Context, email, username, token, origin string) error {
	link := fmt.Sprintf("%s/auth/verify/%s", origin, token)
	body := fmt.Sprintf(
		"Hi %s,\n\nConfirm your email address by visiting:\n\n%s\n\nThe link expires in an hour.\n",
		username, link,
	)
	return n.send(ctx, email, "Verify your email", body)
}

func (n *smtpNotifier) SendPasswordReset(ctx context.Context, email, username, token, origin string) error {
	link := fmt.Sprintf("%s/forgot/reset?token=%s", origin, token)
	body := fmt.Sprintf(
		"Hi %s,\n\nSomeone asked to reset the password for this account. If that was you, visit:\n\n%s\n\nThe link expires in an hour. Otherwise you can ignore this email.\n",
		username, link,
	)
	return n.send(ctx, email, "Reset your password", body)
}

func (n *smtpNotifier) send(ctx context.Context, to, subject, body string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", n.cfg.From, to, subject, body)
	addr := fmt.Sprintf("%s:%s", n.cfg.Host, n.cfg.Port)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	return smtp.SendMail(addr, auth, n.cfg.From, []string{to}, []byte(msg))
}

type noopNotifier struct {
	logger Logger
}

var _ Notifier = (*noopNotifier)(nil)

// NewNoopNotifier logs instead of sending. Useful for development and
// tests where no relay is running.
func NewNoopNotifier(logger Logger) Notifier {
	if logger == nil {
		logger = defLogger{}
	}
	return &noopNotifier{logger: logger}
}

func (n *noopNotifier) SendVerification(_ context.Context, email, _, token, origin string) error {
	n.logger.Info("verification email for %s: %s/auth/verify/%s", email, origin, token)
	return nil
}

func (n *noopNotifier) SendPasswordReset(_ context.Context, email, _, token, origin string) error {
	n.logger.Info("password reset email for %s: %s/forgot/reset?token=%s", email, origin, token)
	return nil
}
