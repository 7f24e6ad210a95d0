package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"fintrack-backend/internal/config"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender delivers reminder emails over SMTP.
type Sender struct {
	cfg *config.Config
	log *logrus.Logger
}

func NewSender(cfg *config.Config, log *logrus.Logger) *Sender {
	return &Sender{cfg: cfg, log: log}
}

// Send delivers one email, bounded by the context deadline. SMTP has no
// context support of its own, so the send runs in a goroutine and the caller's
// deadline wins.
func (s *Sender) Send(ctx context.Context, to, subject, body string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	done := make(chan error, 1)
	go func() { done <- e.Send(addr, auth) }()

	select {
	case err := <-done:
		if err != nil {
			s.log.Errorf("Failed to send email to %s: %v", to, err)
			return fmt.Errorf("failed to send email: %w", err)
		}
		s.log.Infof("Email sent to %s: %s", to, subject)
		return nil
	case <-ctx.Done():
		s.log.Errorf("Email to %s timed out: %v", to, ctx.Err())
		return ctx.Err()
	}
}
