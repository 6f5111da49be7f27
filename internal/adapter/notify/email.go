package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/ports"
)

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailSink mails notifications to the recipient's address on file. The SMTP
// relay sits behind a circuit breaker so an outage fails fast.
type EmailSink struct {
	cfg       SMTPConfig
	directory ports.Directory
	breaker   *gobreaker.CircuitBreaker
	send      sendMailFunc
}

var _ ports.NotificationSink = (*EmailSink)(nil)

func NewEmailSink(cfg SMTPConfig, directory ports.Directory) *EmailSink {
	return newEmailSink(cfg, directory, smtp.SendMail)
}

func newEmailSink(cfg SMTPConfig, directory ports.Directory, send sendMailFunc) *EmailSink {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			zap.L().Info("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &EmailSink{cfg: cfg, directory: directory, breaker: breaker, send: send}
}

func (s *EmailSink) Notify(ctx context.Context, n domain.Notification) error {
	contacts, err := s.directory.Contacts(ctx, []string{n.RecipientID})
	if err != nil {
		return err
	}
	contact, ok := contacts[n.RecipientID]
	if !ok || contact.Email == nil || *contact.Email == "" {
		return nil
	}

	msg := buildMessage(s.cfg.From, *contact.Email, n.Title, n.Description)
	_, err = s.breaker.Execute(func() (interface{}, error) {
		var auth smtp.Auth
		if s.cfg.User != "" {
			auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
		}
		return nil, s.send(net.JoinHostPort(s.cfg.Host, s.cfg.Port), auth, s.cfg.From, []string{*contact.Email}, msg)
	})
	if err != nil {
		return fmt.Errorf("send email to %s: %w", n.RecipientID, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + strings.ReplaceAll(subject, "\n", " ") + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(body + "\r\n")
	return []byte(b.String())
}
