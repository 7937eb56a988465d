package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
	"github.com/tutor-system2025/tutor-system/internal/config"
	"github.com/tutor-system2025/tutor-system/internal/models"
)

// Sender delivers a rendered outbox message.
type Sender interface {
	Send(ctx context.Context, msg *models.EmailMessage) error
}

// SMTPSender delivers over authenticated SMTP with STARTTLS.
type SMTPSender struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg *models.EmailMessage) error {
	m := gomail.NewMsg()
	if err := m.From(s.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(msg.Recipients...); err != nil {
		return fmt.Errorf("invalid recipients: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.Body)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.user),
		gomail.WithPassword(s.password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	return client.DialAndSendWithContext(ctx, m)
}
