package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/pos-api/pkg/config"
)

// Mailer envía correos HTML por SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer construye el mailer desde la configuración SMTP.
func NewMailer(cfg config.SMTPConfig) *Mailer {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   from,
	}
}

// Send envía un mensaje HTML a un destinatario.
func (m *Mailer) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(buildMessage(m.from, to, subject, html)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, html string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)
	return msg
}
