package infra

import (
	"fmt"
	"net/smtp"

	"gamblerpro/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends plain-text notifications over SMTP.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Configurado is false when no SMTP host was set; callers skip sending.
func (m *Mailer) Configurado() bool { return m.host != "" }

// Send delivers one message to every recipient.
func (m *Mailer) Send(to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = to
	e.Subject = subject
	e.Text = []byte(body)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	if err := e.Send(m.addr, auth); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	return nil
}
