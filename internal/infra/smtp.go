package infra

import (
	"errors"
	"fmt"
	"net/smtp"

	"stockdesk/internal/config"

	"github.com/jordan-wright/email"
)

// ErrMailerNotConfigured is returned when SMTP_HOST or ALERT_EMAIL_TO is empty.
var ErrMailerNotConfigured = errors.New("mailer: SMTP not configured")

// Mailer sends reorder alerts over SMTP.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	from     string
	to       string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from:     cfg.SMTPUser,
		to:       cfg.AlertEmailTo,
	}
}

// Configured reports whether alerts can actually be delivered.
func (m *Mailer) Configured() bool {
	return m.host != "" && m.to != ""
}

// SendAlert mails subject/body to ALERT_EMAIL_TO, attaching the file at
// attachPath when it is non-empty.
func (m *Mailer) SendAlert(subject, body, attachPath string) error {
	if !m.Configured() {
		return ErrMailerNotConfigured
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{m.to}
	e.Subject = subject
	e.Text = []byte(body)

	if attachPath != "" {
		if _, err := e.AttachFile(attachPath); err != nil {
			return fmt.Errorf("mailer: attach: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
