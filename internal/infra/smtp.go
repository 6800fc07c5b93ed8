package infra

import (
	"fmt"
	"net/smtp"

	"github.com/yashas-13/inv-123/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends alert emails over SMTP. Sends go through a circuit breaker so
// an unreachable mail server fails fast instead of tying up workers.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
	breaker  *CircuitBreaker
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
		breaker:  NewCircuitBreaker(DefaultCBConfig()),
	}
}

// SendAlert mails body to the recipients, attaching the file at
// attachmentPath when it is not empty.
func (m *Mailer) SendAlert(to []string, subject, body, attachmentPath string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = to
	e.Subject = subject
	e.Text = []byte(body)

	if attachmentPath != "" {
		if _, err := e.AttachFile(attachmentPath); err != nil {
			return fmt.Errorf("mailer: attach report: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return m.breaker.Execute(func() error { return e.Send(m.addr, auth) })
}

// BreakerStateName reports the SMTP breaker state for the health endpoint.
func (m *Mailer) BreakerStateName() string { return m.breaker.State().String() }
