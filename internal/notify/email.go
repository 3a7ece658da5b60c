package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/jordan-wright/email"

	"github.com/baharkarakas/event-hub/internal/config"
	"github.com/baharkarakas/event-hub/internal/models"
)

// Mailer delivers a fully built message.
type Mailer interface {
	Send(e *email.Email) error
}

// SMTPMailer sends through a plain-auth SMTP relay.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	var a smtp.Auth
	if cfg.Username != "" {
		a = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPMailer{addr: cfg.Host + ":" + strconv.Itoa(cfg.Port), auth: a}
}

func (m *SMTPMailer) Send(e *email.Email) error { return e.Send(m.addr, m.auth) }

// Sender renders registration mail and hands it to a Mailer.
type Sender struct {
	from   string
	mailer Mailer
	log    *slog.Logger
}

func NewSender(from string, m Mailer, log *slog.Logger) *Sender {
	return &Sender{from: from, mailer: m, log: log}
}

func (s *Sender) RegistrationConfirmed(ctx context.Context, u models.User, e models.Event) error {
	subject := fmt.Sprintf("You're registered: %s", e.Title)
	body := fmt.Sprintf("Hi %s,\n\nYou are registered for %q on %s.\n", u.Username, e.Title, when(e))
	return s.send(ctx, u.Email, subject, body+footer(e))
}

func (s *Sender) EventReminder(ctx context.Context, u models.User, e models.Event) error {
	subject := fmt.Sprintf("Reminder: %s is tomorrow", e.Title)
	body := fmt.Sprintf("Hi %s,\n\nA reminder that %q takes place on %s.\n", u.Username, e.Title, when(e))
	return s.send(ctx, u.Email, subject, body+footer(e))
}

func (s *Sender) send(ctx context.Context, to, subject, body string) error {
	m := email.NewEmail()
	m.From = s.from
	m.To = []string{to}
	m.Subject = subject
	m.Text = []byte(body)

	if err := s.mailer.Send(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	s.log.InfoContext(ctx, "mail sent", "to", to, "subject", subject)
	return nil
}

func when(e models.Event) string {
	w := e.Date.String()
	if e.Time != nil {
		w += " at " + *e.Time
	}
	return w
}

func footer(e models.Event) string {
	var b strings.Builder
	if e.Location != nil {
		b.WriteString("Location: " + *e.Location + "\n")
	}
	b.WriteString("\nSee you there,\nEvent Hub")
	return b.String()
}
