// Package notify sends the welcome email. Sending never raises: the outcome is a Result
// the caller inspects.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"eduvault/internal/domain"

	"github.com/wneessen/go-mail"
)

const (
	gmailHost       = "smtp.gmail.com"
	implicitTLSPort = 465
	submissionPort  = 587
	defaultFrom     = "no-reply@eduvault.local"
)

var errCredentialsMissing = errors.New("email credentials missing (EMAIL_USER/EMAIL_PASS or SMTP_*)")

// dialAndSend is swapped in tests
var dialAndSend = func(ctx context.Context, c *mail.Client, msg *mail.Msg) error {
	return c.DialAndSendWithContext(ctx, msg)
}

// Result is the outcome of a notification attempt
type Result struct {
	Sent bool
	Err  error // *domain.NotificationError when Sent is false
}

// Config selects the SMTP relay
type Config struct {
	Host     string // explicit relay; empty means Gmail with Username/Password
	Port     int
	Username string
	Password string
	From     string
	AppURL   string // links in the message point here
}

// Mailer sends welcome emails over SMTP
type Mailer struct {
	cfg Config
}

// NewMailer creates a Mailer. Configuration problems surface per send, not here.
func NewMailer(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendWelcome delivers the welcome message to a freshly registered user
func (m *Mailer) SendWelcome(ctx context.Context, to, name string) Result {
	fail := func(err error) Result {
		return Result{Err: &domain.NotificationError{To: to, Err: err}}
	}
	msg, err := m.welcomeMessage(to, name)
	if err != nil {
		return fail(err)
	}
	client, err := m.client()
	if err != nil {
		return fail(err)
	}
	if err := dialAndSend(ctx, client, msg); err != nil {
		return fail(err)
	}
	return Result{Sent: true}
}

func (m *Mailer) client() (*mail.Client, error) {
	host, port := m.cfg.Host, m.cfg.Port
	if host == "" {
		if m.cfg.Username == "" || m.cfg.Password == "" {
			return nil, errCredentialsMissing // Nothing to fall back to
		}
		host, port = gmailHost, implicitTLSPort // Gmail with EMAIL_USER / EMAIL_PASS
	}
	if port == 0 {
		port = submissionPort // STARTTLS submission port
	}
	opts := []mail.Option{mail.WithPort(port)}
	if port == implicitTLSPort {
		opts = append(opts, mail.WithSSL()) // Implicit TLS
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic)) // STARTTLS when offered
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	return mail.NewClient(host, opts...)
}

func (m *Mailer) from() string {
	if m.cfg.From != "" {
		return m.cfg.From
	}
	return defaultFrom
}

func (m *Mailer) welcomeMessage(to, name string) (*mail.Msg, error) {
	appURL := strings.TrimRight(m.cfg.AppURL, "/")
	data := welcomeData{Name: name, AppURL: appURL, DashboardURL: appURL + "/dashboard"}

	var text, html bytes.Buffer
	if err := welcomeText.Execute(&text, data); err != nil {
		return nil, err
	}
	if err := welcomeHTML.Execute(&html, data); err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from()); err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("recipient: %w", err)
	}
	msg.Subject(fmt.Sprintf("Welcome to EduVault, %s!", name)) // Personalized subject
	msg.SetBodyString(mail.TypeTextPlain, text.String())       // Plain text body
	msg.AddAlternativeString(mail.TypeTextHTML, html.String()) // HTML alternative
	return msg, nil
}
