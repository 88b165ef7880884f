package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"socialapi/internal/config"
)

const (
	verifySubject          = "Verification Email"
	passwordChangedSubject = "Reset Password"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Sender delivers account emails.
type Sender interface {
	SendVerification(ctx context.Context, to, name, otp string) error
	SendPasswordChanged(ctx context.Context, to, name string) error
}

// transport is the part of the go-mail client the sender depends on.
type transport interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// SMTPSender renders templates and sends them through an SMTP server.
type SMTPSender struct {
	transport transport
	from      string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewSMTPSender builds a sender from configuration.
func NewSMTPSender(cfg config.MailConfig, logger *zap.Logger) (*SMTPSender, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(cfg.SendTimeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return newSMTPSender(client, cfg.From, cfg.SendTimeout, logger), nil
}

func newSMTPSender(t transport, from string, timeout time.Duration, logger *zap.Logger) *SMTPSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPSender{transport: t, from: from, timeout: timeout, logger: logger}
}

// SendVerification emails the one-time code to a newly registered or unverified user.
func (s *SMTPSender) SendVerification(ctx context.Context, to, name, otp string) error {
	return s.send(ctx, to, verifySubject, "verify_email.html", templateData{Name: name, OTP: otp})
}

// SendPasswordChanged notifies the user that their password was replaced.
func (s *SMTPSender) SendPasswordChanged(ctx context.Context, to, name string) error {
	return s.send(ctx, to, passwordChangedSubject, "password_changed.html", templateData{Name: name})
}

func (s *SMTPSender) send(ctx context.Context, to, subject, tmpl string, data templateData) error {
	body, err := render(tmpl, data)
	if err != nil {
		return err
	}

	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, body)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.transport.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("send %q email: %w", subject, err)
	}

	s.logger.Info("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

type templateData struct {
	Name string
	OTP  string
}

func render(name string, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// LogSender writes emails to the log instead of sending them. It is used when
// no SMTP host is configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) SendVerification(_ context.Context, to, name, otp string) error {
	s.logger.Info("Verification email (not sent, no SMTP host)",
		zap.String("to", to),
		zap.String("name", name),
		zap.String("otp", otp),
	)
	return nil
}

func (s *LogSender) SendPasswordChanged(_ context.Context, to, name string) error {
	s.logger.Info("Password changed email (not sent, no SMTP host)",
		zap.String("to", to),
		zap.String("name", name),
	)
	return nil
}

// New picks the SMTP sender when a host is configured and the log sender otherwise.
func New(cfg config.MailConfig, logger *zap.Logger) (Sender, error) {
	if cfg.Host == "" {
		return NewLogSender(logger), nil
	}
	return NewSMTPSender(cfg, logger)
}
