package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/asistencia-qr/attendance-backend-go/internal/config"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService defines the interface for sending emails
type EmailService interface {
	SendAbsenceAlert(ctx context.Context, employeeName, to string, absenceCount int, companyName string) error
}

// sender is the part of *gomail.Dialer the service needs.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	dialer    sender
	backoff   time.Duration
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	return newEmailService(cfg, gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), time.Second)
}

func newEmailService(cfg config.SMTPConfig, dialer sender, backoff time.Duration) (*emailServiceImpl, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		dialer:    dialer,
		backoff:   backoff,
	}, nil
}

type absenceAlertData struct {
	EmployeeName string
	AbsenceCount int
	CompanyName  string
	Date         string
}

// SendAbsenceAlert notifies an employee that their recent absences reached the alert threshold
func (s *emailServiceImpl) SendAbsenceAlert(ctx context.Context, employeeName, to string, absenceCount int, companyName string) error {
	data := absenceAlertData{
		EmployeeName: employeeName,
		AbsenceCount: absenceCount,
		CompanyName:  companyName,
		Date:         time.Now().Format("02/01/2006"),
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "absence_alert.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(ctx, to, fmt.Sprintf("Alerta de inasistencias - %s", companyName), body.String())
}

func (s *emailServiceImpl) sendHTML(ctx context.Context, to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return fmt.Errorf("smtp host not configured")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.From, s.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.dialAndSend(ctx, m)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		if ctx.Err() != nil {
			return fmt.Errorf("email send abandoned: %w", ctx.Err())
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s, 4s)
		if attempt < maxRetries {
			select {
			case <-time.After(time.Duration(1<<(attempt-1)) * s.backoff):
			case <-ctx.Done():
				return fmt.Errorf("email send abandoned: %w", ctx.Err())
			}
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}

// dialAndSend returns when the send finishes or ctx is done, whichever is
// first. gomail has no deadline on the SMTP conversation, so a hung server
// leaves the send goroutine behind rather than the caller.
func (s *emailServiceImpl) dialAndSend(ctx context.Context, m *gomail.Message) error {
	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
