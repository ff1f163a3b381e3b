package email

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// Message is a single outgoing e-mail
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
}

// EmailService delivers e-mail messages
type EmailService interface {
	Send(ctx context.Context, msg Message) error
}

// Config holds the delivery settings
type Config struct {
	SendGridAPIKey string
	FromName       string
	FromEmail      string
}

// NewEmailService returns a SendGrid-backed service, or a logging one when no API key is configured
func NewEmailService(config Config, logger zerolog.Logger) EmailService {
	if strings.TrimSpace(config.SendGridAPIKey) == "" {
		logger.Warn().Msg("SendGrid API key not configured - e-mails will only be logged")
		return &logEmailService{logger: logger}
	}
	return &sendGridEmailService{
		key:        config.SendGridAPIKey,
		from:       sgmail.NewEmail(config.FromName, config.FromEmail),
		subjPrefix: "[" + config.FromName + "] ",
		logger:     logger,
	}
}

type sendGridEmailService struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
	logger     zerolog.Logger
}

func (s *sendGridEmailService) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = s.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain", msg.Text),
		sgmail.NewContent("text/html", renderHTML(msg)),
	)
	return m
}

func (s *sendGridEmailService) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := sendgrid.GetRequest(s.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		s.logger.Error().Err(err).Str("to", msg.ToEmail).Msg("SendGrid request failed")
		return fmt.Errorf("failed to send email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		s.logger.Error().Int("status", res.StatusCode).Str("to", msg.ToEmail).Str("body", res.Body).Msg("SendGrid rejected email")
		return fmt.Errorf("failed to send email: sendgrid status %d", res.StatusCode)
	}

	s.logger.Debug().Str("to", msg.ToEmail).Str("subject", msg.Subject).Msg("Email sent")
	return nil
}

// logEmailService is used in development when no provider is configured
type logEmailService struct {
	logger zerolog.Logger
}

func (s *logEmailService) Send(_ context.Context, msg Message) error {
	s.logger.Info().
		Str("to", msg.ToEmail).
		Str("subject", msg.Subject).
		Str("body", msg.Text).
		Msg("Email delivery disabled - message logged instead")
	return nil
}

func renderHTML(msg Message) string {
	paragraphs := strings.Split(strings.TrimSpace(msg.Text), "\n\n")
	var b strings.Builder
	b.WriteString(`<html><body><div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	fmt.Fprintf(&b, `<h2 style="color: #333;">%s</h2>`, html.EscapeString(msg.Subject))
	if msg.ToName != "" {
		fmt.Fprintf(&b, "<p>Hello %s,</p>", html.EscapeString(msg.ToName))
	}
	for _, p := range paragraphs {
		fmt.Fprintf(&b, "<p>%s</p>", strings.ReplaceAll(html.EscapeString(p), "\n", "<br>"))
	}
	b.WriteString("</div></body></html>")
	return b.String()
}
