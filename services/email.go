package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"support_desk_go/config"

	"github.com/resend/resend-go/v2"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

func (e *Email) validate() error {
	if len(e.To) == 0 || strings.TrimSpace(e.To[0]) == "" {
		return fmt.Errorf("email must have a recipient")
	}
	if e.HTMLBody == "" && e.TextBody == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}
	return nil
}

// Sender delivers an email and returns the provider message id
type Sender interface {
	Send(ctx context.Context, email *Email) (string, error)
}

// NewSender picks the delivery channel from configuration. Test mode always logs.
func NewSender(cfg *config.Config) (Sender, error) {
	if cfg.EmailTestMode {
		log.Println("[EMAIL] Test mode enabled, emails are logged instead of sent")
		return &LogSender{}, nil
	}

	switch cfg.EmailProvider {
	case config.EmailProviderSendGrid:
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SENDGRID_API_KEY not configured")
		}
		return NewSendGridSender(cfg), nil
	case config.EmailProviderResend, "":
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("RESEND_API_KEY not configured")
		}
		return NewResendSender(cfg), nil
	}
	return nil, fmt.Errorf("unknown email provider %q", cfg.EmailProvider)
}

// ResendSender sends email through the Resend API
type ResendSender struct {
	client      *resend.Client
	fromAddress string
}

// NewResendSender creates a Resend-backed sender
func NewResendSender(cfg *config.Config) *ResendSender {
	return &ResendSender{
		client:      resend.NewClient(cfg.ResendAPIKey),
		fromAddress: fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
	}
}

// Send sends an email using Resend API
func (s *ResendSender) Send(ctx context.Context, email *Email) (string, error) {
	if err := email.validate(); err != nil {
		return "", err
	}

	params := &resend.SendEmailRequest{
		From:    s.fromAddress,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to send email via Resend: %w", err)
	}

	log.Printf("[EMAIL] Sent via Resend (ID: %s) to: %v", sent.Id, email.To)
	return sent.Id, nil
}

// SendGridSender sends email through the SendGrid v3 API
type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewSendGridSender creates a SendGrid-backed sender
func NewSendGridSender(cfg *config.Config) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:   mail.NewEmail(cfg.EmailFromName, cfg.EmailFrom),
	}
}

// Send sends an email using SendGrid
func (s *SendGridSender) Send(ctx context.Context, email *Email) (string, error) {
	if err := email.validate(); err != nil {
		return "", err
	}

	message := mail.NewSingleEmail(s.from, email.Subject, mail.NewEmail("", email.To[0]), email.TextBody, email.HTMLBody)
	if len(email.To) > 1 {
		for _, to := range email.To[1:] {
			message.Personalizations[0].AddTos(mail.NewEmail("", to))
		}
	}

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return "", fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("SendGrid rate limit reached")
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("SendGrid returned status %d: %s", resp.StatusCode, resp.Body)
	}

	messageID := ""
	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}
	log.Printf("[EMAIL] Sent via SendGrid (ID: %s) to: %v", messageID, email.To)
	return messageID, nil
}

// LogSender logs emails to the console instead of sending them
type LogSender struct{}

// Send logs the email and returns a synthetic message id
func (s *LogSender) Send(ctx context.Context, email *Email) (string, error) {
	if err := email.validate(); err != nil {
		return "", err
	}
	logEmailToConsole(email)
	return fmt.Sprintf("msg_%d_%s", time.Now().UnixMilli(), randomSuffix()), nil
}

// logEmailToConsole logs email details to console in development mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\n[EMAIL] Test mode - not actually sent\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("\n--- HTML BODY (first 500 chars) ---\n%s...", truncate(email.HTMLBody, 500))
	log.Printf("%s\n", separator)
}

// truncate truncates a string to a maximum length
// truncate cuts s to at most maxLen bytes without splitting a UTF-8 sequence
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
