package services

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/resend/resend-go/v2"

	"github.com/hoangminh/cardbox/internal/config"
	"github.com/hoangminh/cardbox/internal/logging"
)

var ErrUnknownEmailProvider = errors.New("unknown email provider")

// EmailServiceInterface lets handlers depend on an interface for testing.
type EmailServiceInterface interface {
	SendCreationLink(ctx context.Context, to, creationURL string) error
}

// EmailService delivers one-time creation links to third parties. The
// "console" provider just logs the message, which is what local development
// uses.
type EmailService struct {
	cfg    *config.EmailConfig
	resend *resend.Client
}

func NewEmailService(cfg *config.EmailConfig) *EmailService {
	svc := &EmailService{cfg: cfg}
	if cfg.Provider == "resend" {
		svc.resend = resend.NewClient(cfg.ResendAPIKey)
	}
	return svc
}

func (s *EmailService) SendCreationLink(ctx context.Context, to, creationURL string) error {
	subject := "You have been invited to make a card"
	htmlBody, textBody := buildCreationLinkEmail(creationURL)

	switch s.cfg.Provider {
	case "console":
		logging.Info("Email (console provider)", map[string]interface{}{
			"to":      to,
			"subject": subject,
			"body":    textBody,
		})
		return nil
	case "resend":
		_, err := s.resend.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
			From:    fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromAddress),
			To:      []string{to},
			Subject: subject,
			Html:    htmlBody,
			Text:    textBody,
		})
		if err != nil {
			return fmt.Errorf("sending email via resend: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEmailProvider, s.cfg.Provider)
	}
}

func buildCreationLinkEmail(creationURL string) (string, string) {
	safeURL := html.EscapeString(creationURL)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 640px; margin: 0 auto; padding: 24px;">
  <h1 style="color: #333; font-size: 24px;">Make someone's day</h1>
  <p>You have been invited to create a greeting card. The link below works exactly once.</p>
  <p>
    <a href="%s" style="display: inline-block; background: #d94f70; color: white; padding: 10px 18px; text-decoration: none; border-radius: 6px; margin: 12px 0;">Create your card</a>
  </p>
  <p style="color: #666; font-size: 14px;">Or paste this address into your browser:<br><a href="%s">%s</a></p>
</body>
</html>`, safeURL, safeURL, safeURL)

	textBody := fmt.Sprintf(
		"You have been invited to create a greeting card.\n\nThe link below works exactly once:\n%s\n",
		creationURL,
	)

	return htmlBody, textBody
}

var _ EmailServiceInterface = (*EmailService)(nil)
