package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"leadmarket_backend/platform/config"
)

// Sender delivers transactional email. Implementations must be safe for
// concurrent use; the worker fans alerts out in parallel.
type Sender interface {
	SendLeadConfirmationEmail(ctx context.Context, toEmail, name, serviceLabel string) error
	SendContractorAlertEmail(ctx context.Context, toEmail string, alert ContractorAlert) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

// ContractorAlert carries the lead summary shown in a new-lead alert email.
// Contact details are withheld until the contractor accepts the lead.
type ContractorAlert struct {
	CompanyName  string
	ServiceLabel string
	Urgency      string
	City         string
	Zip          string
	Price        float64
	DashboardURL string
}

// NoopSender drops all email. Used when EMAIL_ENABLED is false.
type NoopSender struct{}

func (NoopSender) SendLeadConfirmationEmail(ctx context.Context, toEmail, name, serviceLabel string) error {
	return nil
}

func (NoopSender) SendContractorAlertEmail(ctx context.Context, toEmail string, alert ContractorAlert) error {
	return nil
}

func (NoopSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return nil
}

// BrevoSender delivers email through the Brevo transactional API.
type BrevoSender struct {
	apiKey    string
	fromName  string
	fromEmail string
	client    *http.Client
}

type brevoEmailRequest struct {
	Sender struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"sender"`
	To []struct {
		Email string `json:"email"`
	} `json:"to"`
	Subject     string `json:"subject"`
	HTMLContent string `json:"htmlContent"`
}

// NewSender picks the sender implementation from configuration.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	switch cfg.GetEmailProvider() {
	case "smtp":
		return NewSMTPSender(
			cfg.GetSMTPHost(), cfg.GetSMTPPort(),
			cfg.GetSMTPUser(), cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(), cfg.GetEmailFromName(),
		), nil
	case "brevo":
		if cfg.GetBrevoAPIKey() == "" {
			return nil, fmt.Errorf("email enabled with brevo provider but BREVO_API_KEY is empty")
		}
		return &BrevoSender{
			apiKey:    cfg.GetBrevoAPIKey(),
			fromName:  cfg.GetEmailFromName(),
			fromEmail: cfg.GetEmailFromAddress(),
			client:    &http.Client{Timeout: 10 * time.Second},
		}, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.GetEmailProvider())
	}
}

func (b *BrevoSender) SendLeadConfirmationEmail(ctx context.Context, toEmail, name, serviceLabel string) error {
	content, err := renderEmailTemplate("lead_confirmation.html", leadConfirmationEmailData{
		baseEmailData: baseEmailData{
			Title:   "Request received",
			Heading: "We're on it",
		},
		Name:         name,
		ServiceLabel: serviceLabel,
	})
	if err != nil {
		return err
	}
	return b.send(ctx, toEmail, subjectLeadConfirmation, content)
}

func (b *BrevoSender) SendContractorAlertEmail(ctx context.Context, toEmail string, alert ContractorAlert) error {
	subject := fmt.Sprintf(subjectContractorAlertFmt, alert.ServiceLabel, alert.Zip)
	content, err := renderEmailTemplate("contractor_alert.html", contractorAlertEmailData{
		baseEmailData: baseEmailData{
			Title:    "New lead available",
			Heading:  "New " + alert.ServiceLabel + " lead",
			CTALabel: "View lead",
			CTAURL:   alert.DashboardURL,
		},
		ContractorAlert: alert,
	})
	if err != nil {
		return err
	}
	return b.send(ctx, toEmail, subject, content)
}

func (b *BrevoSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return b.send(ctx, toEmail, subject, htmlContent)
}

func (b *BrevoSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	payload := brevoEmailRequest{
		Subject:     subject,
		HTMLContent: htmlContent,
	}
	payload.Sender.Name = b.fromName
	payload.Sender.Email = b.fromEmail
	payload.To = []struct {
		Email string `json:"email"`
	}{{Email: toEmail}}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.brevo.com/v3/smtp/email", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", b.apiKey)
	req.Header.Set("content-type", "application/json")
	req.Header.Set("accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo send failed: status %d: %s", resp.StatusCode, string(data))
	}

	return nil
}
