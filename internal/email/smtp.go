package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
// It renders the same HTML templates as BrevoSender but delivers via a self-hosted relay.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendLeadConfirmationEmail(ctx context.Context, toEmail, name, serviceLabel string) error {
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
	return s.send(ctx, toEmail, subjectLeadConfirmation, content)
}

func (s *SMTPSender) SendContractorAlertEmail(ctx context.Context, toEmail string, alert ContractorAlert) error {
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
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return s.send(ctx, toEmail, subject, htmlContent)
}
