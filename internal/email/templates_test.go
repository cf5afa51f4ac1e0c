package email

import (
	"strings"
	"testing"
)

func TestRenderLeadConfirmationTemplate(t *testing.T) {
	content, err := renderEmailTemplate("lead_confirmation.html", leadConfirmationEmailData{
		baseEmailData: baseEmailData{Title: "Request received", Heading: "We're on it"},
		Name:          "Dana",
		ServiceLabel:  "HVAC Repair",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{"Dana", "HVAC Repair", "We&#39;re on it"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected rendered email to contain %q", want)
		}
	}
	if strings.Contains(content, "{{") {
		t.Fatal("unexecuted template action in rendered output")
	}
}

func TestRenderContractorAlertTemplate(t *testing.T) {
	content, err := renderEmailTemplate("contractor_alert.html", contractorAlertEmailData{
		baseEmailData: baseEmailData{
			Title:    "New lead available",
			Heading:  "New HVAC Repair lead",
			CTALabel: "View lead",
			CTAURL:   "https://app.example.com/dashboard/leads/abc",
		},
		ContractorAlert: ContractorAlert{
			CompanyName:  "Peach State Mechanical",
			ServiceLabel: "HVAC Repair",
			Urgency:      "emergency",
			City:         "Decatur",
			Zip:          "30030",
			Price:        37.5,
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		"Peach State Mechanical",
		"Decatur, 30030",
		"$37.50",
		"https://app.example.com/dashboard/leads/abc",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected rendered email to contain %q", want)
		}
	}
}

func TestNewSenderDisabledReturnsNoop(t *testing.T) {
	sender, err := NewSender(fakeEmailConfig{enabled: false})
	if err != nil {
		t.Fatalf("NewSender: %v", err)
	}
	if _, ok := sender.(NoopSender); !ok {
		t.Fatalf("expected NoopSender when email disabled, got %T", sender)
	}
}

func TestNewSenderUnknownProvider(t *testing.T) {
	if _, err := NewSender(fakeEmailConfig{enabled: true, provider: "sendgrid"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewSenderBrevoRequiresAPIKey(t *testing.T) {
	if _, err := NewSender(fakeEmailConfig{enabled: true, provider: "brevo"}); err == nil {
		t.Fatal("expected error when brevo api key missing")
	}
}

type fakeEmailConfig struct {
	enabled  bool
	provider string
	apiKey   string
}

func (f fakeEmailConfig) GetEmailEnabled() bool       { return f.enabled }
func (f fakeEmailConfig) GetEmailProvider() string    { return f.provider }
func (f fakeEmailConfig) GetBrevoAPIKey() string      { return f.apiKey }
func (f fakeEmailConfig) GetSMTPHost() string         { return "" }
func (f fakeEmailConfig) GetSMTPPort() int            { return 587 }
func (f fakeEmailConfig) GetSMTPUser() string         { return "" }
func (f fakeEmailConfig) GetSMTPPassword() string     { return "" }
func (f fakeEmailConfig) GetEmailFromName() string    { return "Georgia Home Services" }
func (f fakeEmailConfig) GetEmailFromAddress() string { return "no-reply@example.com" }
