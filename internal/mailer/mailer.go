package mailer

import (
	"context"
	"fmt"

	"foodrescue-backend/internal/config"

	"github.com/resend/resend-go/v2"
)

// Sender delivers one templated email. Implementations must not panic into
// the caller; lifecycle transitions treat a failed send as non-fatal.
type Sender interface {
	Send(ctx context.Context, to, template string, args ...string) error
}

type template struct {
	subject func(args []string) string
	html    func(frontendURL string, args []string) string
}

// Template keys mirror the transition that triggers them.
var templates = map[string]template{
	"donationRequest": {
		// args: donorName, foodName, requesterName
		subject: func(a []string) string {
			return fmt.Sprintf("New Request for Your Donation: %s", arg(a, 1))
		},
		html: func(url string, a []string) string {
			return fmt.Sprintf(
				"<p>Hello %s,</p><p><strong>%s</strong> has requested your donation of <strong>%s</strong>.</p>"+
					"<p><a href=\"%s/donor/dashboard\">View Request</a></p>"+footer,
				arg(a, 0), arg(a, 2), arg(a, 1), url)
		},
	},
	"donationAccepted": {
		// args: requesterName, foodName, donorName
		subject: func(a []string) string {
			return fmt.Sprintf("Your Food Request Has Been Accepted: %s", arg(a, 1))
		},
		html: func(url string, a []string) string {
			return fmt.Sprintf(
				"<p>Hello %s,</p><p>Good news! <strong>%s</strong> has accepted your request for <strong>%s</strong>.</p>"+
					"<p><a href=\"%s/volunteer/dashboard\">View Details</a></p>"+footer,
				arg(a, 0), arg(a, 2), arg(a, 1), url)
		},
	},
	"pickupScheduled": {
		// args: donorName, foodName, requesterName, pickupTime
		subject: func(a []string) string {
			return fmt.Sprintf("Pickup Scheduled for %s", arg(a, 1))
		},
		html: func(url string, a []string) string {
			return fmt.Sprintf(
				"<p>Hello %s,</p><p><strong>%s</strong> has scheduled a pickup for <strong>%s</strong> at %s.</p>"+
					"<p>Please ensure the donation is ready for pickup at the scheduled time.</p>"+footer,
				arg(a, 0), arg(a, 2), arg(a, 1), arg(a, 3))
		},
	},
	"pickupCompleted": {
		// args: recipientName, foodName
		subject: func(a []string) string {
			return fmt.Sprintf("Pickup Completed for %s", arg(a, 1))
		},
		html: func(url string, a []string) string {
			return fmt.Sprintf(
				"<p>Hello %s,</p><p>The pickup for <strong>%s</strong> has been successfully completed.</p>"+
					"<p>Thank you for your contribution to reducing food waste!</p>"+footer,
				arg(a, 0), arg(a, 1))
		},
	},
	"donationExpired": {
		// args: donorName, foodName
		subject: func(a []string) string {
			return fmt.Sprintf("Your Donation Has Expired: %s", arg(a, 1))
		},
		html: func(url string, a []string) string {
			return fmt.Sprintf(
				"<p>Hello %s,</p><p>Your donation <strong>%s</strong> has expired and is no longer visible to volunteers.</p>"+footer,
				arg(a, 0), arg(a, 1))
		},
	},
	"donationExpiringSoon": {
		// args: donorName, foodName
		subject: func(a []string) string {
			return fmt.Sprintf("Donation Expiring Soon: %s", arg(a, 1))
		},
		html: func(url string, a []string) string {
			return fmt.Sprintf(
				"<p>Hello %s,</p><p>Your donation <strong>%s</strong> will expire in less than 24 hours.</p>"+footer,
				arg(a, 0), arg(a, 1))
		},
	},
}

const footer = "<p style=\"color:#666;font-size:12px\">This is an automated message from Food Rescue Hub. Please do not reply to this email.</p>"

func arg(a []string, i int) string {
	if i < len(a) {
		return a[i]
	}
	return ""
}

// ResendMailer sends transactional email through the Resend API.
type ResendMailer struct {
	client      *resend.Client
	from        string
	frontendURL string
}

func NewResendMailer(cfg *config.Config) *ResendMailer {
	return &ResendMailer{
		client:      resend.NewClient(cfg.ResendAPIKey),
		from:        cfg.EmailFrom,
		frontendURL: cfg.FrontendURL,
	}
}

func (m *ResendMailer) Send(ctx context.Context, to, tmpl string, args ...string) error {
	t, ok := templates[tmpl]
	if !ok {
		return fmt.Errorf("unknown email template %q", tmpl)
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: t.subject(args),
		Html:    t.html(m.frontendURL, args),
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

// NopMailer is used when no API key is configured.
type NopMailer struct{}

func (NopMailer) Send(ctx context.Context, to, tmpl string, args ...string) error {
	return nil
}
