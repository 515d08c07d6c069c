package mailer

import (
	"strings"
	"testing"
)

func TestTemplatesRender(t *testing.T) {
	cases := []struct {
		template    string
		args        []string
		wantSubject string
		wantInHTML  []string
	}{
		{
			template:    "donationRequest",
			args:        []string{"Dana", "Bread", "Vic"},
			wantSubject: "New Request for Your Donation: Bread",
			wantInHTML:  []string{"Dana", "Vic", "Bread", "https://app.example/donor/dashboard"},
		},
		{
			template:    "donationAccepted",
			args:        []string{"Vic", "Bread", "Dana"},
			wantSubject: "Your Food Request Has Been Accepted: Bread",
			wantInHTML:  []string{"Vic", "Dana", "volunteer/dashboard"},
		},
		{
			template:    "pickupScheduled",
			args:        []string{"Dana", "Bread", "Vic", "3:00 PM"},
			wantSubject: "Pickup Scheduled for Bread",
			wantInHTML:  []string{"Vic", "3:00 PM"},
		},
		{
			template:    "pickupCompleted",
			args:        []string{"Dana", "Bread"},
			wantSubject: "Pickup Completed for Bread",
			wantInHTML:  []string{"Dana", "successfully completed"},
		},
		{
			template:    "donationExpired",
			args:        []string{"Dana", "Bread"},
			wantSubject: "Your Donation Has Expired: Bread",
			wantInHTML:  []string{"Dana", "no longer visible"},
		},
		{
			template:    "donationExpiringSoon",
			args:        []string{"Dana", "Bread"},
			wantSubject: "Donation Expiring Soon: Bread",
			wantInHTML:  []string{"Dana", "less than 24 hours"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.template, func(t *testing.T) {
			tmpl, ok := templates[tc.template]
			if !ok {
				t.Fatalf("template %q not registered", tc.template)
			}
			if got := tmpl.subject(tc.args); got != tc.wantSubject {
				t.Errorf("subject = %q, want %q", got, tc.wantSubject)
			}
			html := tmpl.html("https://app.example", tc.args)
			for _, want := range tc.wantInHTML {
				if !strings.Contains(html, want) {
					t.Errorf("html missing %q", want)
				}
			}
		})
	}
}

func TestTemplatesTolerateMissingArgs(t *testing.T) {
	for _, tmpl := range templates {
		_ = tmpl.subject(nil)
		_ = tmpl.html("https://app.example", nil)
	}
}
