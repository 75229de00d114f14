package template

import (
	"strings"
	"testing"
)

func TestRenderEmail(t *testing.T) {
	data := EmailData{
		AppName: "SehatGuru",
		Link:    "http://localhost:3000/confirm-email?token=abc123",
		Expiry:  "24 hours",
	}

	tests := []struct {
		name string
		body string
	}{
		{"verification text", VerificationText},
		{"verification html", VerificationHTML},
		{"reset text", PasswordResetText},
		{"reset html", PasswordResetHTML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderEmail(tt.body, data)
			if strings.Contains(out, "{{") {
				t.Errorf("unresolved template variable in output:\n%s", out)
			}
			for _, want := range []string{data.AppName, data.Link, data.Expiry} {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q", want)
				}
			}
		})
	}
}

func TestRenderSignInPage(t *testing.T) {
	out := RenderSignInPage(SignInPageData{
		ClientID:    "client-123.apps.googleusercontent.com",
		RedirectURI: "http://localhost:8000/api/auth/google/callback",
	})

	if !strings.Contains(out, `data-client_id="client-123.apps.googleusercontent.com"`) {
		t.Error("client id not substituted")
	}
	if !strings.Contains(out, `data-login_uri="http://localhost:8000/api/auth/google/callback"`) {
		t.Error("redirect uri not substituted")
	}
	if strings.Contains(out, "{{") {
		t.Error("unresolved template variable in sign-in page")
	}
}
