package service

import (
	"errors"
	"testing"
	"time"

	"github.com/sehatguru/backend/internal/config"
)

func testTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(config.AuthConfig{
		JWTSecret:  "test-secret",
		AccessTTL:  "30m",
		RefreshTTL: "168h",
		ResetTTL:   "1h",
		VerifyTTL:  "24h",
	})
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}
	return svc
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	if _, err := NewTokenService(config.AuthConfig{}); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured, got %v", err)
	}
}

func TestTokenRoundtrip(t *testing.T) {
	svc := testTokenService(t)

	tests := []struct {
		name      string
		issue     func() (string, error)
		wantType  string
		wantSub   string
		wantEmail string
	}{
		{
			name:      "access",
			issue:     func() (string, error) { return svc.CreateAccessToken("uid-1", "a@example.com") },
			wantType:  TokenTypeAccess,
			wantSub:   "uid-1",
			wantEmail: "a@example.com",
		},
		{
			name:      "refresh",
			issue:     func() (string, error) { return svc.CreateRefreshToken("uid-2", "b@example.com") },
			wantType:  TokenTypeRefresh,
			wantSub:   "uid-2",
			wantEmail: "b@example.com",
		},
		{
			name:     "password-reset",
			issue:    func() (string, error) { return svc.CreatePasswordResetToken("c@example.com") },
			wantType: TokenTypePasswordReset,
			wantSub:  "c@example.com",
		},
		{
			name:     "email-verify",
			issue:    func() (string, error) { return svc.CreateEmailVerifyToken("d@example.com") },
			wantType: TokenTypeEmailVerify,
			wantSub:  "d@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tt.issue()
			if err != nil {
				t.Fatalf("issue error: %v", err)
			}

			claims, err := svc.Verify(token, tt.wantType)
			if err != nil {
				t.Fatalf("Verify error: %v", err)
			}
			if claims.Subject != tt.wantSub {
				t.Errorf("subject = %q, want %q", claims.Subject, tt.wantSub)
			}
			if claims.Email != tt.wantEmail {
				t.Errorf("email = %q, want %q", claims.Email, tt.wantEmail)
			}
			if claims.TokenType != tt.wantType {
				t.Errorf("token_type = %q, want %q", claims.TokenType, tt.wantType)
			}
		})
	}
}

func TestVerify_Expired(t *testing.T) {
	svc := testTokenService(t)
	svc.accessTTL = -time.Minute

	token, err := svc.CreateAccessToken("uid-1", "a@example.com")
	if err != nil {
		t.Fatalf("CreateAccessToken error: %v", err)
	}

	if _, err := svc.Verify(token, TokenTypeAccess); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	svc := testTokenService(t)
	other := testTokenService(t)
	other.secret = []byte("another-secret")

	token, err := svc.CreateAccessToken("uid-1", "a@example.com")
	if err != nil {
		t.Fatalf("CreateAccessToken error: %v", err)
	}

	if _, err := other.Verify(token, TokenTypeAccess); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	svc := testTokenService(t)

	if _, err := svc.Verify("not-a-jwt", TokenTypeAccess); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestVerify_WrongType(t *testing.T) {
	svc := testTokenService(t)

	token, err := svc.CreateRefreshToken("uid-1", "a@example.com")
	if err != nil {
		t.Fatalf("CreateRefreshToken error: %v", err)
	}

	if _, err := svc.Verify(token, TokenTypeAccess); !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("expected ErrWrongTokenType, got %v", err)
	}
}
