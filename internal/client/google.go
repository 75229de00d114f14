// Client for Google identity endpoints.
//
// Two paths use it:
//   - POST /api/auth/google verifies an ID token minted by the mobile client.
//   - The dev-only /test-google-auth page and its callback run a full
//     server-side code exchange for local testing without the app.
package client

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/sehatguru/backend/internal/config"
	"github.com/sehatguru/backend/internal/model"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleIssuer = "https://accounts.google.com"

type GoogleClient struct {
	verifier *oidc.IDTokenVerifier
	oauth    *oauth2.Config
}

// NewGoogleClient fetches Google's OIDC discovery document once at startup.
func NewGoogleClient(ctx context.Context, cfg config.GoogleConfig) (*GoogleClient, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID is required")
	}

	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init google oidc provider: %w", err)
	}

	return &GoogleClient{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
	}, nil
}

// Verify checks the ID token's signature, issuer, audience and expiry
// against Google's published keys.
func (g *GoogleClient) Verify(ctx context.Context, rawIDToken string) (*model.GoogleUser, error) {
	idToken, err := g.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("id token verification failed: %w", err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("id token claims malformed: %w", err)
	}

	return &model.GoogleUser{
		Subject:       idToken.Subject,
		Email:         claims.Email,
		Name:          claims.Name,
		Picture:       claims.Picture,
		EmailVerified: claims.EmailVerified,
	}, nil
}

// ExchangeIDToken trades an authorization code for the ID token inside the
// token response. Dev flow only.
func (g *GoogleClient) ExchangeIDToken(ctx context.Context, code string) (string, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("code exchange failed: %w", err)
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", fmt.Errorf("token response missing id_token")
	}
	return rawIDToken, nil
}

// ClientID is used to render the dev sign-in page.
func (g *GoogleClient) ClientID() string { return g.oauth.ClientID }

// RedirectURL is used to render the dev sign-in page.
func (g *GoogleClient) RedirectURL() string { return g.oauth.RedirectURL }
