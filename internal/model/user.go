package model

import "time"

// Auth providers recorded on a profile.
const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
)

// Credential is the identity record: canonical email, canonical password
// hash, and the canonical email_verified flag. The profile document mirrors
// parts of it and may lag behind.
type Credential struct {
	UID           string
	Email         string
	PasswordHash  string
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Profile is the user document keyed by the same UID as the credential
// record. PasswordHash here is the copy used for login verification; it is
// empty for Google-only accounts.
type Profile struct {
	UID               string
	Email             string
	FullName          string
	PasswordHash      string
	AuthProvider      string
	PhotoURL          string
	GoogleUID         string
	EmailVerified     bool
	PasswordChangedAt time.Time
	LastLogin         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasPassword reports whether the account can authenticate locally.
func (p *Profile) HasPassword() bool {
	return p.PasswordHash != ""
}

// GoogleUser is the identity extracted from a verified Google ID token.
type GoogleUser struct {
	Subject       string
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
}
