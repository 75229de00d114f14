package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sehatguru/backend/internal/db"
	"github.com/sehatguru/backend/internal/metrics"
	"github.com/sehatguru/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const (
	minFullNameLength = 2
	maxFullNameLength = 100
	minPasswordLength = 6
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrEmailExists        = errors.New("email already registered")
	ErrNotFound           = errors.New("user not found")
	ErrGoogleOnly         = errors.New("account uses google sign-in")
	ErrInvalidGoogleToken = errors.New("invalid google token")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrResetTokenInvalid  = errors.New("invalid reset token")
	ErrResetTokenExpired  = errors.New("expired reset token")
	ErrVerifyTokenInvalid = errors.New("invalid verification token")
	ErrEmailDelivery      = errors.New("email delivery failed")
)

// CredentialStore is the identity store of record: canonical email, canonical
// password hash, canonical email_verified flag.
type CredentialStore interface {
	CreateCredential(ctx context.Context, uid, email, passwordHash string, emailVerified bool) (*model.Credential, error)
	GetCredentialByEmail(ctx context.Context, email string) (*model.Credential, error)
	GetCredentialByUID(ctx context.Context, uid string) (*model.Credential, error)
	UpdateCredentialPassword(ctx context.Context, uid, passwordHash string) error
	SetEmailVerified(ctx context.Context, uid string, verified bool) error
	DeleteCredential(ctx context.Context, uid string) error
}

// ProfileStore holds the user document mirror, including the verification
// hash and password_changed_at.
type ProfileStore interface {
	CreateProfile(ctx context.Context, p *model.Profile) (*model.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*model.Profile, error)
	GetProfileByUID(ctx context.Context, uid string) (*model.Profile, error)
	UpdateLastLogin(ctx context.Context, uid string) error
	UpdateProfilePassword(ctx context.Context, uid, passwordHash string) error
	SyncProfileEmailVerified(ctx context.Context, uid string, verified bool) error
	DeleteProfile(ctx context.Context, uid string) error
}

// GoogleVerifier validates a Google ID token and returns its identity claims.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*model.GoogleUser, error)
}

// AuthDeps collects everything AuthService composes.
type AuthDeps struct {
	Credentials CredentialStore
	Profiles    ProfileStore
	Tokens      *TokenService
	Blacklist   *Blacklist
	Google      GoogleVerifier
	Mailer      Mailer
	Metrics     metrics.AuthCollector
	FrontendURL string
}

type AuthService struct {
	creds       CredentialStore
	profiles    ProfileStore
	tokens      *TokenService
	blacklist   *Blacklist
	google      GoogleVerifier
	mailer      Mailer
	metrics     metrics.AuthCollector
	frontendURL string
}

func NewAuthService(deps AuthDeps) *AuthService {
	collector := deps.Metrics
	if collector == nil {
		collector = metrics.Noop{}
	}
	return &AuthService{
		creds:       deps.Credentials,
		profiles:    deps.Profiles,
		tokens:      deps.Tokens,
		blacklist:   deps.Blacklist,
		google:      deps.Google,
		mailer:      deps.Mailer,
		metrics:     collector,
		frontendURL: strings.TrimRight(deps.FrontendURL, "/"),
	}
}

// Register creates the identity record and the profile document, then sends
// the verification email best-effort. A failed profile write rolls the
// credential back so the two stores cannot diverge on this path.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.UserResponse, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := normalizeEmail(req.Email)
	if len(fullName) < minFullNameLength || len(fullName) > maxFullNameLength {
		return nil, ErrInvalidInput
	}
	if email == "" || len(req.Password) < minPasswordLength {
		return nil, ErrInvalidInput
	}

	if err := s.checkEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	uid := uuid.NewString()
	if _, err := s.creds.CreateCredential(ctx, uid, email, string(hash), false); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	profile, err := s.profiles.CreateProfile(ctx, &model.Profile{
		UID:          uid,
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		AuthProvider: model.ProviderEmail,
	})
	if err != nil {
		if cleanupErr := s.creds.DeleteCredential(ctx, uid); cleanupErr != nil {
			log.Printf("[AuthService] Failed to roll back credential %s after profile write error: %v", uid, cleanupErr)
		}
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	s.metrics.RecordRegistration()
	s.sendVerificationEmailAsync(email)

	created := profile.CreatedAt
	return &model.UserResponse{
		UID:           profile.UID,
		Email:         profile.Email,
		FullName:      profile.FullName,
		EmailVerified: false,
		CreatedAt:     &created,
	}, nil
}

// Login verifies the password against the profile's hash. An unknown email,
// a mismatch, and a Google-only account are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	profile, err := s.profiles.GetProfileByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			s.metrics.RecordLogin(false)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !profile.HasPassword() {
		s.metrics.RecordLogin(false)
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		s.metrics.RecordLogin(false)
		return nil, ErrInvalidCredentials
	}

	if err := s.profiles.UpdateLastLogin(ctx, profile.UID); err != nil {
		return nil, err
	}

	s.metrics.RecordLogin(true)
	return s.issuePair(profile.UID, profile.Email)
}

// GoogleAuth verifies the Google ID token, creating the user on first
// sign-in. Google accounts have no local password.
func (s *AuthService) GoogleAuth(ctx context.Context, idToken string) (*model.TokenResponse, error) {
	if s.google == nil {
		return nil, fmt.Errorf("%w: google sign-in is not configured", ErrInvalidGoogleToken)
	}

	gu, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
	}
	if gu.Email == "" {
		return nil, fmt.Errorf("%w: email not provided by google", ErrInvalidGoogleToken)
	}
	email := normalizeEmail(gu.Email)

	profile, err := s.profiles.GetProfileByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.profiles.UpdateLastLogin(ctx, profile.UID); err != nil {
			return nil, err
		}
	case db.IsNoRows(err):
		profile, err = s.createGoogleUser(ctx, email, gu)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	s.metrics.RecordGoogleSignIn()
	return s.issuePair(profile.UID, profile.Email)
}

func (s *AuthService) createGoogleUser(ctx context.Context, email string, gu *model.GoogleUser) (*model.Profile, error) {
	uid := uuid.NewString()
	// Google already verified the address.
	if _, err := s.creds.CreateCredential(ctx, uid, email, "", true); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	profile, err := s.profiles.CreateProfile(ctx, &model.Profile{
		UID:           uid,
		Email:         email,
		FullName:      gu.Name,
		AuthProvider:  model.ProviderGoogle,
		PhotoURL:      gu.Picture,
		GoogleUID:     gu.Subject,
		EmailVerified: true,
	})
	if err != nil {
		if cleanupErr := s.creds.DeleteCredential(ctx, uid); cleanupErr != nil {
			log.Printf("[AuthService] Failed to roll back credential %s after profile write error: %v", uid, cleanupErr)
		}
		return nil, err
	}
	return profile, nil
}

// Refresh mints a new access token. The refresh token itself is not rotated.
// A refresh token issued before the last password change is rejected.
func (s *AuthService) Refresh(ctx context.Context, claims *TokenClaims) (*model.TokenResponse, error) {
	profile, err := s.profiles.GetProfileByUID(ctx, claims.Subject)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	if issuedBeforePasswordChange(claims, profile) {
		return nil, ErrTokenRevoked
	}

	accessToken, err := s.tokens.CreateAccessToken(profile.UID, profile.Email)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTokenRefresh()
	return &model.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

// CurrentUser returns the profile behind a validated access token. Tokens
// issued before the last password change are rejected. When the canonical
// email_verified flag has moved ahead of the mirror, the mirror is synced
// here, lazily.
func (s *AuthService) CurrentUser(ctx context.Context, claims *TokenClaims) (*model.UserResponse, error) {
	profile, err := s.profiles.GetProfileByUID(ctx, claims.Subject)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if issuedBeforePasswordChange(claims, profile) {
		return nil, ErrUnauthorized
	}

	emailVerified := profile.EmailVerified
	cred, err := s.creds.GetCredentialByUID(ctx, profile.UID)
	if err != nil {
		log.Printf("[AuthService] Could not read credential for email_verified sync (uid=%s): %v", profile.UID, err)
	} else if cred.EmailVerified != profile.EmailVerified {
		if err := s.profiles.SyncProfileEmailVerified(ctx, profile.UID, cred.EmailVerified); err != nil {
			log.Printf("[AuthService] Could not sync email_verified for uid=%s: %v", profile.UID, err)
		} else {
			log.Printf("[AuthService] Synced email_verified for uid=%s: %v", profile.UID, cred.EmailVerified)
			emailVerified = cred.EmailVerified
		}
	}

	created := profile.CreatedAt
	return &model.UserResponse{
		UID:           profile.UID,
		Email:         profile.Email,
		FullName:      profile.FullName,
		EmailVerified: emailVerified,
		CreatedAt:     &created,
		PhotoURL:      profile.PhotoURL,
	}, nil
}

// Logout blacklists the presented access token until its natural expiry.
// Idempotent; there is no failure mode. A token that never verified cannot
// authenticate, so nil claims leave the blacklist untouched.
func (s *AuthService) Logout(token string, claims *TokenClaims) {
	if claims == nil {
		return
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	s.blacklist.Revoke(token, expiresAt)
	s.metrics.RecordLogout()
}

// ForgotPassword responds identically for unknown and known emails so the
// endpoint cannot be used for account enumeration. Only a Google-only
// account produces a distinct error.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	profile, err := s.profiles.GetProfileByEmail(ctx, email)
	if err != nil {
		if !db.IsNoRows(err) {
			log.Printf("[AuthService] Password reset lookup failed for %s: %v", email, err)
		}
		return nil
	}

	if !profile.HasPassword() && profile.AuthProvider == model.ProviderGoogle {
		return ErrGoogleOnly
	}

	token, err := s.tokens.CreatePasswordResetToken(email)
	if err != nil {
		log.Printf("[AuthService] Could not create reset token for %s: %v", email, err)
		return nil
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)
	if err := s.mailer.SendPasswordResetEmail(email, link); err != nil {
		log.Printf("[AuthService] Could not send password reset email to %s: %v", email, err)
		s.metrics.RecordEmailSent("password_reset", false)
		return nil
	}
	s.metrics.RecordEmailSent("password_reset", true)
	return nil
}

// ResetPassword redeems a reset token and writes the new hash to both
// stores. Moving password_changed_at forward invalidates every access and
// refresh token issued before this call.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrInvalidInput
	}

	claims, err := s.tokens.Verify(token, TokenTypePasswordReset)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return ErrResetTokenExpired
		}
		return ErrResetTokenInvalid
	}

	profile, err := s.profiles.GetProfileByEmail(ctx, claims.Subject)
	if err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}

	if profile.AuthProvider == model.ProviderGoogle {
		return ErrGoogleOnly
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	// Canonical store first, mirror second, matching the original update
	// order. password_changed_at moves forward with the mirror write.
	if err := s.creds.UpdateCredentialPassword(ctx, profile.UID, string(hash)); err != nil {
		return err
	}
	if err := s.profiles.UpdateProfilePassword(ctx, profile.UID, string(hash)); err != nil {
		return err
	}

	s.metrics.RecordPasswordReset()
	log.Printf("[AuthService] Password reset completed for uid=%s", profile.UID)
	return nil
}

// RequestEmailVerification emails a fresh verification link. Unlike
// ForgotPassword this discloses a missing user, per the API contract.
func (s *AuthService) RequestEmailVerification(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	cred, err := s.creds.GetCredentialByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}

	token, err := s.tokens.CreateEmailVerifyToken(cred.Email)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/confirm-email?token=%s", s.frontendURL, token)
	if err := s.mailer.SendVerificationEmail(cred.Email, link); err != nil {
		s.metrics.RecordEmailSent("verification", false)
		return fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}
	s.metrics.RecordEmailSent("verification", true)
	return nil
}

// ConfirmEmail flips the canonical email_verified flag. The profile mirror
// is left stale on purpose; it catches up through the lazy sync on /me.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token, TokenTypeEmailVerify)
	if err != nil {
		return ErrVerifyTokenInvalid
	}

	cred, err := s.creds.GetCredentialByEmail(ctx, claims.Subject)
	if err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}

	return s.creds.SetEmailVerified(ctx, cred.UID, true)
}

// DeleteAccount removes the user from both stores. Irreversible.
func (s *AuthService) DeleteAccount(ctx context.Context, uid string) error {
	if err := s.creds.DeleteCredential(ctx, uid); err != nil {
		return err
	}
	if err := s.profiles.DeleteProfile(ctx, uid); err != nil {
		return err
	}
	log.Printf("[AuthService] Deleted account uid=%s", uid)
	return nil
}

// DeleteUserByEmail is the dev-only cleanup path.
func (s *AuthService) DeleteUserByEmail(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	cred, err := s.creds.GetCredentialByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}
	return s.DeleteAccount(ctx, cred.UID)
}

func (s *AuthService) issuePair(uid, email string) (*model.TokenResponse, error) {
	accessToken, err := s.tokens.CreateAccessToken(uid, email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.CreateRefreshToken(uid, email)
	if err != nil {
		return nil, err
	}
	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

func (s *AuthService) checkEmailFree(ctx context.Context, email string) error {
	if _, err := s.creds.GetCredentialByEmail(ctx, email); err == nil {
		return ErrEmailExists
	} else if !db.IsNoRows(err) {
		return err
	}
	if _, err := s.profiles.GetProfileByEmail(ctx, email); err == nil {
		return ErrEmailExists
	} else if !db.IsNoRows(err) {
		return err
	}
	return nil
}

func (s *AuthService) sendVerificationEmailAsync(email string) {
	token, err := s.tokens.CreateEmailVerifyToken(email)
	if err != nil {
		log.Printf("[AuthService] Could not create verification token for %s: %v", email, err)
		return
	}
	link := fmt.Sprintf("%s/confirm-email?token=%s", s.frontendURL, token)

	// Fire and forget: a failed send never fails registration.
	go func() {
		if err := s.mailer.SendVerificationEmail(email, link); err != nil {
			log.Printf("[AuthService] Could not send verification email to %s: %v", email, err)
			s.metrics.RecordEmailSent("verification", false)
			return
		}
		s.metrics.RecordEmailSent("verification", true)
	}()
}

// issuedBeforePasswordChange implements session invalidation: a token whose
// iat predates password_changed_at is dead regardless of its expiry.
func issuedBeforePasswordChange(claims *TokenClaims, profile *model.Profile) bool {
	if claims.IssuedAt == nil || profile.PasswordChangedAt.IsZero() {
		return false
	}
	// iat is truncated to whole seconds on the wire; compare at the same
	// precision so a pair written in the same instant stays valid.
	return profile.PasswordChangedAt.Truncate(time.Second).After(claims.IssuedAt.Time)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
