package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sehatguru/backend/internal/config"
)

// Token types carried in the token_type claim.
const (
	TokenTypeAccess        = "access"
	TokenTypeRefresh       = "refresh"
	TokenTypePasswordReset = "password_reset"
	TokenTypeEmailVerify   = "email_verify"
)

var (
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenMalformed   = errors.New("malformed token")
	ErrWrongTokenType   = errors.New("wrong token type")
	ErrMisconfigured    = errors.New("auth config invalid")
)

type TokenClaims struct {
	Email     string `json:"email,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the signed HS256 tokens used for API
// access, refresh, password reset and email verification. The signing key is
// loaded once at startup.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
	verifyTTL  time.Duration
}

func NewTokenService(cfg config.AuthConfig) (*TokenService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET_KEY is required", ErrMisconfigured)
	}

	return &TokenService{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessDuration(),
		refreshTTL: cfg.RefreshDuration(),
		resetTTL:   cfg.ResetDuration(),
		verifyTTL:  cfg.VerifyDuration(),
	}, nil
}

func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

func (s *TokenService) CreateAccessToken(uid, email string) (string, error) {
	return s.issue(uid, email, TokenTypeAccess, s.accessTTL)
}

func (s *TokenService) CreateRefreshToken(uid, email string) (string, error) {
	return s.issue(uid, email, TokenTypeRefresh, s.refreshTTL)
}

// CreatePasswordResetToken carries the email as subject; the reset flow has
// no user id until the token is redeemed.
func (s *TokenService) CreatePasswordResetToken(email string) (string, error) {
	return s.issue(email, "", TokenTypePasswordReset, s.resetTTL)
}

func (s *TokenService) CreateEmailVerifyToken(email string) (string, error) {
	return s.issue(email, "", TokenTypeEmailVerify, s.verifyTTL)
}

func (s *TokenService) issue(subject, email, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature, expiry and token type, and returns the claims.
func (s *TokenService) Verify(tokenStr, wantType string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, ErrInvalidSignature
		}
	}
	if !token.Valid {
		return nil, ErrInvalidSignature
	}
	if claims.Subject == "" {
		return nil, ErrTokenMalformed
	}
	if claims.TokenType != wantType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
