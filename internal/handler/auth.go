package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sehatguru/backend/internal/model"
	"github.com/sehatguru/backend/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register godoc
// @Summary Register a new user
// @Description Creates the account and sends a verification email.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Full name, email and password"
// @Success 201 {object} model.UserResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 422 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Email and password"
// @Success 200 {object} model.TokenResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request"})
		return
	}

	tokens, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// GoogleAuth godoc
// @Summary Authenticate with a Google ID token
// @Description Creates the user on first sign-in.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.GoogleAuthRequest true "Google ID token"
// @Success 200 {object} model.TokenResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/auth/google [post]
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	var req model.GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request"})
		return
	}

	tokens, err := h.svc.GoogleAuth(c.Request.Context(), req.IDToken)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Refresh godoc
// @Summary Refresh the access token
// @Description Requires a refresh token as bearer credential. The refresh token is not rotated.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.TokenResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	claims := GetAuthClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	tokens, err := h.svc.Refresh(c.Request.Context(), claims)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Me godoc
// @Summary Get the current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := GetAuthClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.svc.CurrentUser(c.Request.Context(), claims)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Logout godoc
// @Summary Logout
// @Description Revokes the presented access token. Idempotent; repeating a logout succeeds.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.MessageResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.svc.Logout(GetAuthToken(c), GetAuthClaims(c))
	c.JSON(http.StatusOK, model.MessageResponse{
		Message: "Logged out successfully. Token has been revoked.",
		Success: true,
	})
}

// ForgotPassword godoc
// @Summary Request a password reset email
// @Description Responds with the same message whether or not the email exists.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.PasswordResetRequest true "Account email"
// @Success 200 {object} model.MessageResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req model.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request"})
		return
	}

	if err := h.svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.MessageResponse{
		Message: "If the email exists, a password reset link has been sent.",
		Success: true,
	})
}

// ResetPassword godoc
// @Summary Reset the password with a reset token
// @Description Invalidates every session issued before the reset.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.PasswordResetConfirm true "Reset token and new password"
// @Success 200 {object} model.MessageResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 422 {object} model.ErrorResponse
// @Router /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req model.PasswordResetConfirm
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request"})
		return
	}

	if err := h.svc.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.MessageResponse{
		Message: "Password has been reset successfully.",
		Success: true,
	})
}

// RequestEmailVerification godoc
// @Summary Send a new email verification link
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.EmailVerificationRequest true "Account email"
// @Success 200 {object} model.MessageResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 502 {object} model.ErrorResponse
// @Router /api/auth/verify-email [post]
func (h *AuthHandler) RequestEmailVerification(c *gin.Context) {
	var req model.EmailVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request"})
		return
	}

	if err := h.svc.RequestEmailVerification(c.Request.Context(), req.Email); err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.MessageResponse{
		Message: "Verification email has been sent.",
		Success: true,
	})
}

// ConfirmEmail godoc
// @Summary Confirm an email address
// @Description Redeems the verification link sent by email.
// @Tags auth
// @Produce json
// @Param token query string true "Verification token"
// @Success 200 {object} model.MessageResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /api/auth/confirm-email [get]
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	if err := h.svc.ConfirmEmail(c.Request.Context(), token); err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.MessageResponse{
		Message: "Email has been verified.",
		Success: true,
	})
}

// DeleteAccount godoc
// @Summary Delete the current account
// @Description Irreversible. Removes the user from both stores.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.MessageResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/auth/delete-account [delete]
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	claims := GetAuthClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.svc.DeleteAccount(c.Request.Context(), claims.Subject); err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.MessageResponse{
		Message: "Account has been deleted successfully.",
		Success: true,
	})
}

// AdminDeleteUserByEmail godoc
// @Summary Delete a user by email (dev only)
// @Tags auth
// @Produce json
// @Param email path string true "Account email"
// @Success 200 {object} model.MessageResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/auth/admin/delete-user-by-email/{email} [delete]
func (h *AuthHandler) AdminDeleteUserByEmail(c *gin.Context) {
	email := c.Param("email")
	if err := h.svc.DeleteUserByEmail(c.Request.Context(), email); err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.MessageResponse{
		Message: "User " + email + " deleted from both stores",
		Success: true,
	})
}

func writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid input"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
	case errors.Is(err, service.ErrInvalidGoogleToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "google authentication failed"})
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrTokenRevoked),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrInvalidSignature),
		errors.Is(err, service.ErrTokenMalformed),
		errors.Is(err, service.ErrWrongTokenType):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, service.ErrGoogleOnly):
		c.JSON(http.StatusBadRequest, gin.H{"error": "this account uses google sign-in"})
	case errors.Is(err, service.ErrResetTokenExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "reset token expired"})
	case errors.Is(err, service.ErrResetTokenInvalid), errors.Is(err, service.ErrVerifyTokenInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token"})
	case errors.Is(err, service.ErrEmailExists):
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, service.ErrEmailDelivery):
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not send email"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}
