package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sehatguru/backend/internal/client"
	"github.com/sehatguru/backend/internal/service"
	"github.com/sehatguru/backend/internal/template"
)

// DevHandler serves the local Google sign-in test page and its callback.
// Registered only outside production.
type DevHandler struct {
	svc    *service.AuthService
	google *client.GoogleClient
}

func NewDevHandler(svc *service.AuthService, google *client.GoogleClient) *DevHandler {
	return &DevHandler{svc: svc, google: google}
}

// SignInPage renders an HTML page that obtains a Google ID token in the
// browser so it can be tested against POST /api/auth/google.
func (h *DevHandler) SignInPage(c *gin.Context) {
	if h.google == nil {
		c.String(http.StatusServiceUnavailable, "google sign-in is not configured")
		return
	}

	page := template.RenderSignInPage(template.SignInPageData{
		ClientID:    h.google.ClientID(),
		RedirectURI: h.google.RedirectURL(),
	})
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// Callback completes the server-side code exchange and signs the user in.
func (h *DevHandler) Callback(c *gin.Context) {
	if h.google == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "google sign-in is not configured"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	idToken, err := h.google.ExchangeIDToken(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "google authentication failed"})
		return
	}

	tokens, err := h.svc.GoogleAuth(c.Request.Context(), idToken)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}
