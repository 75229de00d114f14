package main

import (
	"context"
	"log"
	"net"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sehatguru/backend/internal/client"
	"github.com/sehatguru/backend/internal/config"
	"github.com/sehatguru/backend/internal/db"
	"github.com/sehatguru/backend/internal/handler"
	"github.com/sehatguru/backend/internal/metrics"
	"github.com/sehatguru/backend/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[Main] No .env file loaded: %v", err)
	}

	cfg := config.Load()
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	pg, err := db.NewPostgres(ctx)
	if err != nil {
		log.Fatalf("[Main] Postgres init failed: %v", err)
	}
	defer pg.Close()

	if err := pg.EnsureAuthSchema(ctx); err != nil {
		log.Fatalf("[Main] Schema init failed: %v", err)
	}

	tokens, err := service.NewTokenService(cfg.Auth)
	if err != nil {
		log.Fatalf("[Main] Token service init failed: %v", err)
	}

	var googleClient *client.GoogleClient
	if cfg.Google.ClientID != "" {
		googleClient, err = client.NewGoogleClient(ctx, cfg.Google)
		if err != nil {
			log.Fatalf("[Main] Google client init failed: %v", err)
		}
	} else {
		log.Printf("[Main] GOOGLE_CLIENT_ID not set, google sign-in disabled")
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	blacklist := service.NewBlacklist()
	deps := service.AuthDeps{
		Credentials: pg,
		Profiles:    pg,
		Tokens:      tokens,
		Blacklist:   blacklist,
		Mailer:      service.NewSMTPMailer(cfg.SMTP),
		Metrics:     collector,
		FrontendURL: cfg.Server.FrontendURL,
	}
	if googleClient != nil {
		deps.Google = googleClient
	}
	authSvc := service.NewAuthService(deps)

	authHandler := handler.NewAuthHandler(authSvc)
	devHandler := handler.NewDevHandler(authSvc, googleClient)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(handler.CORSMiddleware(cfg.Server.AllowedOrigins, true))
	router.Use(metrics.Middleware(collector))

	router.GET("/", handler.Root)
	router.GET("/ping", handler.Ping)
	router.GET("/openapi.json", handler.OpenAPIDoc)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/auth")
	api.GET("/health", handler.AuthHealth)
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/google", authHandler.GoogleAuth)
	api.POST("/forgot-password", authHandler.ForgotPassword)
	api.POST("/reset-password", authHandler.ResetPassword)
	api.POST("/verify-email", authHandler.RequestEmailVerification)
	api.GET("/confirm-email", authHandler.ConfirmEmail)
	api.POST("/refresh",
		handler.AuthMiddleware(tokens, blacklist, service.TokenTypeRefresh),
		authHandler.Refresh)
	api.POST("/logout",
		handler.BearerTokenMiddleware(tokens, service.TokenTypeAccess),
		authHandler.Logout)

	protected := api.Group("")
	protected.Use(handler.AuthMiddleware(tokens, blacklist, service.TokenTypeAccess))
	protected.GET("/me", authHandler.Me)
	protected.DELETE("/delete-account", authHandler.DeleteAccount)

	if !cfg.Server.IsProduction() {
		api.DELETE("/admin/delete-user-by-email/:email", authHandler.AdminDeleteUserByEmail)
		api.GET("/test-google-auth", devHandler.SignInPage)
		api.GET("/google/callback", devHandler.Callback)
	}

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	log.Printf("[Main] Starting SehatGuru API on %s (env=%s)", addr, cfg.Server.Environment)
	if err := router.Run(addr); err != nil {
		log.Fatalf("[Main] Server exited: %v", err)
	}
}
