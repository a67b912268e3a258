package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/signalforge/zairix-api/internal/config"
	"github.com/signalforge/zairix-api/internal/handler"
	"github.com/signalforge/zairix-api/internal/repository"
	"github.com/signalforge/zairix-api/internal/service"
	"github.com/signalforge/zairix-api/internal/utils"
	"github.com/signalforge/zairix-api/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())

	sessionManager := utils.NewSessionManager(cfg.Session.Secret, cfg.Session.TTL.Duration)
	revokedSessions := service.NewRevokedSessions(infra.Redis())
	sessions := service.NewSessionService(repos.Session, sessionManager, revokedSessions, cfg.Session.TTL.Duration)

	rateLimiter := service.NewRateLimiter(infra.Redis())
	planGate := service.NewPlanGate(repos.Usage)
	healthChecker := NewHealthChecker(infra)

	mailer := service.NewSMTPMailer(cfg.SMTP)
	insightProvider := service.NewHTTPInsightProvider(cfg.Insights)

	authService := service.NewAuthService(repos.User, sessions, planGate, cfg.Security.BCryptCost)
	magicLinkService := service.NewMagicLinkService(
		repos.User,
		repos.AuthToken,
		sessions,
		mailer,
		cfg.Auth.TokenPepper,
		cfg.Auth.MagicLinkTTL.Duration,
		cfg.Server.BaseURL,
	)
	passwordResetService := service.NewPasswordResetService(
		repos,
		sessions,
		sessionManager,
		mailer,
		cfg.Auth.TokenPepper,
		cfg.Auth.PasswordResetTTL.Duration,
		cfg.Session.TTL.Duration,
		cfg.Security.BCryptCost,
		cfg.Server.BaseURL,
	)
	oauthService := service.NewOAuthService(repos.User, repos.OAuthProvider, sessions, cfg.OAuth)
	signalService := service.NewSignalService(repos.Signal, repos.Usage)
	insightService := service.NewInsightService(repos.Insight, planGate, insightProvider, repos.Usage)
	billingService := service.NewBillingService(repos.User, repos.Subscription)

	cookies := handler.NewCookieWriter(cfg.Env == "production")
	logger := infra.Logger()

	handlers := &handlers{
		auth:          handler.NewAuthHandler(authService, cookies, logger),
		magicLink:     handler.NewMagicLinkHandler(magicLinkService, cookies, logger),
		passwordReset: handler.NewPasswordResetHandler(passwordResetService, cookies, logger),
		oauth:         handler.NewOAuthHandler(oauthService, cookies, logger),
		signal:        handler.NewSignalHandler(signalService, logger),
		insight:       handler.NewInsightHandler(insightService, logger),
		billing:       handler.NewBillingHandler(billingService, cfg.Billing.WebhookSecret, logger),
		admin:         handler.NewAdminHandler(repos.Signal, logger),
		consent:       handler.NewConsentHandler(cookies, logger),
		pages:         handler.NewPageHandler(logger),
	}

	router := gin.New()
	router.Use(otelgin.Middleware("zairix-api"))
	router.Use(handler.LoggerMiddleware(logger))
	router.Use(handler.RecoveryMiddleware(logger))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, handlers, sessions, repos, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}
}

type handlers struct {
	auth          *handler.AuthHandler
	magicLink     *handler.MagicLinkHandler
	passwordReset *handler.PasswordResetHandler
	oauth         *handler.OAuthHandler
	signal        *handler.SignalHandler
	insight       *handler.InsightHandler
	billing       *handler.BillingHandler
	admin         *handler.AdminHandler
	consent       *handler.ConsentHandler
	pages         *handler.PageHandler
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	h *handlers,
	sessions service.SessionService,
	repos *repository.Repositories,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	limit := cfg.Security.RateLimitRequests
	window := cfg.Security.RateLimitWindow.Duration
	byIP := func(action string) gin.HandlerFunc {
		return handler.RateLimitMiddleware(rateLimiter, limit, window, handler.IPBasedKey(action))
	}
	byEmail := func(action string) gin.HandlerFunc {
		return handler.RateLimitMiddleware(rateLimiter, limit, window, handler.EmailBasedKey(action))
	}

	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	// Landing pages the gates redirect to.
	router.GET("/login", h.pages.Login)
	router.GET("/welcome", h.pages.Welcome)
	router.POST("/welcome/accept", h.consent.Accept)
	router.GET("/dashboard",
		handler.SessionMiddleware(sessions, repos.User, false),
		handler.ConsentMiddleware(),
		h.pages.Dashboard,
	)
	router.GET("/admin",
		handler.SessionMiddleware(sessions, repos.User, false),
		handler.AdminMiddleware(false),
		handler.ConsentMiddleware(),
		h.pages.AdminHome,
	)

	// The emailed magic link lands here, outside the versioned API so
	// issued links stay stable.
	router.GET("/api/auth/verify", byIP("verify"), h.magicLink.Verify)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", byIP("register"), h.auth.Register)
			auth.POST("/login", byIP("login"), h.auth.Login)
			auth.POST("/logout", handler.SessionMiddleware(sessions, repos.User, true), h.auth.Logout)
			auth.GET("/me", handler.SessionMiddleware(sessions, repos.User, true), h.auth.GetMe)

			auth.POST("/magic-link", byIP("magic_link"), byEmail("magic_link"), h.magicLink.Request)
			auth.POST("/password-reset", byIP("password_reset"), byEmail("password_reset"), h.passwordReset.Request)
			auth.POST("/password-reset/confirm", byIP("password_reset_confirm"), h.passwordReset.Confirm)
		}

		oauth := api.Group("/oauth")
		{
			oauth.GET("/google/start", h.oauth.Start)
			oauth.GET("/google/callback", h.oauth.Callback)
		}

		api.GET("/consent", h.consent.Status)

		protected := api.Group("", handler.SessionMiddleware(sessions, repos.User, true))
		{
			protected.GET("/signals", h.signal.List)
			protected.POST("/insights", h.insight.Generate)
		}

		api.POST("/billing/webhook", h.billing.Webhook)

		admin := api.Group("/admin",
			handler.SessionMiddleware(sessions, repos.User, true),
			handler.AdminMiddleware(true),
		)
		{
			admin.POST("/signals", h.admin.CreateSignal)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
