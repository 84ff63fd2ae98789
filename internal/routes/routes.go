// Package routes builds the handler graph and registers every route the app
// serves. The route table is the single source of truth for the site map.
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/domain"
	"github.com/servomart/servomart/internal/app/domain/alerts"
	"github.com/servomart/servomart/internal/app/domain/artifacts"
	"github.com/servomart/servomart/internal/app/domain/auth"
	"github.com/servomart/servomart/internal/app/domain/keys"
	"github.com/servomart/servomart/internal/app/domain/listings"
	"github.com/servomart/servomart/internal/app/domain/moderation"
	"github.com/servomart/servomart/internal/app/domain/orders"
	"github.com/servomart/servomart/internal/app/domain/profiles"
	"github.com/servomart/servomart/internal/app/domain/seller"
	"github.com/servomart/servomart/internal/app/domain/terminal"
	"github.com/servomart/servomart/internal/app/middleware"
	"github.com/servomart/servomart/internal/app/renderer"
	"github.com/servomart/servomart/internal/pkg/cache"
	"github.com/servomart/servomart/internal/pkg/config"
	"github.com/servomart/servomart/internal/pkg/payments"
)

type AppHandlers struct {
	Static    *domain.BaseHandler
	Auth      *auth.AuthHandlers
	Alerts    *alerts.AlertsHandlers
	Listings  *listings.ListingHandlers
	Artifacts *artifacts.ArtifactHandlers
	Orders    *orders.OrderHandlers
	Seller    *seller.SellerHandlers
	Keys      *keys.KeyHandlers
	Profiles  *profiles.ProfileHandlers
	Terminal  *terminal.TerminalHandlers

	jwtConfig auth.JWTConfig
	keys      keys.Service
}

// Setup wires dependencies and registers all routes on the engine.
func Setup(r *gin.Engine, dbPool *pgxpool.Pool, logger *zap.Logger) {
	ginHTMLRenderer := r.HTMLRender
	r.HTMLRender = &renderer.HTMLTemplRenderer{FallbackHTMLRenderer: ginHTMLRenderer}

	handlers, err := setupDependencies(dbPool, logger)
	if err != nil {
		logger.Fatal("Failed to setup dependencies", zap.Error(err))
	}
	setupRouter(r, handlers, logger)
}

func setupDependencies(dbPool *pgxpool.Pool, logger *zap.Logger) (*AppHandlers, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	alertQueue := alerts.NewQueue(logger)
	base := domain.NewBaseHandler(logger, alertQueue)
	screener := moderation.NewScreener()
	provider := payments.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.Site.BaseURL)

	authRepo := auth.NewPostgresAuthRepo(dbPool, logger)
	authService := auth.NewAuthService(authRepo, cfg, logger)

	listingRepo := listings.NewRepository(dbPool, logger)
	listingService := listings.NewService(listingRepo, screener, logger)
	featured := cache.NewFeaturedCache(listingRepo, logger)

	artifactRepo := artifacts.NewRepository(dbPool, logger)
	orderRepo := orders.NewRepository(dbPool, logger)
	sellerRepo := seller.NewRepository(dbPool, logger)
	keyService := keys.NewService(keys.NewRepository(dbPool, logger), logger)

	return &AppHandlers{
		Static:    base,
		Auth:      auth.NewAuthHandlers(authService, alertQueue, logger),
		Alerts:    alerts.NewAlertsHandlers(alertQueue, logger),
		Listings:  listings.NewListingHandlers(base, listingService, featured, artifactRepo),
		Artifacts: artifacts.NewArtifactHandlers(base, artifactRepo, listingRepo),
		Orders:    orders.NewOrderHandlers(base, orderRepo, listingRepo, provider),
		Seller:    seller.NewSellerHandlers(base, sellerRepo, provider),
		Keys:      keys.NewKeyHandlers(base, keyService),
		Profiles:  profiles.NewProfileHandlers(base, authService, listingRepo),
		Terminal:  terminal.NewTerminalHandlers(base, orderRepo),
		jwtConfig: auth.JWTConfig{
			SecretKey:       cfg.JWT.SecretKey,
			TokenExpiration: cfg.JWT.TokenTTL,
			Logger:          logger,
		},
		keys: keyService,
	}, nil
}

func setupRouter(r *gin.Engine, h *AppHandlers, log *zap.Logger) {
	public := r.Group("/")
	public.Use(middleware.OptionalAuthMiddleware(h.jwtConfig))
	{
		public.GET("/", h.Listings.HomeHandler)
		public.GET("/playground", h.Static.ShowPlaygroundPage)
		public.GET("/about", h.Static.ShowAboutPage)
		public.GET("/downloads", h.Artifacts.DownloadsPageHandler)
		public.GET("/research", h.Static.ShowResearchPage)
		public.GET("/browse", h.Listings.BrowseHandler)
		public.GET("/browse/:page", h.Listings.BrowseHandler)
		public.GET("/file/:artifactId", h.Artifacts.FilePageHandler)
		public.GET("/item/:username/:slug", h.Listings.ItemHandler)
		public.GET("/profile", h.Profiles.ProfileHandler)
		public.GET("/profile/:id", h.Profiles.ProfileHandler)
		public.GET("/tos", h.Static.ShowTOSPage)
		public.GET("/privacy", h.Static.ShowPrivacyPage)
		public.GET("/success", h.Orders.SuccessPageHandler)
		public.GET("/404", h.Static.RenderNotFound)

		public.GET("/login", h.Static.ShowLoginPage)
		public.POST("/login", h.Auth.LoginHandler)
		public.GET("/logout", h.Auth.LogoutHandler)
		public.GET("/signup/", h.Static.ShowSignupPage)
		public.POST("/signup/", h.Auth.RegisterHandler)
		public.GET("/signup/:id", h.Static.ShowSignupPage)
		public.POST("/signup/:id", h.Auth.RegisterHandler)

		public.POST("/alerts/:id/dismiss", h.Alerts.DismissAlertForm)
	}

	private := r.Group("/")
	private.Use(middleware.AuthMiddleware(h.jwtConfig))
	{
		private.GET("/account", h.Profiles.AccountPageHandler)
		private.POST("/account/password", h.Auth.ChangePasswordHandler)
		private.GET("/create", h.Listings.CreatePageHandler)
		private.POST("/create", h.Listings.CreateHandler)
		private.GET("/keys", h.Keys.KeysPageHandler)
		private.GET("/orders", h.Orders.OrdersPageHandler)
		private.GET("/sell/onboarding", h.Seller.OnboardingPageHandler)
		private.GET("/sell/dashboard", h.Seller.DashboardPageHandler)
		private.GET("/delete-connect", h.Seller.DeleteConnectPageHandler)
		private.GET("/terminal", h.Terminal.ListHandler)
		private.GET("/terminal/:id", h.Terminal.SessionHandler)
	}

	api := r.Group("/api")
	api.Use(middleware.OptionalAuthMiddleware(h.jwtConfig))
	{
		api.GET("/alerts", h.Alerts.ListAlerts)
		api.DELETE("/alerts/:id", h.Alerts.DismissAlert)
		api.GET("/listings/featured", h.Listings.FeaturedAPIHandler)
		// Stripe calls this; signature verification is the auth.
		api.POST("/stripe/webhook", h.Orders.WebhookHandler)
	}

	apiPrivate := r.Group("/api")
	apiPrivate.Use(middleware.AuthMiddleware(h.jwtConfig))
	{
		apiPrivate.POST("/stripe/checkout/:listingID", h.Orders.CheckoutHandler)
		apiPrivate.PUT("/stripe/refunds/:orderID", h.Orders.RefundHandler)
		apiPrivate.POST("/stripe/refunds/:orderID", h.Orders.RefundHandler)
		apiPrivate.POST("/seller/onboarding", h.Seller.StartOnboardingHandler)
		apiPrivate.POST("/seller/dashboard-login", h.Seller.DashboardLoginHandler)
		apiPrivate.POST("/seller/delete-connect", h.Seller.DeleteConnectHandler)
		apiPrivate.POST("/keys", h.Keys.CreateKeyHandler)
		apiPrivate.POST("/keys/:id/revoke", h.Keys.RevokeKeyHandler)
	}

	// Downloads accept an API key as well as a browser session.
	r.GET("/api/artifacts/:id/download",
		keys.APIKeyMiddleware(h.keys),
		middleware.AuthMiddleware(h.jwtConfig),
		h.Artifacts.DownloadHandler,
	)

	wsRateLimiter := terminal.NewRateLimiter(log, 10, 1*time.Minute)
	r.GET("/ws/terminal/:id",
		middleware.AuthMiddleware(h.jwtConfig),
		terminal.RateLimitMiddleware(wsRateLimiter),
		h.Terminal.WSHandler,
	)

	// Everything unmatched bounces to the canonical not-found page.
	r.NoRoute(func(c *gin.Context) {
		log.Info("404 - Page not found",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.String("ip", c.ClientIP()),
		)
		c.Redirect(http.StatusFound, "/404")
	})
}
