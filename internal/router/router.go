package router

import (
	"courtside/config"
	"courtside/internal/cache"
	"courtside/internal/domain"
	"courtside/internal/handler"
	"courtside/internal/metrics"
	"courtside/internal/middleware"
	"courtside/internal/repository"
	"courtside/internal/service"
	"courtside/pkg/gateway"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Setup wires repositories, services, and handlers onto a gin engine. The
// booking service is returned as well so main can hand it to the sweep
// scheduler.
func Setup(cfg *config.Config, db *gorm.DB, rdb *redis.Client, logger zerolog.Logger) (*gin.Engine, *service.BookingService) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.NewRateLimiter(cfg.RateLimit, logger).Middleware())

	// Repositories
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	refundRepo := repository.NewRefundRepository(db)
	eventRepo := repository.NewWebhookEventRepository(db)
	courtRepo := repository.NewCourtRepository(db)
	facilityRepo := repository.NewFacilityRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)

	availCache := cache.New(rdb, cfg.Redis.AvailabilityTTL)
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	// The stub provider serves development until gateway credentials exist.
	var provider gateway.Provider
	if cfg.Gateway.KeyID != "" {
		provider = gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.KeyID, cfg.Gateway.KeySecret)
	} else {
		logger.Warn().Msg("no gateway credentials configured, using stub provider")
		provider = gateway.NewStubProvider()
	}

	// Services
	notifSvc := service.NewNotificationService(notificationRepo, logger)
	refundSvc := service.NewRefundService(refundRepo, paymentRepo, provider, notifSvc, m, logger)
	bookingSvc := service.NewBookingService(bookingRepo, paymentRepo, courtRepo, refundSvc, provider, notifSvc, availCache, m, cfg.Booking, cfg.Gateway, logger)
	availSvc := service.NewAvailabilityService(courtRepo, bookingRepo, availCache, cfg.Booking.SlotMinutes, logger)
	venueSvc := service.NewVenueService(facilityRepo, courtRepo, availCache, logger)
	reconciler := service.NewReconciler(eventRepo, paymentRepo, refundRepo, bookingSvc, m, logger)

	// Handlers
	availabilityHandler := handler.NewAvailabilityHandler(availSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	refundHandler := handler.NewRefundHandler(refundSvc, paymentRepo, bookingSvc)
	webhookHandler := handler.NewWebhookHandler(reconciler, cfg.Gateway.WebhookSecret, logger)
	venueHandler := handler.NewVenueHandler(venueSvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	adminHandler := handler.NewAdminHandler(eventRepo)
	meHandler := handler.NewMeHandler(userRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := r.Group("/api/v1")
	{
		api.GET("/venues", venueHandler.List)
		api.GET("/venues/popular", venueHandler.Popular)
		api.GET("/venues/:id/courts", venueHandler.Courts)
		api.GET("/courts/:id/availability", availabilityHandler.Slots)

		api.POST("/bookings", authMw, bookingHandler.Create)
		api.GET("/bookings/:id", authMw, bookingHandler.Get)
		api.POST("/bookings/:id/cancel", authMw, bookingHandler.Cancel)
		api.GET("/me/profile", authMw, meHandler.Profile)
		api.GET("/me/bookings", authMw, bookingHandler.ListMine)
		api.GET("/me/notifications", authMw, notificationHandler.List)
		api.PUT("/me/notifications/:id/read", authMw, notificationHandler.MarkRead)

		api.GET("/payments/:id/refunds", authMw, refundHandler.List)
		api.POST("/payments/:id/refunds", authMw, refundHandler.Create)

		owner := api.Group("/owner")
		owner.Use(authMw, middleware.RequireRole(domain.RoleOwner, domain.RoleAdmin))
		{
			owner.POST("/slots/block", venueHandler.BlockSlot)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.RequireRole(domain.RoleAdmin))
		{
			admin.POST("/facilities/:id/approve", venueHandler.SetApproval(true))
			admin.POST("/facilities/:id/reject", venueHandler.SetApproval(false))
			admin.GET("/webhook-events/flagged", adminHandler.FlaggedEvents)
		}

		// Authenticated by signature, not by bearer token. With no shared
		// secret anyone could forge a valid signature, so the route only
		// exists once the secret is configured.
		if cfg.Gateway.WebhookSecret != "" {
			api.POST("/webhooks/gateway", webhookHandler.Handle)
		} else {
			logger.Error().Msg("GATEWAY_WEBHOOK_SECRET is not set, gateway webhook endpoint disabled")
		}
	}

	return r, bookingSvc
}
