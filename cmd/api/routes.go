package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"screening-backend/internal/auth"
	"screening-backend/internal/booking"
	"screening-backend/internal/calls"
	"screening-backend/internal/config"
	"screening-backend/internal/crm"
	"screening-backend/internal/httpapi"
	"screening-backend/internal/notify"
	"screening-backend/internal/rbac"
	"screening-backend/internal/telephony"
	"screening-backend/pkg/logger"
	"screening-backend/pkg/metrics"
	"screening-backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	webhookDedupTTL = 24 * time.Hour
	bookingGuardTTL = 30 * time.Second
)

// deps are the process-scoped clients built once in main.
type deps struct {
	db       *sql.DB
	rdb      *redis.Client // nil when Redis is disabled
	verifier *auth.Verifier
}

// newRouter wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal modules.
func newRouter(cfg config.Config, log *slog.Logger, d deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(logger.Middleware(log))
	r.Use(metrics.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), d.db, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	buildHandlers(cfg, d).Register(r, recruiterMiddleware(d.verifier)...)
	return r
}

func buildHandlers(cfg config.Config, d deps) httpapi.Handlers {
	sender := notify.NewTwilioSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromPhone)
	notifier := notify.NewNotifier(sender, cfg.Calendar.FrontendURL)

	var (
		dedup calls.Deduper
		guard booking.Guard
	)
	if d.rdb != nil {
		dedup = calls.NewRedisDeduper(d.rdb, webhookDedupTTL)
		guard = booking.NewRedisGuard(d.rdb, bookingGuardTTL)
	}

	h := httpapi.Handlers{
		SMS:             notifier,
		Booking:         booking.NewService(booking.NewSQLRepository(d.db), notifier, guard),
		Ingestor:        calls.NewIngestor(calls.NewSQLRepository(d.db), dedup),
		DefaultPhone:    cfg.Bland.DefaultPhone,
		OutboundTimeout: cfg.HTTP.OutboundTimeout,
	}
	if cfg.Bland.APIKey != "" {
		h.Pathway = telephony.NewBlandClient(telephony.BlandConfig{
			APIKey:     cfg.Bland.APIKey,
			PathwayID:  cfg.Bland.PathwayID,
			FromPhone:  cfg.Bland.FromPhone,
			WebhookURL: cfg.WebhookURL(),
			Timeout:    cfg.HTTP.OutboundTimeout,
		})
	}
	if cfg.ElevenLabs.APIKey != "" {
		h.Agent = telephony.NewElevenLabsClient(telephony.ElevenLabsConfig{
			APIKey:        cfg.ElevenLabs.APIKey,
			AgentID:       cfg.ElevenLabs.AgentID,
			PhoneNumberID: cfg.ElevenLabs.PhoneNumberID,
			Timeout:       cfg.HTTP.OutboundTimeout,
		})
	}
	if cfg.HubSpot.Token != "" {
		h.Contacts = crm.NewHubSpotClient(cfg.HubSpot.Token, "", cfg.HTTP.OutboundTimeout)
	}
	return h
}

// recruiterMiddleware guards dashboard routes when token verification is configured.
func recruiterMiddleware(v *auth.Verifier) []gin.HandlerFunc {
	if v == nil {
		return nil
	}
	return []gin.HandlerFunc{
		auth.RequireAccessToken(v),
		rbac.RequireAnyRole(rbac.RoleAuthenticated),
	}
}
