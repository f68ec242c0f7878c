package server

import (
	"context"
	"net/http"

	"IndoHomz/internal/config"
	"IndoHomz/internal/db"
	"IndoHomz/internal/handlers"
	"IndoHomz/internal/logger"
	"IndoHomz/internal/repositories"
	"IndoHomz/internal/services"

	"gorm.io/gorm"
)

// New wires repositories, services and handlers on top of gdb and returns
// the root HTTP handler.
func New(cfg *config.Config, gdb *gorm.DB) http.Handler {
	propRepo := repositories.NewPropertyRepository(gdb)
	leadRepo := repositories.NewLeadRepository(gdb)

	var notifier services.Notifier = services.NopNotifier{}
	if cfg.HasSendgrid() {
		notifier = services.NewSendgridNotifier(cfg.SendgridAPIKey, cfg.AppName, cfg.LeadNotifyFrom, cfg.LeadNotifyTo)
	} else {
		logger.Log.Info("SENDGRID_API_KEY not set, lead emails disabled")
	}
	if !cfg.HasOpenAI() {
		logger.Log.Info("OPENAI_API_KEY not set, reports use templates")
	}

	props := services.NewPropertyService(propRepo, services.Paging{Default: cfg.DefaultPageSize, Max: cfg.MaxPageSize})
	leads := services.NewLeadService(leadRepo, propRepo, notifier)

	h := &handlers.Handler{
		Cfg:       cfg,
		Props:     props,
		Leads:     leads,
		Analytics: services.NewAnalyticsService(props, leads),
		Auth: services.NewAuthService(repositories.NewAdminRepository(gdb),
			cfg.SecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Reports: services.NewReportService(props, leads,
			services.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIModel)),
		Ping: func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	}
	return NewRouter(h, services.NewRateLimiter())
}
