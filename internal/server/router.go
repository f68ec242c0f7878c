// Package server assembles the chi router for the site, the admin panel and
// the JSON API.
package server

import (
	"io/fs"
	"net/http"
	"time"

	"IndoHomz/internal/handlers"
	mw "IndoHomz/internal/middleware"
	"IndoHomz/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// NewRouter wires every route. limiter backs the lead and login throttles.
func NewRouter(h *handlers.Handler, limiter mw.Limiter) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(mw.RealIP(h.Cfg.TrustedProxies))
	r.Use(mw.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.RedirectSlashes)

	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.Cfg.UploadDir))))
	r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(h.Cfg.ImageDir))))

	leadLimit := mw.RateLimit(limiter, "lead", h.Cfg.LeadLimitPerHour, time.Hour)
	loginLimit := mw.RateLimit(limiter, "login", h.Cfg.LoginLimitPer15Min, 15*time.Minute)

	// ---------- public HTML ----------
	r.Get("/", h.Index)
	r.Get("/properties", h.Properties)
	r.Get("/properties/{slug}", h.PropertyDetail)
	r.With(leadLimit).Post("/properties/{slug}/enquire", h.Enquire)
	r.Get("/health", h.Health)

	// ---------- admin login ----------
	r.Get("/admin/login", h.ShowLoginPage)
	r.With(loginLimit).Post("/admin/login", h.HandleLogin)
	r.Post("/admin/logout", mw.AdminOnly(h.HandleLogout))

	// ---------- admin panel (session) ----------
	r.Group(func(g chi.Router) {
		g.Use(mw.AdminOnlyMW)

		g.Get("/admin", h.AdminDashboard)
		g.Get("/admin/properties", h.AdminProperties)
		g.Get("/admin/properties/new", h.AdminNewProperty)
		g.Post("/admin/properties/new", h.AdminCreateProperty)
		g.Get("/admin/properties/{id}/edit", h.AdminEditProperty)
		g.Post("/admin/properties/{id}/edit", h.AdminUpdateProperty)
		g.Post("/admin/properties/{id}/delete", h.AdminDeleteProperty)
		g.Post("/admin/properties/{id}/availability", h.AdminToggleAvailability)
		g.Get("/admin/leads", h.AdminLeads)
		g.Post("/admin/leads/{id}/status", h.AdminLeadStatus)
	})

	// ---------- JSON API ----------
	co := cors.New(cors.Options{
		AllowedOrigins:   h.Cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	requireAdmin := mw.RequireAdmin(func(token string) (int, error) {
		claims, err := h.Auth.ParseAccess(token)
		if err != nil {
			return 0, err
		}
		return claims.AdminID()
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(co.Handler)

		api.Get("/", h.APIInfo)
		api.Get("/health", h.Health)

		api.Route("/properties", func(p chi.Router) {
			p.Get("/", h.ListProperties)
			p.Get("/featured", h.FeaturedProperties)
			p.Get("/available", h.AvailableProperties)
			p.Get("/types", h.PropertyTypes)
			p.Post("/search", h.SearchProperties)
			p.Get("/slug/{slug}", h.GetPropertyBySlug)
			p.Get("/{id}", h.GetProperty)

			p.Group(func(a chi.Router) {
				a.Use(requireAdmin)
				a.Get("/stats/overview", h.PropertyStats)
				a.Post("/", h.CreateProperty)
				a.Put("/{id}", h.UpdateProperty)
				a.Patch("/{id}/availability", h.SetPropertyAvailability)
				a.Delete("/{id}", h.DeleteProperty)
			})
		})

		api.Route("/leads", func(l chi.Router) {
			l.With(leadLimit).Post("/", h.CreateLead)
			l.With(leadLimit).Post("/inquiry", h.SubmitInquiry)

			l.Group(func(a chi.Router) {
				a.Use(requireAdmin)
				a.Get("/", h.ListLeads)
				a.Get("/export", h.ExportLeads)
				a.Get("/stats/overview", h.LeadStats)
				a.Get("/stats/funnel", h.LeadFunnel)
				a.Get("/property/{id}", h.LeadsByProperty)
				a.Get("/{id}", h.GetLead)
				a.Put("/{id}", h.UpdateLead)
				a.Patch("/{id}/status", h.UpdateLeadStatus)
			})
		})

		api.Route("/auth", func(a chi.Router) {
			a.With(loginLimit).Post("/login", h.Login)
			a.Post("/refresh", h.Refresh)
			a.With(requireAdmin).Get("/me", h.Me)
		})

		api.Group(func(a chi.Router) {
			a.Use(requireAdmin)

			a.Get("/analytics/dashboard", h.Dashboard)
			a.Get("/analytics/properties/overview", h.PropertyStats)
			a.Get("/analytics/leads/overview", h.LeadStats)
			a.Get("/analytics/price-distribution", h.PriceDistribution)
			a.Get("/analytics/availability-trend", h.AvailabilityTrend)
			a.Get("/analytics/conversion-funnel", h.ConversionFunnel)
			a.Get("/analytics/source-performance", h.SourcePerformance)

			a.Get("/reports/types", h.ReportTypes)
			a.Post("/reports/generate", h.GenerateReport)
			a.Post("/reports/ask", h.AskQuestion)
		})
	})

	return r
}
