package handlers

import (
	"net/http"
	"time"

	"IndoHomz/internal/models"
	"IndoHomz/internal/services"
	"IndoHomz/internal/utils"
)

// Dashboard: GET /api/v1/analytics/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Analytics.Dashboard(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, d)
}

// PriceDistribution: GET /api/v1/analytics/price-distribution
func (h *Handler) PriceDistribution(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.Analytics.PriceDistribution(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"distribution": buckets})
}

// AvailabilityTrend: GET /api/v1/analytics/availability-trend?days=
func (h *Handler) AvailabilityTrend(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", services.DefaultTrendDays, services.MinTrendDays, services.MaxTrendDays)
	if err != nil {
		badQuery(w, err)
		return
	}
	t, err := h.Analytics.AvailabilityTrend(r.Context(), days)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, t)
}

// ConversionFunnel: GET /api/v1/analytics/conversion-funnel
func (h *Handler) ConversionFunnel(w http.ResponseWriter, r *http.Request) {
	f, err := h.Leads.Funnel(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"funnel":                  f.Funnel,
		"total_leads":             f.TotalLeads,
		"overall_conversion_rate": f.ConversionRate,
	})
}

// SourcePerformance: GET /api/v1/analytics/source-performance
func (h *Handler) SourcePerformance(w http.ResponseWriter, r *http.Request) {
	sources, total, err := h.Leads.SourcePerformance(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"sources":     sources,
		"total_leads": total,
	})
}

// ReportTypes: GET /api/v1/reports/types
func (h *Handler) ReportTypes(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"report_types": h.Reports.Types()})
}

// GenerateReport: POST /api/v1/reports/generate
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	var req models.ReportRequest
	if !decode(w, r, &req) {
		return
	}
	if !models.IsReportType(req.ReportType) {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Unknown report type", map[string]any{"allowed": h.Reports.Types()})
		return
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation,
			"end_date must not be before start_date", nil)
		return
	}
	rep, err := h.Reports.Generate(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rep)
}

// AskQuestion: POST /api/v1/reports/ask. The question may come as a JSON
// body or as ?question=.
func (h *Handler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	req := models.AskRequest{Question: r.URL.Query().Get("question")}
	if req.Question == "" {
		if !decode(w, r, &req) {
			return
		}
	} else if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed",
			validationDetails(err), err)
		return
	}
	ans, err := h.Reports.Ask(r.Context(), req.Question)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ans)
}

// APIInfo: GET /api/v1
func (h *Handler) APIInfo(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"name":    h.Cfg.AppName + " API",
		"version": h.Cfg.AppVersion,
		"status":  "running",
		"health":  "/api/v1/health",
	})
}

// Health: GET /health and /api/v1/health. Always 200; a failing database
// turns the status to "degraded".
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status, database := "healthy", "connected"
	if h.Ping != nil {
		if err := h.Ping(r.Context()); err != nil {
			status, database = "degraded", "disconnected"
		}
	}
	ai := "disabled"
	if h.Cfg.HasOpenAI() {
		ai = "enabled"
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"status":    status,
		"version":   h.Cfg.AppVersion,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services": map[string]string{
			"api":      "running",
			"database": database,
			"ai":       ai,
		},
	})
}
