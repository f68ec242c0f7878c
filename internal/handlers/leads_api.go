package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"IndoHomz/internal/models"
	"IndoHomz/internal/repositories"
	"IndoHomz/internal/utils"
)

const inquiryThanks = "Thank you! We'll contact you shortly."

// CreateLead: POST /api/v1/leads (rate limited)
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req models.LeadRequest
	if !decode(w, r, &req) {
		return
	}
	lead, err := h.Leads.Create(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, lead)
}

// SubmitInquiry: POST /api/v1/leads/inquiry (rate limited). Accepts a JSON
// body or plain form/query fields, and answers with a short confirmation.
func (h *Handler) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	var req models.LeadRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if !decode(w, r, &req) {
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid form", nil, err)
			return
		}
		req = leadFromForm(r)
		if err := validate.Struct(req); err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed",
				validationDetails(err), err)
			return
		}
	}

	lead, err := h.Leads.Create(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.InquiryResponse{
		Success: true,
		Message: inquiryThanks,
		LeadID:  lead.ID,
	})
}

func leadFromForm(r *http.Request) models.LeadRequest {
	req := models.LeadRequest{
		Name:    r.FormValue("name"),
		Phone:   r.FormValue("phone"),
		Email:   r.FormValue("email"),
		Message: r.FormValue("message"),
		Source:  r.FormValue("source"),
	}
	if v, err := strconv.Atoi(r.FormValue("property_id")); err == nil && v > 0 {
		req.PropertyID = &v
	}
	if d, err := time.Parse("2006-01-02", r.FormValue("preferred_visit_date")); err == nil {
		req.PreferredVisitDate = &d
	}
	return req
}

// ListLeads: GET /api/v1/leads (admin)
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0, 0, 1<<30)
	if err != nil {
		badQuery(w, err)
		return
	}
	limit, err := queryInt(r, "limit", 50, 1, 100)
	if err != nil {
		badQuery(w, err)
		return
	}
	q := r.URL.Query()
	list, err := h.Leads.List(r.Context(), repositories.LeadFilter{
		Status: q.Get("status"),
		Source: q.Get("source"),
		Skip:   skip,
		Limit:  limit,
	})
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// LeadsByProperty: GET /api/v1/leads/property/{id} (admin)
func (h *Handler) LeadsByProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	list, err := h.Leads.ListByProperty(r.Context(), id)
	if err != nil {
		propertyError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GetLead: GET /api/v1/leads/{id} (admin)
func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	lead, err := h.Leads.Get(r.Context(), id)
	if err != nil {
		leadError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, lead)
}

// UpdateLead: PUT /api/v1/leads/{id} (admin)
func (h *Handler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var upd models.LeadUpdate
	if !decode(w, r, &upd) {
		return
	}
	lead, err := h.Leads.Update(r.Context(), id, upd)
	if err != nil {
		leadError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, lead)
}

// UpdateLeadStatus: PATCH /api/v1/leads/{id}/status?new_status= (admin)
func (h *Handler) UpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	status := r.URL.Query().Get("new_status")
	if !models.IsValidStatus(status) {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Invalid status", map[string]any{"allowed": models.LeadStatuses})
		return
	}
	if _, err := h.Leads.UpdateStatus(r.Context(), id, status); err != nil {
		leadError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"message": "Lead status updated to " + status,
		"lead_id": id,
	})
}

// LeadStats: GET /api/v1/leads/stats/overview (admin)
func (h *Handler) LeadStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Leads.Stats(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, st)
}

// LeadFunnel: GET /api/v1/leads/stats/funnel (admin)
func (h *Handler) LeadFunnel(w http.ResponseWriter, r *http.Request) {
	f, err := h.Leads.Funnel(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, f)
}

// ExportLeads: GET /api/v1/leads/export (admin), CSV download.
func (h *Handler) ExportLeads(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		`attachment; filename="leads-`+time.Now().Format("2006-01-02")+`.csv"`)
	if err := h.Leads.ExportCSV(r.Context(), w); err != nil {
		utils.HandleAppError(w, err)
	}
}

func leadError(w http.ResponseWriter, err error) {
	if errors.Is(err, utils.ErrNotFound) {
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Lead not found", nil)
		return
	}
	utils.HandleAppError(w, err)
}
