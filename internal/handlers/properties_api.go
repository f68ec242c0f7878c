package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"IndoHomz/internal/catalog"
	"IndoHomz/internal/models"
	"IndoHomz/internal/services"
	"IndoHomz/internal/utils"

	"github.com/go-chi/chi/v5"
)

// ListProperties: GET /api/v1/properties
func (h *Handler) ListProperties(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0, 0, 1<<30)
	if err != nil {
		badQuery(w, err)
		return
	}
	limit, err := queryInt(r, "limit", h.Cfg.DefaultPageSize, 1, h.Cfg.MaxPageSize)
	if err != nil {
		badQuery(w, err)
		return
	}
	available, err := queryBool(r, "is_available")
	if err != nil {
		badQuery(w, err)
		return
	}
	q := r.URL.Query()
	f := catalog.Filter{
		City:     q.Get("city"),
		Location: q.Get("location"),
		Type:     q.Get("property_type"),
	}
	if available != nil {
		f.Availability = catalog.AvailabilityRented
		if *available {
			f.Availability = catalog.AvailabilityAvailable
		}
	}
	if q.Get("bedrooms") != "" {
		b, err := queryInt(r, "bedrooms", 0, 0, 10)
		if err != nil {
			badQuery(w, err)
			return
		}
		f.MinBedrooms = &b
	}

	list, err := h.Props.List(r.Context(), f, skip, limit)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// FeaturedProperties: GET /api/v1/properties/featured
func (h *Handler) FeaturedProperties(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", services.DefaultFeaturedLimit, 1, services.MaxFeaturedLimit)
	if err != nil {
		badQuery(w, err)
		return
	}
	list, err := h.Props.Featured(r.Context(), limit)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// AvailableProperties: GET /api/v1/properties/available
func (h *Handler) AvailableProperties(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0, 0, 1<<30)
	if err != nil {
		badQuery(w, err)
		return
	}
	limit, err := queryInt(r, "limit", h.Cfg.DefaultPageSize, 1, h.Cfg.MaxPageSize)
	if err != nil {
		badQuery(w, err)
		return
	}
	list, err := h.Props.Available(r.Context(), skip, limit)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// PropertyTypes: GET /api/v1/properties/types
func (h *Handler) PropertyTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Props.Types(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"types": types})
}

// SearchProperties: POST /api/v1/properties/search
func (h *Handler) SearchProperties(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.Props.Search(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}

// GetProperty: GET /api/v1/properties/{id}
func (h *Handler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	p, err := h.Props.Get(r.Context(), id)
	if err != nil {
		propertyError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// GetPropertyBySlug: GET /api/v1/properties/slug/{slug}
func (h *Handler) GetPropertyBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.Props.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		propertyError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// CreateProperty: POST /api/v1/properties (admin)
func (h *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req models.PropertyRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.Props.Create(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, p)
}

// UpdateProperty: PUT /api/v1/properties/{id} (admin)
func (h *Handler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var upd models.PropertyUpdate
	if !decode(w, r, &upd) {
		return
	}
	p, err := h.Props.Update(r.Context(), id, upd)
	if err != nil {
		propertyError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// SetPropertyAvailability: PATCH /api/v1/properties/{id}/availability?is_available=
func (h *Handler) SetPropertyAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	available, err := queryBool(r, "is_available")
	if err != nil {
		badQuery(w, err)
		return
	}
	if available == nil {
		badQuery(w, fmt.Errorf("is_available is required"))
		return
	}
	if _, err := h.Props.SetAvailability(r.Context(), id, *available); err != nil {
		propertyError(w, err)
		return
	}
	state := "unavailable"
	if *available {
		state = "available"
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"message":     "Property " + state,
		"property_id": id,
	})
}

// DeleteProperty: DELETE /api/v1/properties/{id}?permanent=true (admin)
func (h *Handler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	permanent := strings.EqualFold(r.URL.Query().Get("permanent"), "true")
	if err := h.Props.Delete(r.Context(), id, permanent); err != nil {
		propertyError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"message":     "Property deleted successfully",
		"property_id": id,
	})
}

// PropertyStats: GET /api/v1/properties/stats/overview (admin)
func (h *Handler) PropertyStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Props.Stats(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, st)
}

func propertyError(w http.ResponseWriter, err error) {
	if errors.Is(err, utils.ErrNotFound) {
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Property not found", nil)
		return
	}
	utils.HandleAppError(w, err)
}
