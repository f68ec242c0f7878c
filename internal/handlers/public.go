package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"IndoHomz/internal/catalog"
	"IndoHomz/internal/logger"
	"IndoHomz/internal/sessions"
	"IndoHomz/internal/utils"

	"github.com/go-chi/chi/v5"
)

/* ========= public pages ========= */

// Index renders the landing page with the featured listings.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	featured, err := h.Props.Featured(r.Context(), 0)
	if err != nil {
		logger.Log.WithError(err).Error("featured properties")
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "index.html", map[string]any{
		"Title":    h.Cfg.AppName,
		"Featured": featured,
	})
}

// Properties renders the grid, narrowed by ?q=, ?type= and ?availability=.
func (h *Handler) Properties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := catalog.Filter{
		Query:        strings.TrimSpace(q.Get("q")),
		Type:         q.Get("type"),
		Availability: q.Get("availability"),
	}
	all, err := h.Props.Grid(r.Context(), catalog.Filter{})
	if err != nil {
		logger.Log.WithError(err).Error("property grid")
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	page, _ := strconv.Atoi(q.Get("page"))
	result := catalog.Paginate(f.Apply(all), page, h.Cfg.DefaultPageSize, h.Cfg.MaxPageSize)

	h.render(w, r, "properties.html", map[string]any{
		"Title":    "Properties",
		"Page":     result,
		"Types":    catalog.Types(all),
		"Filter":   f,
		"Filtered": !f.IsZero(),
	})
}

// PropertyDetail renders one listing and its enquiry form.
func (h *Handler) PropertyDetail(w http.ResponseWriter, r *http.Request) {
	p, err := h.Props.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, utils.ErrNotFound) {
		http.NotFound(w, r)
		return
	} else if err != nil {
		logger.Log.WithError(err).Error("property detail")
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "property.html", map[string]any{
		"Title":    p.Title,
		"Property": p,
	})
}

// Enquire takes the detail page's lead form and redirects back with a flash.
func (h *Handler) Enquire(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	back := "/properties/" + slug

	p, err := h.Props.GetBySlug(r.Context(), slug)
	if errors.Is(err, utils.ErrNotFound) {
		http.NotFound(w, r)
		return
	} else if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		flashRedirect(w, r, back, "Invalid form")
		return
	}

	req := leadFromForm(r)
	req.PropertyID = &p.ID
	if err := validate.Struct(req); err != nil {
		flashRedirect(w, r, back, "Please enter your name and a valid phone number.")
		return
	}
	if _, err := h.Leads.Create(r.Context(), req); err != nil {
		var appErr *utils.AppError
		switch {
		case errors.Is(err, utils.ErrInvalidPhone):
			flashRedirect(w, r, back, "Please enter a valid 10 digit mobile number.")
		case errors.As(err, &appErr) && appErr.StatusCode < http.StatusInternalServerError:
			flashRedirect(w, r, back, appErr.Message)
		default:
			logger.Log.WithError(err).Error("lead from detail page")
			flashRedirect(w, r, back, "Something went wrong, please try again.")
		}
		return
	}
	flashRedirect(w, r, back, inquiryThanks)
}

func flashRedirect(w http.ResponseWriter, r *http.Request, to, msg string) {
	if err := sessions.AddFlash(w, r, msg); err != nil {
		logger.Log.WithError(err).Warn("flash not saved")
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}
