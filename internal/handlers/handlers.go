package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"IndoHomz/internal/config"
	"IndoHomz/internal/logger"
	"IndoHomz/internal/models"
	"IndoHomz/internal/services"
	"IndoHomz/internal/sessions"
	"IndoHomz/internal/utils"
	"IndoHomz/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Pinger reports whether the database answers.
type Pinger func(ctx context.Context) error

// Handler carries the services every endpoint needs.
type Handler struct {
	Cfg       *config.Config
	Props     services.PropertyService
	Leads     services.LeadService
	Analytics services.AnalyticsService
	Auth      services.AuthService
	Reports   services.ReportService
	Ping      Pinger
}

var templateFuncs = template.FuncMap{
	"label": models.StageLabel,
	"deref": func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	},
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"join": strings.Join,
	"add":  func(a, b int) int { return a + b },
}

// render executes the "base" layout around page. IsAdmin, Year and
// pending flash messages are injected for every page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, page string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	_, isAdmin := sessions.GetAdminID(r)
	data["IsAdmin"] = isAdmin
	data["Year"] = time.Now().Year()
	data["AppName"] = h.Cfg.AppName
	if flashes := sessions.PopFlashes(w, r); len(flashes) > 0 {
		data["Flashes"] = flashes
	}

	tmpl, err := template.New("").Funcs(templateFuncs).
		ParseFS(web.FS, "templates/base.html", "templates/"+page)
	if err != nil {
		logger.Log.WithError(err).Error("template parse failed")
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		logger.Log.WithError(err).WithField("page", page).Error("template execute failed")
	}
}

// decode reads a JSON body into dst and validates it.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed",
			validationDetails(err), err)
		return false
	}
	return true
}

// validationDetails lists the failing fields as field -> rule.
func validationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return out
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 1 {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid ID", nil)
		return 0, false
	}
	return id, true
}

// queryInt reads an optional integer and checks it against [min, max].
func queryInt(r *http.Request, key string, def, min, max int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
	}
	return v, nil
}

func queryBool(r *http.Request, key string) (*bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false", key)
	}
	return &v, nil
}

func badQuery(w http.ResponseWriter, err error) {
	utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, err.Error(), nil)
}
