package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"IndoHomz/internal/logger"
	"IndoHomz/internal/middleware"
	"IndoHomz/internal/models"
	"IndoHomz/internal/sessions"
	"IndoHomz/internal/utils"
)

// ShowLoginPage renders the admin login form.
func (h *Handler) ShowLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := sessions.GetAdminID(r); ok {
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}
	data := map[string]any{"Title": "Admin login"}
	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		data["Error"] = errMsg
	}
	h.render(w, r, "admin/login.html", data)
}

// HandleLogin checks the form credentials and opens an admin session.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		loginError(w, r, "Invalid form")
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		loginError(w, r, "Please fill in all fields")
		return
	}

	admin, err := h.Auth.Authenticate(r.Context(), email, password)
	switch {
	case errors.Is(err, utils.ErrInvalidCredentials):
		loginError(w, r, "Invalid email or password")
		return
	case errors.Is(err, utils.ErrAccountDisabled):
		loginError(w, r, "Account is disabled")
		return
	case err != nil:
		logger.Log.WithError(err).Error("admin login failed")
		loginError(w, r, "Login failed, try again")
		return
	}

	if err := sessions.SetAdminID(w, r, admin.ID); err != nil {
		logger.Log.WithError(err).Error("session save failed")
		loginError(w, r, "Session error")
		return
	}
	logger.Log.WithField("admin_id", admin.ID).Info("admin signed in")
	http.Redirect(w, r, "/admin", http.StatusFound)
}

func loginError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/admin/login?error="+url.QueryEscape(msg), http.StatusFound)
}

// HandleLogout drops the session and goes back to the login page.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := sessions.ClearAdminID(w, r); err != nil {
		http.Error(w, "Logout failed", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/login", http.StatusFound)
}

// Login: POST /api/v1/auth/login (rate limited)
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	_, tokens, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, tokens)
}

// Refresh: POST /api/v1/auth/refresh with the refresh token as bearer
// or as {"refresh_token": "..."}.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		var body struct {
			RefreshToken string `json:"refresh_token" validate:"required"`
		}
		if !decode(w, r, &body) {
			return
		}
		token = body.RefreshToken
	}
	tokens, err := h.Auth.Refresh(r.Context(), token)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, tokens)
}

// Me: GET /api/v1/auth/me (admin)
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.AdminIDFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated", nil)
		return
	}
	admin, err := h.Auth.Admin(r.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated", nil)
			return
		}
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, admin)
}
