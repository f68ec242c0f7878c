package middleware

import (
	"context"
	"net/http"
	"strings"

	"IndoHomz/internal/sessions"
	"IndoHomz/internal/utils"
)

type contextKey string

// ContextKeyAdminID holds the authenticated administrator's id.
const ContextKeyAdminID contextKey = "admin_id"

// AdminIDFromContext returns the id set by RequireAdmin.
func AdminIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(ContextKeyAdminID).(int)
	return id, ok
}

// AdminOnly wraps a single HTML handler: r.Post("/path", middleware.AdminOnly(h)).
func AdminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := sessions.GetAdminID(r); !ok {
			http.Redirect(w, r, "/admin/login", http.StatusFound)
			return
		}
		next(w, r)
	}
}

// AdminOnlyMW is the chi-style form: g.Use(middleware.AdminOnlyMW).
func AdminOnlyMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessions.GetAdminID(r)
		if !ok {
			http.Redirect(w, r, "/admin/login", http.StatusFound)
			return
		}
		ctx := context.WithValue(r.Context(), ContextKeyAdminID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TokenParser resolves a bearer token to an administrator id.
type TokenParser func(token string) (int, error)

// RequireAdmin guards the JSON API. A bearer access token is preferred;
// the admin panel's session cookie is accepted as well.
func RequireAdmin(parse TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := BearerToken(r); ok {
				id, err := parse(token)
				if err != nil {
					utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
						"Invalid or expired token", nil, err)
					return
				}
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ContextKeyAdminID, id)))
				return
			}
			if id, ok := sessions.GetAdminID(r); ok {
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ContextKeyAdminID, id)))
				return
			}
			w.Header().Set("WWW-Authenticate", "Bearer")
			utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
				"Not authenticated", nil)
		})
	}
}

// BearerToken returns the token of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
