package sessions

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "admin_session"
	adminIDKey  = "admin_id"
	flashKey    = "flash"
)

var store = newStore("dev-insecure-secret-change-me-now", false)

// Init rebuilds the cookie store from the configured secret.
// The signing and encryption keys are both derived from it.
func Init(secret string, secure bool) {
	store = newStore(secret, secure)
}

func newStore(secret string, secure bool) *sessions.CookieStore {
	h := sha256.Sum256([]byte("auth:" + secret))
	e := sha256.Sum256([]byte("enc:" + secret))

	s := sessions.NewCookieStore(h[:], e[:])
	s.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
	return s
}

func GetSession(r *http.Request) (*sessions.Session, error) {
	return store.Get(r, sessionName)
}

// writable returns the session to modify. A cookie that no longer decodes
// (rotated secret) is replaced by a fresh session rather than failing.
func writable(r *http.Request) (*sessions.Session, error) {
	s, err := GetSession(r)
	if err != nil && s == nil {
		return nil, err
	}
	return s, nil
}

func SetAdminID(w http.ResponseWriter, r *http.Request, adminID int) error {
	s, err := writable(r)
	if err != nil {
		return err
	}
	s.Values[adminIDKey] = adminID
	return s.Save(r, w)
}

func GetAdminID(r *http.Request) (int, bool) {
	s, err := GetSession(r)
	if err != nil {
		return 0, false
	}
	if v, ok := s.Values[adminIDKey].(int); ok {
		return v, true
	}
	return 0, false
}

func ClearAdminID(w http.ResponseWriter, r *http.Request) error {
	s, err := writable(r)
	if err != nil {
		return err
	}
	delete(s.Values, adminIDKey)
	return s.Save(r, w)
}

// AddFlash stores a one-shot message shown on the next page render.
func AddFlash(w http.ResponseWriter, r *http.Request, msg string) error {
	s, err := writable(r)
	if err != nil {
		return err
	}
	s.AddFlash(msg, flashKey)
	return s.Save(r, w)
}

// PopFlashes returns and clears pending flash messages.
func PopFlashes(w http.ResponseWriter, r *http.Request) []string {
	s, err := GetSession(r)
	if err != nil {
		return nil
	}
	raw := s.Flashes(flashKey)
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save(r, w)
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if m, ok := f.(string); ok {
			out = append(out, m)
		}
	}
	return out
}
