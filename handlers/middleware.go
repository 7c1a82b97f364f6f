package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

type contextKey string

const SessionKey contextKey = "session"

// SessionCookieName carries the session id. The cookie has no MaxAge so it
// ends with the browser session.
const SessionCookieName = "proposal_session"

// GetSession extracts the session from the request context.
func GetSession(r *http.Request) *services.Session {
	if val, ok := r.Context().Value(SessionKey).(*services.Session); ok {
		return val
	}
	return nil
}

// WithSession returns a copy of r carrying s in its context.
func WithSession(r *http.Request, s *services.Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), SessionKey, s))
}

// SessionMiddleware reads the "proposal_session" cookie, resolves or starts
// the session and stores it in the request context. A new session id is sent
// back as an HttpOnly cookie.
func SessionMiddleware(reg *services.SessionRegistry) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if skipSession(e.Request.URL.Path) {
			return e.Next()
		}

		var id string
		if cookie, err := e.Request.Cookie(SessionCookieName); err == nil {
			id = cookie.Value
		}

		s, created := reg.GetOrCreate(id)
		if created {
			if id != "" {
				log.Printf("middleware: session not found, starting a new one")
			}
			http.SetCookie(e.Response, &http.Cookie{
				Name:     SessionCookieName,
				Value:    s.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		e.Request = WithSession(e.Request, s)
		return e.Next()
	}
}

// skipSession reports paths that never need a session: static files and the
// PocketBase API and dashboard.
func skipSession(path string) bool {
	for _, prefix := range []string{"/static/", "/api/", "/_/"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// requireSession returns the request's session or answers with an error when
// the middleware did not run.
func requireSession(e *core.RequestEvent) (*services.Session, error) {
	s := GetSession(e.Request)
	if s == nil {
		log.Printf("middleware: no session in request context for %s", e.Request.URL.Path)
		return nil, ErrorToast(e, http.StatusInternalServerError, "Sessão indisponível. Recarregue a página.")
	}
	return s, nil
}
