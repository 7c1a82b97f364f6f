package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"proposalbuilder/services"
)

func TestGetSession_FromContext(t *testing.T) {
	s := newTestSession()
	req := WithSession(httptest.NewRequest(http.MethodGet, "/", nil), s)

	if got := GetSession(req); got != s {
		t.Errorf("expected session %p, got %p", s, got)
	}
}

func TestGetSession_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetSession(req); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestSessionMiddleware_StartsSessionAndSetsCookie(t *testing.T) {
	reg := services.NewSessionRegistry()
	req := httptest.NewRequest(http.MethodGet, "/proposal", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(req, rec)

	if err := SessionMiddleware(reg)(e); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}

	s := GetSession(e.Request)
	if s == nil {
		t.Fatal("expected session in request context")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != SessionCookieName || c.Value != s.ID {
		t.Errorf("cookie = %s=%s, want %s=%s", c.Name, c.Value, SessionCookieName, s.ID)
	}
	if !c.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
	if c.MaxAge != 0 || !c.Expires.IsZero() {
		t.Error("session cookie should end with the browser session")
	}
	if reg.Len() != 1 {
		t.Errorf("registry has %d sessions, want 1", reg.Len())
	}
}

func TestSessionMiddleware_ReusesKnownSession(t *testing.T) {
	reg := services.NewSessionRegistry()
	existing, _ := reg.GetOrCreate("")

	req := httptest.NewRequest(http.MethodGet, "/proposal", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: existing.ID})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(req, rec)

	if err := SessionMiddleware(reg)(e); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if GetSession(e.Request) != existing {
		t.Error("expected the existing session")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("no cookie should be set for a known session")
	}
}

func TestSessionMiddleware_UnknownCookieGetsFreshSession(t *testing.T) {
	reg := services.NewSessionRegistry()
	req := httptest.NewRequest(http.MethodGet, "/proposal", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "expired"})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(req, rec)

	if err := SessionMiddleware(reg)(e); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	s := GetSession(e.Request)
	if s == nil || s.ID == "expired" {
		t.Fatal("expected a fresh session with a new id")
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != s.ID {
		t.Error("expected the new session id in the cookie")
	}
}

func TestSessionMiddleware_SkipsStaticAndAPI(t *testing.T) {
	reg := services.NewSessionRegistry()
	for _, path := range []string{"/static/app.css", "/api/health", "/_/"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e := newTestRequestEvent(req, rec)

		if err := SessionMiddleware(reg)(e); err != nil {
			t.Fatalf("%s: middleware returned error: %v", path, err)
		}
		if GetSession(e.Request) != nil {
			t.Errorf("%s: no session expected", path)
		}
	}
	if reg.Len() != 0 {
		t.Errorf("registry has %d sessions, want 0", reg.Len())
	}
}

func TestRequireSession_Missing(t *testing.T) {
	e, rec := newSessionEvent(nil, http.MethodGet, "/proposal", nil, true)

	s, _ := requireSession(e)
	if s != nil {
		t.Fatal("expected nil session")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
