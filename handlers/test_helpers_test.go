package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

var testDate = time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.Request = req
	e.Response = rec
	return e
}

// newSessionEvent builds a request bound to s. htmx marks it as an htmx request.
func newSessionEvent(s *services.Session, method, target string, body io.Reader, htmx bool) (*core.RequestEvent, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	if s != nil {
		req = WithSession(req, s)
	}
	rec := httptest.NewRecorder()
	return newTestRequestEvent(req, rec), rec
}

// newFormEvent builds a url-encoded form request bound to s.
func newFormEvent(s *services.Session, method, target string, form url.Values, htmx bool) (*core.RequestEvent, *httptest.ResponseRecorder) {
	e, rec := newSessionEvent(s, method, target, strings.NewReader(form.Encode()), htmx)
	e.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e, rec
}

// toastFrom decodes the showToast event of the HX-Trigger header.
func toastFrom(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	trigger := rec.Header().Get("HX-Trigger")
	if trigger == "" {
		t.Fatal("expected HX-Trigger header to be set")
	}
	var parsed map[string]map[string]string
	if err := json.Unmarshal([]byte(trigger), &parsed); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v", err)
	}
	toast, ok := parsed["showToast"]
	if !ok {
		t.Fatal("expected showToast key in HX-Trigger")
	}
	return toast
}

func newTestSession() *services.Session {
	return services.NewSession("test-session", testDate)
}
