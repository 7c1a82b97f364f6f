package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/pocketbase/pocketbase/core"
)

// Toast types understood by static/app.js.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastWarning = "warning"
	ToastInfo    = "info"
)

// flashCookieName carries a toast across a plain (non-htmx) redirect.
const flashCookieName = "flash_toast"

// SetToast queues a toast on the client. It is merged into any HX-Trigger
// header already set and mirrored into a short-lived flash cookie so it also
// survives a regular redirect.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	payload := map[string]string{"message": message, "type": toastType}

	setHXTrigger(e, "showToast", payload)

	cookieVal, err := json.Marshal(payload)
	if err != nil {
		log.Printf("toast: failed to marshal flash cookie: %v", err)
		return
	}
	http.SetCookie(e.Response, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(string(cookieVal)),
		Path:     "/",
		MaxAge:   10,
		HttpOnly: false, // read by app.js
		SameSite: http.SameSiteLaxMode,
	})
}

// ErrorToast shows message as an error toast and tells htmx not to swap the
// response body. The plain-text body still reaches non-htmx clients.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, ToastError, message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}

// setHXTrigger adds event to the HX-Trigger JSON object, keeping events
// already present. A malformed existing value is replaced.
func setHXTrigger(e *core.RequestEvent, event string, detail any) {
	triggers := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &triggers); err != nil {
			log.Printf("toast: existing HX-Trigger is not valid JSON, overwriting: %v", err)
			triggers = map[string]any{}
		}
	}
	triggers[event] = detail

	data, err := json.Marshal(triggers)
	if err != nil {
		log.Printf("toast: failed to marshal HX-Trigger JSON: %v", err)
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))
}
