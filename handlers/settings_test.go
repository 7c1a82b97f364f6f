package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/url"
	"testing"

	"proposalbuilder/services"
	"proposalbuilder/testhelpers"
)

func TestHandleSettingsView(t *testing.T) {
	s := newTestSession()

	e, rec := newSessionEvent(s, http.MethodGet, "/settings", nil, false)
	if err := HandleSettingsView()(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if s.View() != services.ViewSettings {
		t.Error("viewing settings should set the current view")
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"<!doctype html>",
		`id="settings-content"`,
		`value="#004AAD"`,
		"Nenhuma imagem carregada.",
	)
	testhelpers.AssertHTMLNotContains(t, rec.Body.String(), "/settings/assets/logo/remove")
}

func TestHandleSettingsSave_Accent(t *testing.T) {
	tests := []struct {
		name       string
		accent     string
		wantStatus int
		wantAccent string
	}{
		{"lowercase is normalised", "#1a2b3c", http.StatusOK, "#1A2B3C"},
		{"blank keeps current", "", http.StatusOK, services.DefaultAccentColor},
		{"missing hash", "1A2B3C", http.StatusBadRequest, services.DefaultAccentColor},
		{"named colour", "red", http.StatusBadRequest, services.DefaultAccentColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession()
			e, rec := newFormEvent(s, http.MethodPost, "/settings", url.Values{"accent_color": {tt.accent}}, true)
			if err := HandleSettingsSave()(e); err != nil {
				t.Fatalf("handler error: %v", err)
			}

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := s.Customization().AccentColor; got != tt.wantAccent {
				t.Errorf("AccentColor = %q, want %q", got, tt.wantAccent)
			}
		})
	}
}

func TestHandleSettingsSave_Logo(t *testing.T) {
	s := newTestSession()
	body, contentType := testhelpers.MultipartFile(t, "logo", "logo.jpg", testhelpers.BuildJPEG(t, 2400, 600),
		map[string]string{"accent_color": "#00AA00"})

	e, rec := newSessionEvent(s, http.MethodPost, "/settings", body, true)
	e.Request.Header.Set("Content-Type", contentType)
	if err := HandleSettingsSave()(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	c := s.Customization()
	if c.AccentColor != "#00AA00" {
		t.Errorf("AccentColor = %q", c.AccentColor)
	}
	if c.Logo == nil || c.Logo.FileName != "logo.jpg" {
		t.Fatalf("logo not stored: %+v", c.Logo)
	}
	if c.Logo.Width != 1200 || c.Logo.Height != 300 {
		t.Errorf("logo size = %dx%d, want 1200x300", c.Logo.Width, c.Logo.Height)
	}
	if _, ok := services.LoadImageAsset(c.Logo); !ok {
		t.Error("stored logo should load as PNG")
	}
	if c.Signature != nil {
		t.Error("signature should stay unset")
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"Atual: logo.jpg (1200x300)",
		"/settings/assets/logo/remove",
	)
}

func TestHandleSettingsSave_InvalidImageChangesNothing(t *testing.T) {
	s := newTestSession()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	w.WriteField("accent_color", "#123456")
	sig, _ := w.CreateFormFile("signature", "assinatura.png")
	sig.Write(testhelpers.BuildPNG(t, 40, 20))
	logo, _ := w.CreateFormFile("logo", "logo.gif")
	logo.Write([]byte("GIF89a not really"))
	w.Close()

	e, rec := newSessionEvent(s, http.MethodPost, "/settings", body, true)
	e.Request.Header.Set("Content-Type", w.FormDataContentType())
	if err := HandleSettingsSave()(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	c := s.Customization()
	if c.AccentColor != services.DefaultAccentColor || c.Logo != nil || c.Signature != nil {
		t.Errorf("a rejected save should change nothing, got %+v", c)
	}
}

func TestHandleAssetRemove(t *testing.T) {
	s := newTestSession()
	asset, err := services.NormalizeImageAsset("sig.png", testhelpers.BuildPNG(t, 40, 20))
	if err != nil {
		t.Fatalf("NormalizeImageAsset: %v", err)
	}
	s.UpdateCustomization(func(c *services.Customization) {
		c.Logo = asset
		c.Signature = asset
	})

	e, rec := newSessionEvent(s, http.MethodPost, "/settings/assets/signature/remove", nil, true)
	e.Request.SetPathValue("kind", "signature")
	if err := HandleAssetRemove()(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	c := s.Customization()
	if c.Signature != nil {
		t.Error("signature should be removed")
	}
	if c.Logo == nil {
		t.Error("logo should be kept")
	}
	testhelpers.AssertHTMLNotContains(t, rec.Body.String(), "/settings/assets/signature/remove")
}

func TestHandleAssetRemove_UnknownKind(t *testing.T) {
	s := newTestSession()
	e, rec := newSessionEvent(s, http.MethodPost, "/settings/assets/banner/remove", nil, true)
	e.Request.SetPathValue("kind", "banner")
	if err := HandleAssetRemove()(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleAssetRemove_PlainPostRedirects(t *testing.T) {
	s := newTestSession()
	e, rec := newSessionEvent(s, http.MethodPost, "/settings/assets/logo/remove", nil, false)
	e.Request.SetPathValue("kind", "logo")
	if err := HandleAssetRemove()(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/settings" {
		t.Errorf("got %d %q, want 303 /settings", rec.Code, rec.Header().Get("Location"))
	}
}
