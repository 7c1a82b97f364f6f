package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pocketbase/pocketbase/core"
)

func TestSetToast_Types(t *testing.T) {
	tests := []struct {
		toastType string
		message   string
	}{
		{ToastSuccess, "Configurações salvas"},
		{ToastError, "Data inválida"},
		{ToastInfo, "Itens removidos"},
		{ToastWarning, "Atenção"},
	}

	for _, tt := range tests {
		t.Run(tt.toastType, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e := &core.RequestEvent{}
			e.Response = rec

			SetToast(e, tt.toastType, tt.message)

			toast := toastFrom(t, rec)
			if toast["type"] != tt.toastType {
				t.Errorf("expected type %q, got %q", tt.toastType, toast["type"])
			}
			if toast["message"] != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, toast["message"])
			}
		})
	}
}

func TestSetToast_MergesWithExisting(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec
	rec.Header().Set("HX-Trigger", `{"itemsChanged":{"count":"2"}}`)

	SetToast(e, ToastSuccess, "Item salvo")

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &parsed); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v", err)
	}
	if _, ok := parsed["itemsChanged"]; !ok {
		t.Error("expected itemsChanged key to be preserved after merge")
	}
	if _, ok := parsed["showToast"]; !ok {
		t.Error("expected showToast key after merge")
	}
}

func TestSetToast_OverwritesInvalidExisting(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec
	rec.Header().Set("HX-Trigger", "notValidJSON")

	SetToast(e, ToastError, "Sobrescrito")

	if toastFrom(t, rec)["message"] != "Sobrescrito" {
		t.Error("expected toast after overwriting invalid header")
	}
}

func TestSetToast_SpecialCharacters(t *testing.T) {
	for _, msg := range []string{
		`a planilha deve conter as colunas: Preço Unit., Produto, Quant.`,
		`<script>alert("xss")</script>`,
		"linha1\nlinha2",
	} {
		rec := httptest.NewRecorder()
		e := &core.RequestEvent{}
		e.Response = rec

		SetToast(e, ToastInfo, msg)

		if got := toastFrom(t, rec)["message"]; got != msg {
			t.Errorf("expected message %q, got %q", msg, got)
		}
	}
}

func TestSetToast_FlashCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec

	SetToast(e, ToastSuccess, "Dados da proposta atualizados")

	var flash *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == flashCookieName {
			flash = c
		}
	}
	if flash == nil {
		t.Fatal("expected flash cookie")
	}
	if flash.HttpOnly {
		t.Error("flash cookie must be readable by scripts")
	}
	raw, err := url.QueryUnescape(flash.Value)
	if err != nil {
		t.Fatalf("flash cookie not query-escaped: %v", err)
	}
	var payload map[string]string
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("flash cookie is not JSON: %v", err)
	}
	if payload["message"] != "Dados da proposta atualizados" || payload["type"] != ToastSuccess {
		t.Errorf("unexpected flash payload %v", payload)
	}
}

func TestErrorToast_SetsHeaderAndReswap(t *testing.T) {
	tests := []struct {
		code int
		msg  string
	}{
		{http.StatusBadRequest, "Formulário inválido"},
		{http.StatusNotFound, "Imagem desconhecida"},
		{http.StatusUnprocessableEntity, "arquivo inválido: zip: not a valid zip file"},
		{http.StatusInternalServerError, "Não foi possível gerar o PDF. Tente novamente."},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		e := &core.RequestEvent{}
		e.Response = rec

		if err := ErrorToast(e, tt.code, tt.msg); err != nil {
			t.Fatalf("ErrorToast returned error: %v", err)
		}

		if rec.Code != tt.code {
			t.Errorf("expected status %d, got %d", tt.code, rec.Code)
		}
		if rec.Header().Get("HX-Reswap") != "none" {
			t.Error("expected HX-Reswap: none")
		}
		if rec.Body.String() != tt.msg {
			t.Errorf("expected body %q, got %q", tt.msg, rec.Body.String())
		}
		toast := toastFrom(t, rec)
		if toast["type"] != ToastError || toast["message"] != tt.msg {
			t.Errorf("unexpected toast %v", toast)
		}
	}
}
