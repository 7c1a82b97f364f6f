package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
	"proposalbuilder/templates"
)

// Asset kinds as they appear in form fields and routes.
const (
	assetLogo      = "logo"
	assetSignature = "signature"
)

// HandleSettingsView renders the customization page.
// Route: GET /settings
func HandleSettingsView() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s, err := requireSession(e)
		if s == nil {
			return err
		}
		s.SetView(services.ViewSettings)

		data := buildSettingsData(s)
		if isHTMX(e) {
			return render(e, templates.SettingsContent(data))
		}
		return render(e, templates.SettingsPage(data))
	}
}

// HandleSettingsSave stores the accent colour and any uploaded logo or
// signature. Everything is validated first so a bad field changes nothing.
// Route: POST /settings
func HandleSettingsSave() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s, err := requireSession(e)
		if s == nil {
			return err
		}

		if err := e.Request.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			log.Printf("settings_save: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Formulário inválido")
		}

		accent := strings.TrimSpace(e.Request.FormValue("accent_color"))
		if accent != "" {
			if _, ok := services.ParseHexColor(accent); !ok {
				return ErrorToast(e, http.StatusBadRequest, "Cor inválida, use o formato #RRGGBB")
			}
		}

		uploads := map[string]*services.ImageAsset{}
		for _, kind := range []string{assetLogo, assetSignature} {
			asset, err := readImageUpload(e, kind)
			if err != nil {
				log.Printf("settings_save: %s: %v", kind, err)
				return ErrorToast(e, http.StatusBadRequest, "Imagem inválida: envie um arquivo PNG ou JPG")
			}
			if asset != nil {
				uploads[kind] = asset
			}
		}

		s.UpdateCustomization(func(c *services.Customization) {
			if accent != "" {
				c.AccentColor = strings.ToUpper(accent)
			}
			if a, ok := uploads[assetLogo]; ok {
				c.Logo = a
			}
			if a, ok := uploads[assetSignature]; ok {
				c.Signature = a
			}
		})
		SetToast(e, ToastSuccess, "Configurações salvas")

		if !isHTMX(e) {
			return redirectTo(e, "/settings")
		}
		return render(e, templates.SettingsContent(buildSettingsData(s)))
	}
}

// HandleAssetRemove drops the logo or the signature.
// Route: POST /settings/assets/{kind}/remove
func HandleAssetRemove() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s, err := requireSession(e)
		if s == nil {
			return err
		}

		kind := e.Request.PathValue("kind")
		switch kind {
		case assetLogo:
			s.UpdateCustomization(func(c *services.Customization) { c.Logo = nil })
			SetToast(e, ToastInfo, "Logo removido")
		case assetSignature:
			s.UpdateCustomization(func(c *services.Customization) { c.Signature = nil })
			SetToast(e, ToastInfo, "Assinatura removida")
		default:
			return ErrorToast(e, http.StatusNotFound, "Imagem desconhecida")
		}

		if !isHTMX(e) {
			return redirectTo(e, "/settings")
		}
		return render(e, templates.SettingsContent(buildSettingsData(s)))
	}
}

// readImageUpload returns the normalised image in field, or nil when no file
// was sent.
func readImageUpload(e *core.RequestEvent, field string) (*services.ImageAsset, error) {
	if e.Request.MultipartForm == nil {
		return nil, nil
	}
	name, data, err := readUpload(e, field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return services.NormalizeImageAsset(name, data)
}
