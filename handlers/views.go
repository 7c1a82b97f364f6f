package handlers

import (
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
	"proposalbuilder/templates"
)

func isHTMX(e *core.RequestEvent) bool {
	return e.Request.Header.Get("HX-Request") == "true"
}

// render writes a component as the response body.
func render(e *core.RequestEvent, c templ.Component) error {
	e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
	return c.Render(e.Request.Context(), e.Response)
}

// redirectTo sends plain form posts back to a view after a mutation.
func redirectTo(e *core.RequestEvent, path string) error {
	return e.Redirect(http.StatusSeeOther, path)
}

// buildProposalData maps the session state to the proposal view.
func buildProposalData(s *services.Session, issuer services.Issuer) templates.ProposalData {
	doc := s.Proposal(issuer)
	meta := doc.Metadata

	return templates.ProposalData{
		Form: templates.MetadataForm{
			ClientName:     meta.ClientName,
			ProjectName:    meta.ProjectName,
			ProposalDate:   meta.ProposalDate.Format(dateInputLayout),
			PaymentTerms:   meta.PaymentTerms,
			DeliveryTerms:  meta.DeliveryTerms,
			ValidityPeriod: meta.ValidityPeriod,
		},
		Summary:     buildSummary(doc),
		Items:       buildItemsData(s, doc.Items, false),
		AccentColor: accentHex(s.Customization()),
	}
}

func buildSummary(doc services.ProposalDocument) templates.SummaryData {
	meta := doc.Metadata
	return templates.SummaryData{
		ClientName:     meta.ClientName,
		ProjectName:    meta.ProjectName,
		ProposalDate:   meta.ProposalDate.Format("02/01/2006"),
		ItemCount:      len(doc.Items),
		GrandTotal:     services.FormatBRLSymbol(doc.GrandTotal),
		PaymentTerms:   meta.PaymentTerms,
		DeliveryTerms:  meta.DeliveryTerms,
		ValidityPeriod: meta.ValidityPeriod,
	}
}

// buildItemsData maps a snapshot to the item editor. oob is set for partial
// responses so the summary total refreshes too.
func buildItemsData(s *services.Session, snap []services.SnapshotItem, oob bool) templates.ItemsData {
	rows := make([]templates.ItemRow, 0, len(snap))
	for _, it := range snap {
		rows = append(rows, templates.ItemRow{
			ID:          it.ID,
			Description: it.Description,
			Notes:       it.Notes,
			Quantity:    rawNumber(it.Quantity),
			UnitPrice:   rawNumber(it.UnitPrice),
			LineTotal:   services.FormatBRL(it.LineTotal),
		})
	}
	return templates.ItemsData{
		Rows:       rows,
		GrandTotal: services.FormatBRLSymbol(services.CalcGrandTotal(snap)),
		CanRemove:  len(snap) > 1,
		LastImport: s.LastImportedFileName(),
		OOB:        oob,
	}
}

// renderItems answers an item operation: the editor partial for htmx, a
// redirect back to the proposal otherwise.
func renderItems(e *core.RequestEvent, s *services.Session, snap []services.SnapshotItem) error {
	if !isHTMX(e) {
		return redirectTo(e, "/proposal")
	}
	return render(e, templates.ItemsSection(buildItemsData(s, snap, true)))
}

// buildSettingsData maps the session customization to the settings view.
func buildSettingsData(s *services.Session) templates.SettingsData {
	c := s.Customization()
	return templates.SettingsData{
		AccentColor: accentHex(c),
		Logo:        assetView(assetLogo, "Logo", c.Logo),
		Signature:   assetView(assetSignature, "Assinatura", c.Signature),
	}
}

func assetView(kind, label string, a *services.ImageAsset) templates.AssetView {
	v := templates.AssetView{Kind: kind, Label: label}
	if a != nil {
		v.FileName = a.FileName
		v.Width = a.Width
		v.Height = a.Height
	}
	return v
}

// accentHex returns the stored accent colour, or the default when it is not
// a valid #RRGGBB value.
func accentHex(c services.Customization) string {
	if _, ok := services.ParseHexColor(c.AccentColor); ok {
		return c.AccentColor
	}
	return services.DefaultAccentColor
}

// rawNumber renders a number for an <input type="number">.
func rawNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
