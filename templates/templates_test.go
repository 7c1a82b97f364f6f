package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"proposalbuilder/testhelpers"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()

	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestLayout_MarksActiveTab(t *testing.T) {
	html := renderString(t, Layout("Configurações", NavSettings, "#112233", templ.NopComponent))

	testhelpers.AssertHTMLContains(t, html,
		`<html lang="pt-BR">`,
		"<title>Configurações</title>",
		`data-accent="#112233"`,
		`<a href="/settings" class="nav-link active">`,
		`<a href="/proposal" class="nav-link">`,
		`id="toast-container"`,
	)
}

func TestSummary_OmitsBlankProject(t *testing.T) {
	data := SummaryData{ClientName: "ACME", ProposalDate: "05/03/2026", ItemCount: 2, GrandTotal: "R$ 1.750,00"}

	html := renderString(t, Summary(data))
	testhelpers.AssertHTMLContains(t, html, "<dd>ACME</dd>", "<dd>2</dd>", `<span id="summary-total">R$ 1.750,00</span>`)
	testhelpers.AssertHTMLNotContains(t, html, "Projeto")

	data.ProjectName = "Reforma"
	testhelpers.AssertHTMLContains(t, renderString(t, Summary(data)), "<dt>Projeto</dt><dd>Reforma</dd>")
}

func TestItemsSection(t *testing.T) {
	data := ItemsData{
		Rows: []ItemRow{
			{ID: "a1", Description: `Cabo "flex" <4mm>`, Quantity: "3", UnitPrice: "550", LineTotal: "1.650,00"},
		},
		GrandTotal: "R$ 1.650,00",
	}

	html := renderString(t, ItemsSection(data))
	testhelpers.AssertHTMLContains(t, html,
		`<tr id="item-a1">`,
		`value="Cabo &#34;flex&#34; &lt;4mm&gt;"`,
		`hx-patch="/proposal/items/a1"`,
		`<td id="items-total">R$ 1.650,00</td>`,
		`class="btn" disabled>Remover último`,
	)
	testhelpers.AssertHTMLNotContains(t, html, "hx-swap-oob", "Última importação")

	data.CanRemove = true
	data.OOB = true
	data.LastImport = "itens.xlsx"
	html = renderString(t, ItemsSection(data))
	testhelpers.AssertHTMLContains(t, html,
		`class="btn">Remover último`,
		`<span id="summary-total" hx-swap-oob="true">R$ 1.650,00</span>`,
		"Última importação: itens.xlsx",
	)
	if strings.Count(html, "disabled") != 0 {
		t.Error("no button should be disabled")
	}
}

func TestSettingsContent(t *testing.T) {
	data := SettingsData{
		AccentColor: "#004AAD",
		Logo:        AssetView{Kind: "logo", Label: "Logo", FileName: "marca.png", Width: 300, Height: 100},
		Signature:   AssetView{Kind: "signature", Label: "Assinatura"},
	}

	html := renderString(t, SettingsContent(data))
	testhelpers.AssertHTMLContains(t, html,
		`value="#004AAD"`,
		"Atual: marca.png (300x100)",
		`action="/settings/assets/logo/remove"`,
		"Nenhuma imagem carregada.",
	)
	testhelpers.AssertHTMLNotContains(t, html, "/settings/assets/signature/remove")
}
