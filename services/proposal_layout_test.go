package services

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"proposalbuilder/testhelpers"
)

func TestColumnWidths(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    []int
	}{
		{"item table", ItemTableHeaders, []int{35, 25, 10, 15, 15}},
		{"unknown column gets fallback share", []string{"Produto", "Código"}, []int{70, 30}},
		{"all unknown split evenly", []string{"A", "B", "C"}, []int{34, 33, 33}},
		{"single column takes the grid", []string{"Total"}, []int{100}},
		{"no columns", nil, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ColumnWidths(tt.headers, LayoutGridSize)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ColumnWidths(%v) = %v, want %v", tt.headers, got, tt.want)
			}
		})
	}
}

func TestColumnWidths_AlwaysSumToGrid(t *testing.T) {
	sets := [][]string{
		ItemTableHeaders,
		{"Produto", "Quant.", "X", "Y", "Z", "W", "V"},
		{"Observações", "Nota", "Qtd"},
		{"a", "b", "c", "d", "e", "f", "g", "h", "i"},
	}
	for _, headers := range sets {
		for _, grid := range []int{12, 100} {
			sum := 0
			for _, w := range ColumnWidths(headers, grid) {
				sum += w
			}
			if sum != grid {
				t.Errorf("ColumnWidths(%v, %d) sums to %d", headers, grid, sum)
			}
		}
	}
}

func TestColumnFractions_Normalised(t *testing.T) {
	fr := ColumnFractions([]string{"Produto", "Desconhecida"})
	if len(fr) != 2 {
		t.Fatalf("expected 2 fractions, got %d", len(fr))
	}
	if sum := fr[0] + fr[1]; sum < 0.999999 || sum > 1.000001 {
		t.Errorf("fractions sum to %v, want 1", sum)
	}
}

func TestLayoutProposal_Deterministic(t *testing.T) {
	doc := sampleProposal()
	custom := Customization{AccentColor: "#123456"}

	a := LayoutProposal(doc, custom)
	b := LayoutProposal(doc, custom)
	if !reflect.DeepEqual(a, b) {
		t.Error("two layouts of the same document differ")
	}
}

func TestLayoutProposal_ItemTable(t *testing.T) {
	blocks := LayoutProposal(sampleProposal(), Customization{})

	var header *LayoutBlock
	var rows []LayoutBlock
	for i := range blocks {
		switch blocks[i].Kind {
		case BlockTableHeader:
			header = &blocks[i]
		case BlockTableRow:
			rows = append(rows, blocks[i])
		}
	}
	if header == nil {
		t.Fatal("no table header")
	}
	if len(header.Cells) != len(ItemTableHeaders) {
		t.Fatalf("header has %d cells, want %d", len(header.Cells), len(ItemTableHeaders))
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	var got []string
	for _, c := range rows[0].Cells {
		got = append(got, c.Text)
	}
	want := []string{"Instalação elétrica", "Inclui material", "3", "550,00", "1.650,00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("first row = %v, want %v", got, want)
	}

	if rows[0].Cells[0].Align != AlignLeft || rows[0].Cells[1].Align != AlignLeft {
		t.Error("text columns should be left aligned")
	}
	for _, c := range rows[0].Cells[2:] {
		if c.Align != AlignCenter {
			t.Errorf("numeric cell %q should be centred", c.Text)
		}
	}

	if !hasText(blocks, "Valor Total: R$ 1.750,00") {
		t.Error("missing grand total line")
	}
}

func TestLayoutProposal_NoItems(t *testing.T) {
	blocks := LayoutProposal(emptyProposal(), Customization{})

	if !hasText(blocks, NoItemsLine) {
		t.Error("missing no-items line")
	}
	if !hasText(blocks, "Valor Total: R$ 0,00") {
		t.Error("missing zero total")
	}
	for _, b := range blocks {
		if b.Kind == BlockTableHeader || b.Kind == BlockTableRow {
			t.Fatal("empty proposal should not draw a table")
		}
	}
}

func TestLayoutProposal_Sections(t *testing.T) {
	doc := sampleProposal()
	blocks := LayoutProposal(doc, Customization{})

	for _, want := range []string{
		ProposalTitle,
		"Cliente: Construtora Horizonte",
		"Projeto: Reforma Sede",
		"Data: 05/03/2026",
		"Empresa",
		"Contato",
		"Dados Bancários",
		"Validade da proposta: 30 dias",
		"Condições de pagamento: À vista",
		"Prazo de entrega: 15 dias",
		TaxDisclosureLine,
		"São Paulo, 5 de março de 2026.",
		"Carlos Andrade",
	} {
		if !hasText(blocks, want) {
			t.Errorf("layout missing %q", want)
		}
	}

	if idx(blocks, "Empresa") > idx(blocks, "Contato") || idx(blocks, "Contato") > idx(blocks, "Dados Bancários") {
		t.Error("issuer sections out of order")
	}
	if idx(blocks, ProposalTitle) > idx(blocks, "Cliente: Construtora Horizonte") {
		t.Error("title should come before the client block")
	}
}

func TestLayoutProposal_NoProjectLine(t *testing.T) {
	blocks := LayoutProposal(emptyProposal(), Customization{})
	for _, b := range blocks {
		if strings.HasPrefix(b.Text, "Projeto:") {
			t.Errorf("unexpected project line %q", b.Text)
		}
	}
}

func TestLayoutProposal_LogoAndSignature(t *testing.T) {
	png := testhelpers.BuildPNG(t, 40, 20)

	tests := []struct {
		name     string
		custom   Customization
		wantKind BlockKind
	}{
		{"absent", Customization{}, BlockSpacer},
		{"valid", Customization{Logo: &ImageAsset{PNG: png}, Signature: &ImageAsset{PNG: png}}, BlockImage},
		{"unreadable", Customization{Logo: &ImageAsset{PNG: []byte("not a png")}, Signature: &ImageAsset{PNG: []byte{0x89, 'P', 'N', 'G'}}}, BlockSpacer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := LayoutProposal(sampleProposal(), tt.custom)

			logo := blocks[0]
			if logo.Kind != tt.wantKind || logo.Height != logoHeight {
				t.Errorf("logo block = kind %v height %v, want kind %v height %v", logo.Kind, logo.Height, tt.wantKind, logoHeight)
			}

			sig := blocks[idx(blocks, "Carlos Andrade")-1]
			if sig.Kind != tt.wantKind || sig.Height != signatureHeight {
				t.Errorf("signature block = kind %v height %v, want kind %v height %v", sig.Kind, sig.Height, tt.wantKind, signatureHeight)
			}
		})
	}
}

func TestLayoutProposal_Accent(t *testing.T) {
	tests := []struct {
		color string
		want  RGB
	}{
		{"#FF8800", RGB{255, 136, 0}},
		{"", RGB{0, 74, 173}},
		{"red", RGB{0, 74, 173}},
		{"#12345", RGB{0, 74, 173}},
	}
	for _, tt := range tests {
		blocks := LayoutProposal(sampleProposal(), Customization{AccentColor: tt.color})
		for _, b := range blocks {
			if b.Kind == BlockTitle || b.Kind == BlockTableHeader {
				if b.Accent != tt.want {
					t.Errorf("accent %q: block %v tinted %v, want %v", tt.color, b.Kind, b.Accent, tt.want)
				}
			}
		}
	}
}

func TestFormatLongDate(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), "1 de janeiro de 2026"},
		{time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), "31 de dezembro de 2025"},
		{time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), "15 de março de 2026"},
	}
	for _, tt := range tests {
		if got := FormatLongDate(tt.date); got != tt.want {
			t.Errorf("FormatLongDate(%v) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestFormatQty(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{3, "3"},
		{2.5, "2.5"},
		{1000, "1000"},
		{0.125, "0.125"},
	}
	for _, tt := range tests {
		if got := formatQty(tt.in); got != tt.want {
			t.Errorf("formatQty(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func hasText(blocks []LayoutBlock, s string) bool {
	return idx(blocks, s) >= 0
}

func idx(blocks []LayoutBlock, s string) int {
	for i, b := range blocks {
		if b.Text == s {
			return i
		}
	}
	return -1
}
