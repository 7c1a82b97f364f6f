package services

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Fixed text of the rendered proposal.
const (
	ProposalTitle     = "Proposta Comercial"
	NoItemsLine       = "Nenhum item informado."
	TaxDisclosureLine = "Todos os impostos estão inclusos nos valores apresentados."
	GrandTotalLabel   = "Valor Total"
)

// LayoutGridSize is the number of grid columns a table row is divided into,
// so column widths read as percentages of the usable page width.
const LayoutGridSize = 100

// Heights in millimetres.
const (
	logoHeight      = 20.0
	signatureHeight = 18.0
	titleHeight     = 12.0
	headingHeight   = 7.0
	lineHeight      = 5.5
	tableRowHeight  = 7.0
	totalHeight     = 9.0
	gapHeight       = 4.0
)

// ItemTableHeaders are the item table column headers, in order.
var ItemTableHeaders = []string{"Produto/Serviço", "Observações", "Quant.", "Preço Unit.", "Total"}

// fallbackColumnShare is the share given to a column whose name matches none
// of the known patterns.
const fallbackColumnShare = 0.15

var columnShares = []struct {
	patterns []string
	share    float64
	numeric  bool
}{
	{[]string{"produto", "descri", "serviço", "servico"}, 0.35, false},
	{[]string{"observ", "nota"}, 0.25, false},
	{[]string{"quant", "qtd"}, 0.10, true},
	{[]string{"unit", "preço", "preco", "valor"}, 0.15, true},
	{[]string{"total"}, 0.15, true},
}

var portugueseMonths = [12]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// BlockKind identifies how a LayoutBlock is drawn.
type BlockKind int

const (
	BlockSpacer BlockKind = iota
	BlockImage
	BlockTitle
	BlockHeading
	BlockText
	BlockTableHeader
	BlockTableRow
	BlockTotal
)

// CellAlign is the horizontal alignment of a table cell.
type CellAlign int

const (
	AlignLeft CellAlign = iota
	AlignCenter
	AlignRight
)

// LayoutCell is one cell of a table row.
type LayoutCell struct {
	Text  string
	Width int
	Align CellAlign
}

// LayoutBlock is one row of the rendered page.
type LayoutBlock struct {
	Kind   BlockKind
	Height float64
	Text   string
	Cells  []LayoutCell
	Image  []byte
	Accent RGB
}

// LayoutProposal lays the document out as an ordered list of blocks. It is a
// pure function: the same document and customization always give the same
// blocks.
func LayoutProposal(doc ProposalDocument, custom Customization) []LayoutBlock {
	accent := custom.AccentRGB()
	meta := doc.Metadata

	var blocks []LayoutBlock

	// --- Header ---
	blocks = append(blocks, imageOrSpacer(custom.Logo, logoHeight))
	blocks = append(blocks, LayoutBlock{Kind: BlockTitle, Height: titleHeight, Text: ProposalTitle, Accent: accent})

	// --- Client ---
	blocks = append(blocks, textLine(fmt.Sprintf("Cliente: %s", meta.ClientName)))
	if meta.ProjectName != "" {
		blocks = append(blocks, textLine(fmt.Sprintf("Projeto: %s", meta.ProjectName)))
	}
	blocks = append(blocks, textLine(fmt.Sprintf("Data: %s", meta.ProposalDate.Format("02/01/2006"))))
	blocks = append(blocks, spacer(gapHeight))

	// --- Issuer ---
	for _, section := range doc.Issuer.Sections() {
		blocks = append(blocks, LayoutBlock{Kind: BlockHeading, Height: headingHeight, Text: section.Title, Accent: accent})
		for _, line := range section.Lines {
			blocks = append(blocks, textLine(fmt.Sprintf("%s: %s", line.Label, line.Value)))
		}
		blocks = append(blocks, spacer(gapHeight))
	}

	// --- Items ---
	blocks = append(blocks, LayoutBlock{Kind: BlockHeading, Height: headingHeight, Text: "Itens da Proposta", Accent: accent})
	blocks = append(blocks, itemTable(doc.Items, accent)...)

	// --- Total ---
	blocks = append(blocks, LayoutBlock{
		Kind:   BlockTotal,
		Height: totalHeight,
		Text:   fmt.Sprintf("%s: %s", GrandTotalLabel, FormatBRLSymbol(doc.GrandTotal)),
		Accent: accent,
	})
	blocks = append(blocks, spacer(gapHeight))

	// --- Commercial terms ---
	blocks = append(blocks, LayoutBlock{Kind: BlockHeading, Height: headingHeight, Text: "Condições Comerciais", Accent: accent})
	blocks = append(blocks,
		textLine(fmt.Sprintf("Validade da proposta: %s", meta.ValidityPeriod)),
		textLine(fmt.Sprintf("Condições de pagamento: %s", meta.PaymentTerms)),
		textLine(fmt.Sprintf("Prazo de entrega: %s", meta.DeliveryTerms)),
		textLine(TaxDisclosureLine),
	)
	blocks = append(blocks, spacer(gapHeight*2))

	// --- Closing ---
	blocks = append(blocks, textLine(ClosingSentence(doc.Issuer.City, meta.ProposalDate)))
	blocks = append(blocks, spacer(gapHeight))
	blocks = append(blocks, imageOrSpacer(custom.Signature, signatureHeight))
	blocks = append(blocks, textLine(doc.Issuer.SignatoryName))
	if doc.Issuer.SignatoryRole != "" {
		blocks = append(blocks, textLine(doc.Issuer.SignatoryRole))
	}
	blocks = append(blocks, textLine(doc.Issuer.CompanyName))

	return blocks
}

// itemTable returns the header and body rows, or the no-items line.
func itemTable(items []SnapshotItem, accent RGB) []LayoutBlock {
	if len(items) == 0 {
		return []LayoutBlock{textLine(NoItemsLine)}
	}

	widths := ColumnWidths(ItemTableHeaders, LayoutGridSize)

	header := LayoutBlock{Kind: BlockTableHeader, Height: tableRowHeight, Accent: accent}
	for i, h := range ItemTableHeaders {
		header.Cells = append(header.Cells, LayoutCell{Text: h, Width: widths[i], Align: columnAlign(h)})
	}

	blocks := []LayoutBlock{header}
	for _, item := range items {
		values := []string{
			item.Description,
			item.Notes,
			formatQty(item.Quantity),
			FormatBRL(item.UnitPrice),
			FormatBRL(item.LineTotal),
		}
		row := LayoutBlock{Kind: BlockTableRow, Height: tableRowHeight}
		for i, v := range values {
			row.Cells = append(row.Cells, LayoutCell{Text: v, Width: widths[i], Align: columnAlign(ItemTableHeaders[i])})
		}
		blocks = append(blocks, row)
	}
	return blocks
}

// ColumnFractions returns the share of the usable width each header gets.
// Known columns get their fixed share, anything else the fallback share, and
// the result is normalised to sum to 1.
func ColumnFractions(headers []string) []float64 {
	fractions := make([]float64, len(headers))
	var sum float64
	for i, h := range headers {
		fractions[i] = columnShare(h)
		sum += fractions[i]
	}
	if sum == 0 {
		return fractions
	}
	for i := range fractions {
		fractions[i] /= sum
	}
	return fractions
}

// ColumnWidths distributes grid columns across headers by ColumnFractions.
// Rounding uses the largest remainder so widths always add up to grid.
func ColumnWidths(headers []string, grid int) []int {
	fractions := ColumnFractions(headers)
	widths := make([]int, len(fractions))
	if len(fractions) == 0 {
		return widths
	}

	type remainder struct {
		idx  int
		frac float64
	}
	rems := make([]remainder, len(fractions))
	used := 0
	for i, f := range fractions {
		exact := f * float64(grid)
		widths[i] = int(math.Floor(exact + 1e-9))
		used += widths[i]
		rems[i] = remainder{i, exact - float64(widths[i])}
	}
	sort.SliceStable(rems, func(a, b int) bool { return rems[a].frac > rems[b].frac })
	for i := 0; used < grid; i = (i + 1) % len(rems) {
		widths[rems[i].idx]++
		used++
	}
	return widths
}

func columnShare(header string) float64 {
	if share, ok := matchColumn(header); ok {
		return share
	}
	return fallbackColumnShare
}

func matchColumn(header string) (float64, bool) {
	h := strings.ToLower(header)
	for _, c := range columnShares {
		for _, p := range c.patterns {
			if strings.Contains(h, p) {
				return c.share, true
			}
		}
	}
	return 0, false
}

// columnAlign left-aligns the text columns and centres everything else.
func columnAlign(header string) CellAlign {
	h := strings.ToLower(header)
	for _, c := range columnShares {
		for _, p := range c.patterns {
			if strings.Contains(h, p) {
				if c.numeric {
					return AlignCenter
				}
				return AlignLeft
			}
		}
	}
	return AlignCenter
}

// ClosingSentence renders "<city>, 15 de outubro de 2026."
func ClosingSentence(city string, date time.Time) string {
	return fmt.Sprintf("%s, %s.", city, FormatLongDate(date))
}

// FormatLongDate renders a date as "15 de outubro de 2026".
func FormatLongDate(date time.Time) string {
	return fmt.Sprintf("%d de %s de %d", date.Day(), portugueseMonths[date.Month()-1], date.Year())
}

// formatQty shows the quantity as entered: whole numbers without decimals,
// fractional values with the digits they carry.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return strconv.FormatFloat(qty, 'f', -1, 64)
}

func imageOrSpacer(asset *ImageAsset, height float64) LayoutBlock {
	if png, ok := LoadImageAsset(asset); ok {
		return LayoutBlock{Kind: BlockImage, Height: height, Image: png}
	}
	return spacer(height)
}

func textLine(s string) LayoutBlock {
	return LayoutBlock{Kind: BlockText, Height: lineHeight, Text: s}
}

func spacer(height float64) LayoutBlock {
	return LayoutBlock{Kind: BlockSpacer, Height: height}
}
