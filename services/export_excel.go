package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const proposalSheetName = "Proposta"

// GenerateProposalExcel writes the proposal as a single-sheet workbook with
// the client block, the item table with numeric cells, the grand total and
// the commercial terms. The title and table header use the accent colour.
func GenerateProposalExcel(doc ProposalDocument, custom Customization) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), proposalSheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	sheet := proposalSheetName

	columns := []string{"A", "B", "C", "D", "E"}
	lastCol := columns[len(columns)-1]

	widths := []float64{40, 30, 10, 16, 18}
	for i, col := range columns {
		if err := f.SetColWidth(sheet, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	accent := custom.AccentHex()

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16, Color: accent},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{accent},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	textStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create text style: %w", err)
	}

	// NumFmt 4 is the built-in "#,##0.00".
	numberStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		NumFmt:    4,
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create number style: %w", err)
	}

	qtyStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create quantity style: %w", err)
	}

	totalLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create total label style: %w", err)
	}

	totalValueStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		NumFmt:    4,
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create total value style: %w", err)
	}

	// ── Client block (rows 1-4) ─────────────────────────────────────────

	meta := doc.Metadata
	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheet, "A1", ProposalTitle)
	f.SetCellStyle(sheet, "A1", lastCol+"1", titleStyle)

	info := [][2]string{
		{"Cliente", meta.ClientName},
		{"Projeto", meta.ProjectName},
		{"Data", meta.ProposalDate.Format("02/01/2006")},
	}
	for i, kv := range info {
		r := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), kv[0]+":")
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), sanitizeExcelCell(kv[1]))
	}

	// ── Item table (header on row 6) ────────────────────────────────────

	const headerRow = 6
	for i, h := range ItemTableHeaders {
		f.SetCellValue(sheet, fmt.Sprintf("%s%d", columns[i], headerRow), h)
	}
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), headerStyle)

	row := headerRow + 1
	if len(doc.Items) == 0 {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), NoItemsLine)
		row++
	}
	for _, item := range doc.Items {
		rs := fmt.Sprintf("%d", row)
		f.SetCellValue(sheet, "A"+rs, sanitizeExcelCell(item.Description))
		f.SetCellValue(sheet, "B"+rs, sanitizeExcelCell(item.Notes))
		f.SetCellValue(sheet, "C"+rs, item.Quantity)
		f.SetCellValue(sheet, "D"+rs, item.UnitPrice)
		f.SetCellValue(sheet, "E"+rs, item.LineTotal)

		f.SetCellStyle(sheet, "A"+rs, "B"+rs, textStyle)
		f.SetCellStyle(sheet, "C"+rs, "C"+rs, qtyStyle)
		f.SetCellStyle(sheet, "D"+rs, "E"+rs, numberStyle)
		row++
	}

	// ── Grand total ─────────────────────────────────────────────────────

	row++
	rs := fmt.Sprintf("%d", row)
	f.SetCellValue(sheet, "D"+rs, GrandTotalLabel+" (R$):")
	f.SetCellStyle(sheet, "D"+rs, "D"+rs, totalLabelStyle)
	f.SetCellValue(sheet, "E"+rs, doc.GrandTotal)
	f.SetCellStyle(sheet, "E"+rs, "E"+rs, totalValueStyle)

	// ── Commercial terms ────────────────────────────────────────────────

	row += 2
	terms := [][2]string{
		{"Validade da proposta", meta.ValidityPeriod},
		{"Condições de pagamento", meta.PaymentTerms},
		{"Prazo de entrega", meta.DeliveryTerms},
	}
	for _, kv := range terms {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), kv[0]+":")
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), sanitizeExcelCell(kv[1]))
		row++
	}
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), TaxDisclosureLine)

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prefixes a single quote to text starting with a character
// Excel would read as the start of a formula.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin black borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
