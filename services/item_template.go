package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// templateSheetName is the sheet written into the downloadable import template.
const templateSheetName = "Itens"

// templateExampleRows reproduce the import contract with three sample products.
var templateExampleRows = []LineItem{
	{Description: "Produto A", Quantity: 10, UnitPrice: 25.50},
	{Description: "Produto B", Quantity: 5, UnitPrice: 100.00},
	{Description: "Produto C", Quantity: 2, UnitPrice: 350.75},
}

// GenerateItemTemplate creates the downloadable .xlsx template for item import.
func GenerateItemTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, templateSheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	// --- Styles ---
	requiredHeaderStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{DefaultAccentColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	optionalHeaderStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create optional header style: %w", err)
	}
	priceStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return nil, fmt.Errorf("create price style: %w", err)
	}

	// --- Header row ---
	headers := []struct {
		name     string
		width    float64
		required bool
	}{
		{ColumnProduct, 35, true},
		{ColumnQuantity, 10, true},
		{ColumnUnitPrice, 14, true},
		{ColumnNotes, 40, false},
	}
	columns := columnLetters(len(headers))
	for i, h := range headers {
		cell := columns[i] + "1"
		f.SetCellValue(templateSheetName, cell, h.name)
		style := optionalHeaderStyle
		if h.required {
			style = requiredHeaderStyle
		}
		f.SetCellStyle(templateSheetName, cell, cell, style)
		f.SetColWidth(templateSheetName, columns[i], columns[i], h.width)
	}

	// --- Example rows ---
	for i, item := range templateExampleRows {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(templateSheetName, "A"+row, item.Description)
		f.SetCellValue(templateSheetName, "B"+row, item.Quantity)
		f.SetCellValue(templateSheetName, "C"+row, item.UnitPrice)
		f.SetCellStyle(templateSheetName, "C"+row, "C"+row, priceStyle)
		f.SetCellValue(templateSheetName, "D"+row, item.Notes)
	}

	// Freeze header row
	f.SetPanes(templateSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}
