package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column headers of the item spreadsheet. Matching is case-sensitive.
const (
	ColumnProduct   = "Produto"
	ColumnQuantity  = "Quant."
	ColumnUnitPrice = "Preço Unit."
	ColumnNotes     = "Observações"
)

// RequiredImportColumns lists the columns every import file must carry.
var RequiredImportColumns = []string{ColumnProduct, ColumnQuantity, ColumnUnitPrice}

var (
	ErrImportUnreadable    = errors.New("arquivo inválido")
	ErrImportSchemaInvalid = errors.New("colunas obrigatórias ausentes")
)

// ImportErrorKind classifies why an import was rejected.
type ImportErrorKind int

const (
	ImportUnreadable ImportErrorKind = iota + 1
	ImportSchemaInvalid
)

// ImportError is returned by ImportLineItems. Its message is meant to be shown
// to the user as-is.
type ImportError struct {
	Kind ImportErrorKind
	// Required is the full required-column set, sorted.
	Required []string
	// Missing holds the required columns absent from the file.
	Missing []string
	Err     error
}

func (e *ImportError) Error() string {
	switch e.Kind {
	case ImportSchemaInvalid:
		return fmt.Sprintf("a planilha deve conter as colunas: %s", strings.Join(e.Required, ", "))
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", ErrImportUnreadable, e.Err)
		}
		return ErrImportUnreadable.Error()
	}
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the kind sentinels.
func (e *ImportError) Is(target error) bool {
	switch target {
	case ErrImportUnreadable:
		return e.Kind == ImportUnreadable
	case ErrImportSchemaInvalid:
		return e.Kind == ImportSchemaInvalid
	}
	return false
}

// ImportLineItems parses an uploaded spreadsheet into line items. Files named
// *.csv are read as CSV; everything else is opened as an Excel workbook.
// Returned items carry no ids; the store assigns them on ReplaceAll.
func ImportLineItems(r io.Reader, fileName string) ([]LineItem, error) {
	var headers []string
	var dataRows [][]string
	var err error

	if strings.HasSuffix(strings.ToLower(fileName), ".csv") {
		headers, dataRows, err = parseItemCSV(r)
	} else {
		headers, dataRows, err = parseItemExcel(r)
	}
	if err != nil {
		return nil, &ImportError{Kind: ImportUnreadable, Err: err}
	}

	columns, missing := locateColumns(headers)
	if len(missing) > 0 {
		return nil, &ImportError{
			Kind:     ImportSchemaInvalid,
			Required: sortedRequiredColumns(),
			Missing:  missing,
		}
	}

	items := make([]LineItem, 0, len(dataRows))
	for _, row := range dataRows {
		items = append(items, LineItem{
			Description: cellText(row, columns[ColumnProduct]),
			Quantity:    ParseLenientNumber(cellText(row, columns[ColumnQuantity])),
			UnitPrice:   ParseLenientNumber(cellText(row, columns[ColumnUnitPrice])),
			Notes:       cellText(row, columns[ColumnNotes]),
		})
	}
	return items, nil
}

// parseItemCSV reads a CSV file and returns headers + data rows. A leading
// UTF-8 BOM is dropped and the delimiter is taken from the header line, so
// files saved by a Brazilian-locale Excel (";") load as well.
func parseItemCSV(r io.Reader) ([]string, [][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectCSVDelimiter(data)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) == 0 {
		return nil, nil, fmt.Errorf("file has no header row")
	}
	return allRows[0], allRows[1:], nil
}

var utf8BOM = []byte("\xef\xbb\xbf")

// detectCSVDelimiter picks ";" when the header line has more semicolons than
// commas outside quotes, and "," otherwise.
func detectCSVDelimiter(data []byte) rune {
	header := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}
	var commas, semicolons int
	inQuotes := false
	for _, c := range header {
		switch c {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				commas++
			}
		case ';':
			if !inQuotes {
				semicolons++
			}
		}
	}
	if semicolons > commas {
		return ';'
	}
	return ','
}

// parseItemExcel reads the first sheet of an xlsx file and returns headers +
// data rows. Cell values are read raw so numbers keep their stored precision;
// numeric cells are then written with a decimal comma so ParseLenientNumber
// cannot mistake "1.234" for thousands grouping.
func parseItemExcel(r io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("file has no header row")
	}

	for r := 1; r < len(rows); r++ {
		for c, raw := range rows[r] {
			if raw == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, nil, fmt.Errorf("cell name: %w", err)
			}
			typ, err := f.GetCellType(sheetName, cell)
			if err != nil {
				return nil, nil, fmt.Errorf("cell type %s: %w", cell, err)
			}
			if typ != excelize.CellTypeNumber && typ != excelize.CellTypeUnset {
				continue
			}
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				rows[r][c] = strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
			}
		}
	}
	return rows[0], rows[1:], nil
}

// locateColumns maps each known column name to its index. Required columns
// that are absent are returned in sorted order; an absent notes column maps
// to -1.
func locateColumns(headers []string) (map[string]int, []string) {
	columns := map[string]int{
		ColumnProduct:   -1,
		ColumnQuantity:  -1,
		ColumnUnitPrice: -1,
		ColumnNotes:     -1,
	}
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if idx, ok := columns[name]; ok && idx == -1 {
			columns[name] = i
		}
	}

	var missing []string
	for _, name := range RequiredImportColumns {
		if columns[name] == -1 {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return columns, missing
}

func sortedRequiredColumns() []string {
	required := append([]string(nil), RequiredImportColumns...)
	sort.Strings(required)
	return required
}

func cellText(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ParseLenientNumber coerces a cell into a non-negative number. Blank,
// negative or unparseable cells become 0. An "R$" prefix is ignored.
//
// Separators are resolved for Brazilian input first:
//   - with both "." and "," present, the last one is the decimal mark and the
//     other must be well-formed thousands grouping ("1.234,56", "1,234.56");
//   - a lone "," is the decimal mark ("25,50");
//   - a lone "." followed by groups of exactly three digits is thousands
//     grouping ("1.234", "1.234.567"), otherwise the decimal mark ("25.50");
//   - anything else is ambiguous and becomes 0.
func ParseLenientNumber(s string) float64 {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), currencySymbol))
	if s == "" || strings.HasPrefix(s, "-") {
		return 0
	}
	normalized, ok := normalizeDecimal(s)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0
	}
	return nonNegative(v)
}

var (
	dotGrouped   = regexp.MustCompile(`^[1-9]\d{0,2}(\.\d{3})+$`)
	commaGrouped = regexp.MustCompile(`^[1-9]\d{0,2}(,\d{3})+$`)
	digitsOnly   = regexp.MustCompile(`^\d+$`)
)

// normalizeDecimal rewrites s with "." as the only separator, used as the
// decimal mark. ok is false when s cannot be read unambiguously.
func normalizeDecimal(s string) (string, bool) {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		decimalAt, group, grouped := lastComma, ".", dotGrouped
		if lastDot > lastComma {
			decimalAt, group, grouped = lastDot, ",", commaGrouped
		}
		intPart, frac := s[:decimalAt], s[decimalAt+1:]
		if !digitsOnly.MatchString(frac) {
			return "", false
		}
		if !grouped.MatchString(intPart) && !digitsOnly.MatchString(intPart) {
			return "", false
		}
		return strings.ReplaceAll(intPart, group, "") + "." + frac, true

	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			if commaGrouped.MatchString(s) {
				return strings.ReplaceAll(s, ",", ""), true
			}
			return "", false
		}
		intPart, frac := s[:lastComma], s[lastComma+1:]
		if !digitsOnly.MatchString(intPart) || !digitsOnly.MatchString(frac) {
			return "", false
		}
		return intPart + "." + frac, true

	case lastDot >= 0:
		if dotGrouped.MatchString(s) {
			return strings.ReplaceAll(s, ".", ""), true
		}
		if strings.Count(s, ".") > 1 {
			return "", false
		}
		intPart, frac := s[:lastDot], s[lastDot+1:]
		if !digitsOnly.MatchString(intPart) || !digitsOnly.MatchString(frac) {
			return "", false
		}
		return s, true
	}

	if !digitsOnly.MatchString(s) {
		return "", false
	}
	return s, true
}
