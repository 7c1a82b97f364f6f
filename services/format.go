package services

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// currencySymbol prefixes amounts shown in summary contexts.
const currencySymbol = "R$"

// FormatBRL formats a float64 amount using the Brazilian convention: "." as the
// thousands separator and "," as the decimal separator (e.g. 1.234,50).
// The result always carries exactly 2 decimal places and no currency symbol,
// which is how amounts appear inside table cells.
func FormatBRL(amount float64) string {
	return FormatMoney(amount, false)
}

// FormatBRLSymbol is FormatBRL with the "R$ " prefix used in totals and summaries.
func FormatBRLSymbol(amount float64) string {
	return FormatMoney(amount, true)
}

// FormatMoney formats any numeric value in Brazilian notation. Values that are
// not numbers (strings, nil, NaN, ±Inf) are returned as their own text instead
// of failing.
func FormatMoney(v any, withSymbol bool) string {
	d, ok := toDecimal(v)
	if !ok {
		return fmt.Sprint(v)
	}
	formatted := formatDecimalBRL(d)
	if withSymbol {
		return currencySymbol + " " + formatted
	}
	return formatted
}

// toDecimal converts the numeric kinds FormatMoney accepts.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(n), true
	case float32:
		f := float64(n)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int8:
		return decimal.NewFromInt(int64(n)), true
	case int16:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(n)), 0), true
	case uint8:
		return decimal.NewFromInt(int64(n)), true
	case uint16:
		return decimal.NewFromInt(int64(n)), true
	case uint32:
		return decimal.NewFromInt(int64(n)), true
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0), true
	case decimal.Decimal:
		return n, true
	}
	return decimal.Zero, false
}

// formatDecimalBRL rounds d to 2 places and applies Brazilian grouping.
func formatDecimalBRL(d decimal.Decimal) string {
	raw := d.StringFixed(2)

	negative := strings.HasPrefix(raw, "-")
	raw = strings.TrimPrefix(raw, "-")

	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	result := applyThousandsGrouping(intPart) + "," + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// applyThousandsGrouping inserts "." between every group of three digits,
// counting from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
