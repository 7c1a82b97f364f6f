// Package services provides the proposal domain: line items, pricing,
// spreadsheet import/export, the document model and its PDF rendering.
package services

import "github.com/shopspring/decimal"

// CalcLineTotal returns quantity * unitPrice. Totals are never stored; every
// read goes through here.
func CalcLineTotal(quantity, unitPrice float64) float64 {
	return quantity * unitPrice
}

// CalcGrandTotal sums the line totals in sequence order. The sum is carried in
// decimal so no rounding happens until the value is formatted.
func CalcGrandTotal(items []SnapshotItem) float64 {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(decimal.NewFromFloat(item.LineTotal))
	}
	return sum.InexactFloat64()
}
