package services

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatBRL_Values(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"zero", 0, "0,00"},
		{"small integer", 5, "5,00"},
		{"with decimals", 42.5, "42,50"},
		{"hundreds", 999.99, "999,99"},
		{"thousands", 1234.5, "1.234,50"},
		{"ten thousands", 12345, "12.345,00"},
		{"hundred thousands", 123456.78, "123.456,78"},
		{"millions", 1234567.89, "1.234.567,89"},
		{"billions", 1234567890, "1.234.567.890,00"},
		{"negative small", -5.5, "-5,50"},
		{"negative thousands", -250000.5, "-250.000,50"},
		{"exact thousand boundary", 1000, "1.000,00"},
		{"rounds half up", 1.005, "1,01"},
		{"rounds down", 2.344, "2,34"},
		{"tiny negative rounds to zero", -0.001, "0,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBRL(tt.input)
			if got != tt.expect {
				t.Errorf("FormatBRL(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestFormatBRLSymbol(t *testing.T) {
	if got := FormatBRLSymbol(1650); got != "R$ 1.650,00" {
		t.Errorf("FormatBRLSymbol(1650) = %q, want %q", got, "R$ 1.650,00")
	}
	if got := FormatBRLSymbol(-5.5); got != "R$ -5,50" {
		t.Errorf("FormatBRLSymbol(-5.5) = %q, want %q", got, "R$ -5,50")
	}
}

func TestFormatMoney_Fallback(t *testing.T) {
	tests := []struct {
		name       string
		input      any
		withSymbol bool
		expect     string
	}{
		{"int", 1234, false, "1.234,00"},
		{"int with symbol", 10, true, "R$ 10,00"},
		{"uint64", uint64(2500), false, "2.500,00"},
		{"float32", float32(0.5), false, "0,50"},
		{"decimal", decimal.RequireFromString("1234.567"), false, "1.234,57"},
		{"text", "a combinar", true, "a combinar"},
		{"numeric text stays text", "12.5", false, "12.5"},
		{"nil", nil, false, "<nil>"},
		{"NaN", math.NaN(), true, "NaN"},
		{"infinity", math.Inf(1), false, "+Inf"},
		{"bool", true, false, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatMoney(tt.input, tt.withSymbol)
			if got != tt.expect {
				t.Errorf("FormatMoney(%v, %v) = %q, want %q", tt.input, tt.withSymbol, got, tt.expect)
			}
		})
	}
}

func TestApplyThousandsGrouping(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"5", "5"},
		{"42", "42"},
		{"999", "999"},
		{"1234", "1.234"},
		{"12345", "12.345"},
		{"123456", "123.456"},
		{"1234567", "1.234.567"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := applyThousandsGrouping(tt.input)
			if got != tt.expect {
				t.Errorf("applyThousandsGrouping(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}
