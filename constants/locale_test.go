package constants

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrencyForToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
		found bool
	}{
		{name: "thai baht symbol", token: "฿", want: "THB", found: true},
		{name: "thai baht word", token: "บาท", want: "THB", found: true},
		{name: "iso code lowercase", token: "thb", want: "THB", found: true},
		{name: "dollar sign", token: "$", want: "USD", found: true},
		{name: "euro sign", token: "€", want: "EUR", found: true},
		{name: "trailing period stripped", token: "USD.", want: "USD", found: true},
		{name: "padded token", token: " GBP ", want: "GBP", found: true},
		{name: "unknown token", token: "pcs", found: false},
		{name: "empty", token: "", found: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CurrencyForToken(tt.token)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeThaiDigits(t *testing.T) {
	assert.Equal(t, "15 2566", NormalizeThaiDigits("๑๕ ๒๕๖๖"))
	assert.Equal(t, "no digits", NormalizeThaiDigits("no digits"))
	assert.Equal(t, "", NormalizeThaiDigits(""))
}

func TestMonthForName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Month
		found bool
	}{
		{name: "thai full", input: "พฤษภาคม", want: time.May, found: true},
		{name: "thai abbreviated with period", input: "พ.ค.", want: time.May, found: true},
		{name: "thai abbreviated without period", input: "ธ.ค", want: time.December, found: true},
		{name: "english full mixed case", input: "January", want: time.January, found: true},
		{name: "english abbreviation", input: "sep", want: time.September, found: true},
		{name: "unknown", input: "Smarch", found: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MonthForName(tt.input)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLocaleCurrencyForName(t *testing.T) {
	code, ok := LocaleCurrencyForName("บริษัท ทดสอบ จำกัด")
	assert.True(t, ok)
	assert.Equal(t, "THB", code)

	code, ok = LocaleCurrencyForName("Acme Co., Ltd. (Thailand)")
	assert.True(t, ok)
	assert.Equal(t, "THB", code)

	_, ok = LocaleCurrencyForName("Globex Inc.")
	assert.False(t, ok)
}

func TestCanonicalizeDocumentType(t *testing.T) {
	tests := []struct {
		input string
		want  DocumentType
		found bool
	}{
		{input: "invoice", want: DocTypeInvoice, found: true},
		{input: "Invoice", want: DocTypeInvoice, found: true},
		{input: " EXPENSE_REPORT ", want: DocTypeExpenseReport, found: true},
		{input: "expense-report", want: DocTypeExpenseReport, found: true},
		{input: "tax invoice", want: DocTypeInvoice, found: true},
		{input: "structured_invoice", want: DocTypeStructuredInvoice, found: true},
		{input: "warranty_card", found: false},
		{input: "", found: false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := CanonicalizeDocumentType(tt.input)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
