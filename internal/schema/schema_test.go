package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqc/constants"
)

func TestForType(t *testing.T) {
	for _, dt := range []constants.DocumentType{
		constants.DocTypeInvoice,
		constants.DocTypeStructuredInvoice,
		constants.DocTypeExpenseReport,
		constants.DocTypeGeneric,
	} {
		s, ok := ForType(dt)
		require.True(t, ok, "no schema for %s", dt)
		assert.Equal(t, dt, s.DocType)
		assert.NotEmpty(t, s.Required)
	}

	_, ok := ForType("warranty_card")
	assert.False(t, ok)
}

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		rec      Record
		hint     constants.DocumentType
		wantType constants.DocumentType
		wantOK   bool
	}{
		{
			"record field wins over hint",
			Record{"document_type": "expense_report"},
			constants.DocTypeInvoice,
			constants.DocTypeExpenseReport, true,
		},
		{
			"synonym canonicalized",
			Record{"document_type": "Tax_Invoice"},
			"",
			constants.DocTypeInvoice, true,
		},
		{
			"hint covers absent field",
			Record{"total_amount": 10.0},
			constants.DocTypeGeneric,
			constants.DocTypeGeneric, true,
		},
		{
			"unknown field value fails even with hint",
			Record{"document_type": "warranty_card"},
			constants.DocTypeInvoice,
			"", false,
		},
		{
			"non-string field value fails",
			Record{"document_type": 7.0},
			constants.DocTypeInvoice,
			"", false,
		},
		{
			"nothing to go on",
			Record{"total_amount": 10.0},
			"",
			"", false,
		},
		{
			"nil record with hint",
			nil,
			constants.DocTypeInvoice,
			constants.DocTypeInvoice, true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := Resolve(tt.rec, tt.hint)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				require.NotNil(t, s)
				assert.Equal(t, tt.wantType, s.DocType)
			}
		})
	}
}

func TestGenericSchemaIsLenient(t *testing.T) {
	generic, ok := ForType(constants.DocTypeGeneric)
	require.True(t, ok)
	assert.True(t, generic.LenientNumbers)

	invoice, ok := ForType(constants.DocTypeInvoice)
	require.True(t, ok)
	assert.False(t, invoice.LenientNumbers)
	// The generic tables are the invoice tables.
	assert.Equal(t, invoice.Required, generic.Required)
}

func TestFieldTypeOf(t *testing.T) {
	s, _ := ForType(constants.DocTypeInvoice)

	ft, ok := s.FieldTypeOf("invoice_number")
	require.True(t, ok)
	assert.Equal(t, TypeText, ft)

	ft, ok = s.FieldTypeOf("due_date")
	require.True(t, ok)
	assert.Equal(t, TypeDate, ft)

	_, ok = s.FieldTypeOf("no_such_field")
	assert.False(t, ok)

	assert.True(t, s.IsRequired("total_amount"))
	assert.False(t, s.IsRequired("due_date"))
}

func TestBuildJSONSchema(t *testing.T) {
	m, ok := BuildJSONSchema(constants.DocTypeInvoice)
	require.True(t, ok)
	assert.Equal(t, "object", m["type"])
	assert.Equal(t, true, m["additionalProperties"])

	props := m["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "number"}, props["total_amount"])
	assert.Equal(t, map[string]any{"type": "string"}, props["invoice_date"])
	assert.Equal(t, map[string]any{"type": "array"}, props["line_items"])

	required := m["required"].([]string)
	assert.ElementsMatch(t, []string{"invoice_number", "invoice_date", "total_amount"}, required)

	// Lenient types accept numeric strings.
	m, ok = BuildJSONSchema(constants.DocTypeGeneric)
	require.True(t, ok)
	props = m["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": []string{"number", "string"}}, props["total_amount"])

	_, ok = BuildJSONSchema("warranty_card")
	assert.False(t, ok)
}

func TestValidateShape(t *testing.T) {
	good := []byte(`{
		"invoice_number": "INV-1",
		"invoice_date": "2023-05-15",
		"total_amount": 110.0,
		"extra_key": "tolerated"
	}`)
	assert.NoError(t, ValidateShape(constants.DocTypeInvoice, good))

	wrongType := []byte(`{
		"invoice_number": "INV-1",
		"invoice_date": "2023-05-15",
		"total_amount": "110.0"
	}`)
	assert.Error(t, ValidateShape(constants.DocTypeInvoice, wrongType))
	// The generic shape tolerates the stringified number.
	assert.NoError(t, ValidateShape(constants.DocTypeGeneric, wrongType))

	missingRequired := []byte(`{"invoice_date": "2023-05-15"}`)
	assert.Error(t, ValidateShape(constants.DocTypeInvoice, missingRequired))

	assert.Error(t, ValidateShape(constants.DocTypeInvoice, []byte(`not json`)))
	assert.Error(t, ValidateShape("warranty_card", good))
}
