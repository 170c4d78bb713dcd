package schema

import (
	"regexp"

	"docqc/constants"
)

// Record is the universal semi-structured document shape as decoded from
// JSON: values are nil, bool, float64, string, []any or map[string]any.
type Record = map[string]any

// FieldType is the semantic type a schema expects for a field.
type FieldType string

const (
	TypeText   FieldType = "text"
	TypeNumber FieldType = "number"
	TypeDate   FieldType = "date"
	TypeArray  FieldType = "array"
	TypeObject FieldType = "object"
)

// Constraint bounds a numeric field. Nil means unbounded on that side.
type Constraint struct {
	Min *float64
	Max *float64
}

// LogicalCheck names a cross-field consistency rule. Fields lists the record
// keys that must all be present and non-null for the check to apply.
type LogicalCheck struct {
	Name    string
	Fields  []string
	Message string
}

// Schema is the static rule table for one document type. Schemas are built
// once at package init and never mutated; concurrent readers are safe.
type Schema struct {
	DocType constants.DocumentType

	Required map[string]FieldType
	Optional map[string]FieldType

	// Important fields are not required but weigh on the confidence score.
	Important          []string
	ExpectedFieldCount int

	Formats      map[string]*regexp.Regexp
	Constraints  map[string]Constraint
	Placeholders map[string]*regexp.Regexp

	Checks []LogicalCheck

	// Normalization routing.
	NumericFields  map[string]bool
	DateFields     map[string]bool
	LineItemsField string

	// Header fields recomputed from line items.
	SubtotalField string
	TaxField      string
	TotalField    string
	DiscountField string

	// Party-name fields inspected for locale markers when no currency was
	// discovered anywhere else.
	CurrencySourceFields []string

	// LenientNumbers accepts numeric strings where TypeNumber is declared.
	LenientNumbers bool
}

// FieldTypeOf looks a field up across the required and optional tables.
func (s *Schema) FieldTypeOf(field string) (FieldType, bool) {
	if ft, ok := s.Required[field]; ok {
		return ft, true
	}
	ft, ok := s.Optional[field]
	return ft, ok
}

// IsRequired reports whether the schema requires the field.
func (s *Schema) IsRequired(field string) bool {
	_, ok := s.Required[field]
	return ok
}

var registry = map[constants.DocumentType]*Schema{
	constants.DocTypeInvoice:           invoiceSchema,
	constants.DocTypeStructuredInvoice: structuredInvoiceSchema,
	constants.DocTypeExpenseReport:     expenseReportSchema,
	constants.DocTypeGeneric:           genericSchema,
}

// ForType returns the immutable schema for a document type.
func ForType(dt constants.DocumentType) (*Schema, bool) {
	s, ok := registry[dt]
	return s, ok
}

// Resolve picks the document type for a record: the record's own
// document_type field wins (case-insensitive), the caller hint covers an
// absent field, and anything else is unresolvable.
func Resolve(rec Record, hint constants.DocumentType) (*Schema, bool) {
	if rec != nil {
		if raw, ok := rec["document_type"]; ok {
			str, isStr := raw.(string)
			if !isStr {
				return nil, false
			}
			dt, known := constants.CanonicalizeDocumentType(str)
			if !known {
				return nil, false
			}
			s, found := ForType(dt)
			return s, found
		}
	}
	if hint != "" {
		s, found := ForType(hint)
		return s, found
	}
	return nil, false
}
