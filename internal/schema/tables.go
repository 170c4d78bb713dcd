package schema

import (
	"regexp"

	"docqc/constants"
)

var (
	reISODate       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reInvoiceNumber = regexp.MustCompile(`^[\w\-\/\.]+$`)

	rePlaceholderID   = regexp.MustCompile(`(?i)^(N\/A|Unknown|TBD|0+)$`)
	rePlaceholderName = regexp.MustCompile(`(?i)^(N\/A|Unknown|TBD|None)$`)
)

var zero = 0.0

func nonNegative() Constraint {
	return Constraint{Min: &zero}
}

var invoiceSchema = &Schema{
	DocType: constants.DocTypeInvoice,

	Required: map[string]FieldType{
		"invoice_number": TypeText,
		"invoice_date":   TypeDate,
		"total_amount":   TypeNumber,
	},
	Optional: map[string]FieldType{
		"due_date":      TypeDate,
		"subtotal":      TypeNumber,
		"tax_amount":    TypeNumber,
		"discount":      TypeNumber,
		"line_items":    TypeArray,
		"vendor_name":   TypeText,
		"client_name":   TypeText,
		"payment_terms": TypeText,
		"currency":      TypeText,
	},
	Important:          []string{"vendor_name", "due_date", "subtotal", "tax_amount", "line_items"},
	ExpectedFieldCount: 10,

	Formats: map[string]*regexp.Regexp{
		"invoice_date":   reISODate,
		"due_date":       reISODate,
		"invoice_number": reInvoiceNumber,
	},
	Constraints: map[string]Constraint{
		"total_amount": nonNegative(),
		"subtotal":     nonNegative(),
		"tax_amount":   nonNegative(),
	},
	Placeholders: map[string]*regexp.Regexp{
		"invoice_number": rePlaceholderID,
		"vendor_name":    rePlaceholderName,
		"client_name":    rePlaceholderName,
	},

	Checks: []LogicalCheck{
		{
			Name:    "dates_chronology",
			Fields:  []string{"invoice_date", "due_date"},
			Message: "Due date must be on or after invoice date",
		},
		{
			Name:    "amount_calculation",
			Fields:  []string{"subtotal", "tax_amount", "total_amount"},
			Message: "Total amount should equal subtotal plus tax amount",
		},
		{
			Name:    "line_items_sum",
			Fields:  []string{"line_items", "subtotal"},
			Message: "Line items should sum to subtotal",
		},
	},

	NumericFields: map[string]bool{
		"total_amount": true,
		"subtotal":     true,
		"tax_amount":   true,
		"discount":     true,
	},
	DateFields: map[string]bool{
		"invoice_date": true,
		"due_date":     true,
	},
	LineItemsField: "line_items",
	SubtotalField:  "subtotal",
	TaxField:       "tax_amount",
	TotalField:     "total_amount",
	DiscountField:  "discount",

	CurrencySourceFields: []string{"vendor_name", "client_name"},
}

var structuredInvoiceSchema = &Schema{
	DocType: constants.DocTypeStructuredInvoice,

	Required: map[string]FieldType{
		"invoice_number":     TypeText,
		"invoice_date":       TypeDate,
		"vendor_information": TypeObject,
		"item_details":       TypeArray,
		"total_amount":       TypeNumber,
	},
	Optional: map[string]FieldType{
		"buyer_information": TypeObject,
		"due_date":          TypeDate,
		"subtotal":          TypeNumber,
		"tax_amount":        TypeNumber,
		"discount":          TypeNumber,
		"payment_terms":     TypeText,
		"currency":          TypeText,
		"notes":             TypeText,
	},
	Important:          []string{"buyer_information", "due_date", "subtotal", "tax_amount"},
	ExpectedFieldCount: 11,

	Formats: map[string]*regexp.Regexp{
		"invoice_date":   reISODate,
		"due_date":       reISODate,
		"invoice_number": reInvoiceNumber,
	},
	Constraints: map[string]Constraint{
		"total_amount": nonNegative(),
		"subtotal":     nonNegative(),
		"tax_amount":   nonNegative(),
	},
	Placeholders: map[string]*regexp.Regexp{
		"invoice_number": rePlaceholderID,
	},

	Checks: []LogicalCheck{
		{
			Name:    "dates_chronology",
			Fields:  []string{"invoice_date", "due_date"},
			Message: "Due date must be on or after invoice date",
		},
		{
			Name:    "amount_calculation",
			Fields:  []string{"subtotal", "tax_amount", "total_amount"},
			Message: "Total amount should equal subtotal plus tax amount",
		},
		{
			Name:    "line_items_sum",
			Fields:  []string{"item_details", "subtotal"},
			Message: "Item details should sum to subtotal",
		},
	},

	NumericFields: map[string]bool{
		"total_amount": true,
		"subtotal":     true,
		"tax_amount":   true,
		"discount":     true,
	},
	DateFields: map[string]bool{
		"invoice_date": true,
		"due_date":     true,
	},
	LineItemsField: "item_details",
	SubtotalField:  "subtotal",
	TaxField:       "tax_amount",
	TotalField:     "total_amount",
	DiscountField:  "discount",

	CurrencySourceFields: []string{"vendor_information.name", "vendor_information.vendor_name"},
}

var expenseReportSchema = &Schema{
	DocType: constants.DocTypeExpenseReport,

	Required: map[string]FieldType{
		"employee_name": TypeText,
		"period_start":  TypeDate,
		"period_end":    TypeDate,
		"expense_items": TypeArray,
		"total_amount":  TypeNumber,
	},
	Optional: map[string]FieldType{
		"report_id":     TypeText,
		"department":    TypeText,
		"approved_by":   TypeText,
		"approval_date": TypeDate,
		"subtotal":      TypeNumber,
		"tax_amount":    TypeNumber,
		"currency":      TypeText,
		"purpose":       TypeText,
	},
	Important:          []string{"report_id", "department", "approved_by", "approval_date"},
	ExpectedFieldCount: 10,

	Formats: map[string]*regexp.Regexp{
		"period_start":  reISODate,
		"period_end":    reISODate,
		"approval_date": reISODate,
		"report_id":     reInvoiceNumber,
	},
	Constraints: map[string]Constraint{
		"total_amount": nonNegative(),
		"subtotal":     nonNegative(),
		"tax_amount":   nonNegative(),
	},
	Placeholders: map[string]*regexp.Regexp{
		"report_id":     rePlaceholderID,
		"employee_name": rePlaceholderName,
		"approved_by":   rePlaceholderName,
	},

	Checks: []LogicalCheck{
		{
			Name:    "period_chronology",
			Fields:  []string{"period_start", "period_end"},
			Message: "Period end must be on or after period start",
		},
		{
			Name:    "approval_chronology",
			Fields:  []string{"period_end", "approval_date"},
			Message: "Approval date must be on or after period end",
		},
		{
			Name:    "amount_calculation",
			Fields:  []string{"subtotal", "tax_amount", "total_amount"},
			Message: "Total amount should equal subtotal plus tax amount",
		},
		{
			Name:    "line_items_sum",
			Fields:  []string{"expense_items", "subtotal"},
			Message: "Expense items should sum to subtotal",
		},
	},

	NumericFields: map[string]bool{
		"total_amount": true,
		"subtotal":     true,
		"tax_amount":   true,
	},
	DateFields: map[string]bool{
		"period_start":  true,
		"period_end":    true,
		"approval_date": true,
	},
	LineItemsField: "expense_items",
	SubtotalField:  "subtotal",
	TaxField:       "tax_amount",
	TotalField:     "total_amount",

	CurrencySourceFields: []string{"employee_name", "department"},
}

// genericSchema carries the flat invoice tables but accepts numeric strings
// where numbers are declared, for callers validating raw (pre-normalization)
// records.
var genericSchema = func() *Schema {
	s := *invoiceSchema
	s.DocType = constants.DocTypeGeneric
	s.LenientNumbers = true
	return &s
}()
