package constants

import (
	"strings"
)

// DocumentType discriminates which field schema and logical-check set apply.
type DocumentType string

const (
	DocTypeInvoice           DocumentType = "invoice"
	DocTypeStructuredInvoice DocumentType = "structured_invoice"
	DocTypeExpenseReport     DocumentType = "expense_report"
	DocTypeGeneric           DocumentType = "generic"
)

var allDocumentTypes = []DocumentType{
	DocTypeInvoice,
	DocTypeStructuredInvoice,
	DocTypeExpenseReport,
	DocTypeGeneric,
}

func DocumentTypes() []string {
	result := make([]string, len(allDocumentTypes))
	for i, dt := range allDocumentTypes {
		result[i] = string(dt)
	}
	return result
}

// CanonicalizeDocumentType maps free-form extractor output ("Invoice",
// "expense-report", ...) onto a known document type.
func CanonicalizeDocumentType(input string) (DocumentType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}
	normalized = strings.ReplaceAll(normalized, "-", "_")
	normalized = strings.ReplaceAll(normalized, " ", "_")

	for _, dt := range allDocumentTypes {
		if normalized == string(dt) {
			return dt, true
		}
	}

	synonyms := map[string]DocumentType{
		"tax_invoice":       DocTypeInvoice,
		"receipt":           DocTypeInvoice,
		"bill":              DocTypeInvoice,
		"detailed_invoice":  DocTypeStructuredInvoice,
		"expense":           DocTypeExpenseReport,
		"expenses":          DocTypeExpenseReport,
		"expense_claim":     DocTypeExpenseReport,
		"reimbursement":     DocTypeExpenseReport,
		"unknown_document":  DocTypeGeneric,
		"generic_document":  DocTypeGeneric,
		"financial_record":  DocTypeGeneric,
	}
	if dt, ok := synonyms[normalized]; ok {
		return dt, true
	}
	return "", false
}
