// Package normalize maps loosely-typed extractor records onto canonical
// typed records: trimmed strings, ISO dates, float amounts with resolved
// currency, and header totals recomputed from line items. Normalization is
// idempotent and never fails on malformed input; unparseable values degrade
// to nil or to the trimmed original.
package normalize

import (
	"strings"

	"docqc/constants"
	"docqc/internal/schema"
)

// itemNumericFields and itemDateFields route line-item sub-fields.
var itemNumericFields = map[string]bool{
	"quantity":   true,
	"unit_price": true,
	"discount":   true,
	"amount":     true,
	"total":      true,
	"tax":        true,
}

var itemDateFields = map[string]bool{
	"date":         true,
	"expense_date": true,
}

// Normalize returns the canonical form of a record. The docType hint covers
// records without a document_type field; when neither resolves, the generic
// routing tables apply so the record still gets trimmed and typed.
func Normalize(rec schema.Record, docType constants.DocumentType) schema.Record {
	if rec == nil {
		return nil
	}
	s, ok := schema.Resolve(rec, docType)
	if !ok {
		s, _ = schema.ForType(constants.DocTypeGeneric)
	}

	out := make(schema.Record, len(rec)+1)

	// Record-scoped accumulator: the first currency discovered anywhere in
	// the record (header amounts or line items) wins.
	currency := ""

	for field, value := range rec {
		switch {
		case s.DateFields[field]:
			out[field] = NormalizeDate(value)
		case s.NumericFields[field]:
			f, code := NormalizeNumeric(value)
			if code != "" && currency == "" {
				currency = code
			}
			out[field] = floatOrNil(f)
		case field == s.LineItemsField:
			items, code := normalizeItems(value)
			if code != "" && currency == "" {
				currency = code
			}
			out[field] = items
		default:
			out[field] = deepTrim(value)
		}
	}

	recomputeTotals(out, s)
	nullEmptyOptionals(out, s)
	applyCurrency(out, s, currency)

	return out
}

// normalizeItems canonicalizes every element of a line-item array and
// reports the first currency token found among the items' amounts.
func normalizeItems(value any) (any, string) {
	list, ok := value.([]any)
	if !ok {
		return deepTrim(value), ""
	}
	currency := ""
	items := make([]any, len(list))
	for i, el := range list {
		item, ok := el.(map[string]any)
		if !ok {
			items[i] = deepTrim(el)
			continue
		}
		normalized := make(map[string]any, len(item))
		for k, v := range item {
			switch {
			case itemNumericFields[k]:
				f, code := NormalizeNumeric(v)
				if code != "" && currency == "" {
					currency = code
				}
				normalized[k] = floatOrNil(f)
			case itemDateFields[k]:
				normalized[k] = NormalizeDate(v)
			default:
				normalized[k] = deepTrim(v)
			}
		}
		items[i] = normalized
	}
	return items, currency
}

// recomputeTotals overwrites the header subtotal with the line-item sum and,
// when a numeric tax value is present, the total with subtotal + tax. Line
// items are trusted over the header.
func recomputeTotals(out schema.Record, s *schema.Schema) {
	if s.LineItemsField == "" || s.SubtotalField == "" {
		return
	}
	items, ok := out[s.LineItemsField].([]any)
	if !ok || len(items) == 0 {
		return
	}
	sum := 0.0
	for _, el := range items {
		if item, ok := el.(map[string]any); ok {
			if f := itemAmount(item); f != nil {
				sum += *f
			}
		}
	}
	out[s.SubtotalField] = sum
	if s.TaxField != "" && s.TotalField != "" {
		if tax, ok := out[s.TaxField].(float64); ok {
			out[s.TotalField] = sum + tax
		}
	}
}

// itemAmount resolves a normalized line item's monetary value: an explicit
// amount or total when present, otherwise quantity x unit_price.
func itemAmount(item map[string]any) *float64 {
	if f, ok := item["amount"].(float64); ok {
		return &f
	}
	if f, ok := item["total"].(float64); ok {
		return &f
	}
	qty, qok := item["quantity"].(float64)
	price, pok := item["unit_price"].(float64)
	if qok && pok {
		f := qty * price
		return &f
	}
	return nil
}

// nullEmptyOptionals forces optional fields that arrived present-but-empty
// to an explicit nil, so downstream consumers can tell "absent" apart from
// "extracted as empty".
func nullEmptyOptionals(out schema.Record, s *schema.Schema) {
	for field := range s.Optional {
		v, present := out[field]
		if !present {
			continue
		}
		if str, ok := v.(string); ok && strings.TrimSpace(str) == "" {
			out[field] = nil
		}
	}
}

// applyCurrency resolves the record's currency: an explicit field wins, then
// the accumulator from numeric parsing, then locale markers in party names.
func applyCurrency(out schema.Record, s *schema.Schema, discovered string) {
	if existing, ok := out["currency"].(string); ok && strings.TrimSpace(existing) != "" {
		out["currency"] = strings.ToUpper(strings.TrimSpace(existing))
		return
	}
	if discovered != "" {
		out["currency"] = discovered
		return
	}
	for _, path := range s.CurrencySourceFields {
		name, ok := lookupString(out, path)
		if !ok {
			continue
		}
		if code, ok := constants.LocaleCurrencyForName(name); ok {
			out["currency"] = code
			return
		}
	}
}

// lookupString fetches a string by a dot-separated path ("vendor_information.name").
func lookupString(rec schema.Record, path string) (string, bool) {
	var cur any = rec
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		cur, ok = m[part]
		if !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	return s, ok
}

// deepTrim strips leading/trailing whitespace from every string at every
// nesting depth, leaving other values untouched.
func deepTrim(value any) any {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = deepTrim(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, el := range v {
			out[i] = deepTrim(el)
		}
		return out
	default:
		return v
	}
}
