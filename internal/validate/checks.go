package validate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"docqc/internal/schema"
)

// runCheck dispatches a logical check by name. The second return value is
// false when the check could not be applied (for example a date that does
// not parse); such checks are neither passed nor failed.
func (v *Validator) runCheck(rec schema.Record, s *schema.Schema, check schema.LogicalCheck) (ok, applicable bool) {
	switch check.Name {
	case "dates_chronology", "period_chronology", "approval_chronology":
		return datesOrdered(rec, check.Fields[0], check.Fields[1])
	case "amount_calculation":
		return v.amountsReconcile(rec, s)
	case "line_items_sum":
		return v.lineItemsSum(rec, check.Fields[0], check.Fields[1])
	default:
		return true, false
	}
}

// datesOrdered verifies first <= second. Unparseable dates make the check
// inapplicable; the format check already reports them.
func datesOrdered(rec schema.Record, firstField, secondField string) (bool, bool) {
	firstStr, ok1 := rec[firstField].(string)
	secondStr, ok2 := rec[secondField].(string)
	if !ok1 || !ok2 {
		return true, false
	}
	first, ok1 := parseISODate(firstStr)
	second, ok2 := parseISODate(secondStr)
	if !ok1 || !ok2 {
		return true, false
	}
	return !first.After(second), true
}

// amountsReconcile verifies subtotal + tax - discount == total within the
// policy tolerance. A missing discount counts as zero.
func (v *Validator) amountsReconcile(rec schema.Record, s *schema.Schema) (bool, bool) {
	subtotal := parseFloat(rec[s.SubtotalField])
	tax := parseFloat(rec[s.TaxField])
	total := parseFloat(rec[s.TotalField])
	if subtotal == nil || tax == nil || total == nil {
		return true, false
	}
	discount := 0.0
	if s.DiscountField != "" {
		if d := parseFloat(rec[s.DiscountField]); d != nil {
			discount = *d
		}
	}
	return abs((*subtotal+*tax-discount)-*total) <= v.policy.Tolerance, true
}

// lineItemsSum verifies the items sum to the header subtotal within the
// policy tolerance. An empty array trivially passes: it cannot contradict
// the header.
func (v *Validator) lineItemsSum(rec schema.Record, itemsField, subtotalField string) (bool, bool) {
	items, ok := rec[itemsField].([]any)
	if !ok {
		return true, false
	}
	subtotal := parseFloat(rec[subtotalField])
	if subtotal == nil {
		return true, false
	}
	if len(items) == 0 {
		return true, true
	}
	sum := 0.0
	for _, el := range items {
		item, ok := el.(map[string]any)
		if !ok {
			continue
		}
		if f := lineItemValue(item); f != nil {
			sum += *f
		}
	}
	return abs(sum-*subtotal) <= v.policy.Tolerance, true
}

// lineItemValue resolves one item's monetary value: amount or total when
// present, otherwise quantity x unit_price.
func lineItemValue(item map[string]any) *float64 {
	if f := parseFloat(item["amount"]); f != nil {
		return f
	}
	if f := parseFloat(item["total"]); f != nil {
		return f
	}
	qty := parseFloat(item["quantity"])
	price := parseFloat(item["unit_price"])
	if qty != nil && price != nil {
		f := *qty * *price
		return &f
	}
	return nil
}

// typeMismatch checks a value against its declared semantic type and
// renders an expected-vs-actual message on failure.
func typeMismatch(value any, ft schema.FieldType, lenientNumbers bool) (string, bool) {
	mismatch := func() (string, bool) {
		return fmt.Sprintf("Invalid type. Expected %s, got %s", ft, typeName(value)), true
	}
	switch ft {
	case schema.TypeText:
		if _, ok := value.(string); !ok {
			return mismatch()
		}
	case schema.TypeNumber:
		switch v := value.(type) {
		case float64, float32, int, int64, json.Number:
		case string:
			if !lenientNumbers {
				return mismatch()
			}
			if parseFloat(v) == nil {
				return mismatch()
			}
		default:
			return mismatch()
		}
	case schema.TypeDate:
		if _, ok := value.(string); !ok {
			return "Invalid type. Expected a date string, got " + typeName(value), true
		}
	case schema.TypeArray:
		if _, ok := value.([]any); !ok {
			return mismatch()
		}
	case schema.TypeObject:
		if _, ok := value.(map[string]any); !ok {
			return mismatch()
		}
	}
	return "", false
}

// typeName names a record value's JSON type for error messages.
func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, float32, int, int64, json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

// parseFloat is the lenient numeric reading used by logical checks: numbers
// pass through, numeric strings parse, everything else is nil.
func parseFloat(value any) *float64 {
	switch v := value.(type) {
	case float64:
		f := v
		return &f
	case float32:
		f := float64(v)
		return &f
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return &f
		}
		return nil
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return &f
		}
		return nil
	default:
		return nil
	}
}

func parseISODate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
