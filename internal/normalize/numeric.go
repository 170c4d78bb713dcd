package normalize

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"docqc/constants"
)

// reMagnitude matches the leading run of digits with thousands separators,
// an optional sign, and an optional decimal part.
var reMagnitude = regexp.MustCompile(`^-?[0-9][0-9,]*(\.[0-9]+)?`)

// NormalizeNumeric coerces a numeric-ish value to a float plus the ISO 4217
// code of any embedded currency token ("1,234.56 ฿" -> 1234.56, "THB").
// Nil/empty input and unparseable magnitudes yield a nil float; the currency
// token is still reported when one is recognized. Never fails.
func NormalizeNumeric(value any) (*float64, string) {
	switch v := value.(type) {
	case nil:
		return nil, ""
	case float64:
		f := v
		return &f, ""
	case float32:
		f := float64(v)
		return &f, ""
	case int:
		f := float64(v)
		return &f, ""
	case int64:
		f := float64(v)
		return &f, ""
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return &f, ""
		}
		return nil, ""
	case string:
		return parseNumericString(v)
	default:
		return nil, ""
	}
}

func parseNumericString(s string) (*float64, string) {
	s = strings.TrimSpace(constants.NormalizeThaiDigits(s))
	if s == "" {
		return nil, ""
	}

	// Split off a leading currency token ("฿1,234.56").
	prefix := ""
	digit := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
	if digit < 0 {
		if code, ok := constants.CurrencyForToken(s); ok {
			return nil, code
		}
		return nil, ""
	}
	// A minus sign belongs to the magnitude, not the currency prefix, so
	// "-50.00" keeps its sign instead of parsing as a positive 50.
	start := digit
	if start > 0 && s[start-1] == '-' {
		start--
	}
	if start > 0 {
		prefix = strings.TrimSpace(s[:start])
		s = s[start:]
	}

	magnitude := reMagnitude.FindString(s)
	if magnitude == "" {
		return nil, ""
	}
	suffix := strings.TrimSpace(s[len(magnitude):])

	currency := ""
	if code, ok := constants.CurrencyForToken(suffix); ok {
		currency = code
	} else if code, ok := constants.CurrencyForToken(prefix); ok {
		currency = code
	}

	f, err := strconv.ParseFloat(strings.ReplaceAll(magnitude, ",", ""), 64)
	if err != nil {
		return nil, currency
	}
	return &f, currency
}

func floatOrNil(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
