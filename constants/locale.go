package constants

import (
	"strings"
	"time"
)

// currencyTokens maps currency symbols and spelled-out tokens found next to
// extracted amounts onto ISO 4217 codes. Alphabetic keys are upper-case.
var currencyTokens = map[string]string{
	"฿":    "THB",
	"บาท":  "THB",
	"THB":  "THB",
	"BAHT": "THB",
	"$":    "USD",
	"USD":  "USD",
	"US$":  "USD",
	"€":    "EUR",
	"EUR":  "EUR",
	"£":    "GBP",
	"GBP":  "GBP",
	"¥":    "JPY",
	"JPY":  "JPY",
	"₹":    "INR",
	"INR":  "INR",
	"SGD":  "SGD",
	"S$":   "SGD",
}

// CurrencyForToken resolves a symbol or alphabetic run trailing (or leading)
// a numeric value to an ISO 4217 code.
func CurrencyForToken(token string) (string, bool) {
	cleaned := strings.Trim(strings.TrimSpace(token), ".,")
	if cleaned == "" {
		return "", false
	}
	if code, ok := currencyTokens[cleaned]; ok {
		return code, true
	}
	code, ok := currencyTokens[strings.ToUpper(cleaned)]
	return code, ok
}

// thaiDigits maps Thai numerals onto Arabic digits.
var thaiDigits = map[rune]rune{
	'๐': '0', '๑': '1', '๒': '2', '๓': '3', '๔': '4',
	'๕': '5', '๖': '6', '๗': '7', '๘': '8', '๙': '9',
}

// NormalizeThaiDigits converts Thai numerals in text to Arabic digits,
// leaving everything else untouched.
func NormalizeThaiDigits(text string) string {
	var b strings.Builder
	for _, r := range text {
		if arabic, ok := thaiDigits[r]; ok {
			b.WriteRune(arabic)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// monthNames maps full and abbreviated month names (Thai and English) onto
// calendar months. Keys with Latin letters are lower-case; lookups strip a
// trailing period so "ม.ค." and "ม.ค" both resolve.
var monthNames = map[string]time.Month{
	"มกราคม": time.January, "ม.ค": time.January,
	"กุมภาพันธ์": time.February, "ก.พ": time.February,
	"มีนาคม": time.March, "มี.ค": time.March,
	"เมษายน": time.April, "เม.ย": time.April,
	"พฤษภาคม": time.May, "พ.ค": time.May,
	"มิถุนายน": time.June, "มิ.ย": time.June,
	"กรกฎาคม": time.July, "ก.ค": time.July,
	"สิงหาคม": time.August, "ส.ค": time.August,
	"กันยายน": time.September, "ก.ย": time.September,
	"ตุลาคม": time.October, "ต.ค": time.October,
	"พฤศจิกายน": time.November, "พ.ย": time.November,
	"ธันวาคม": time.December, "ธ.ค": time.December,

	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// MonthForName resolves a localized month name (full or abbreviated) to its
// calendar month.
func MonthForName(name string) (time.Month, bool) {
	cleaned := strings.TrimSuffix(strings.TrimSpace(name), ".")
	if cleaned == "" {
		return 0, false
	}
	if m, ok := monthNames[cleaned]; ok {
		return m, true
	}
	m, ok := monthNames[strings.ToLower(cleaned)]
	return m, ok
}

// BuddhistEraPivot: four-digit years above this are taken as Buddhist-era
// and shifted back 543 years to the Gregorian calendar.
const BuddhistEraPivot = 2500

const BuddhistEraOffset = 543

// thaiLocaleMarkers are substrings of vendor/employee names that indicate a
// Thai business entity, used as a last-resort currency hint.
var thaiLocaleMarkers = []string{
	"บริษัท",
	"จำกัด",
	"ห้างหุ้นส่วน",
	"(ประเทศไทย)",
	"(thailand)",
	"co., ltd. (thailand)",
}

// LocaleCurrencyForName infers a default currency from locale markers inside
// a party name. Returns false when no marker matches.
func LocaleCurrencyForName(name string) (string, bool) {
	lowered := strings.ToLower(name)
	for _, marker := range thaiLocaleMarkers {
		if strings.Contains(lowered, marker) {
			return "THB", true
		}
	}
	return "", false
}
