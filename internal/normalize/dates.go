package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"docqc/constants"
)

type datePattern struct {
	re      *regexp.Regexp
	y, m, d int // capture group indexes
}

// datePatterns is tried in order; the order is the contract. Ambiguous
// slash dates resolve day-first (DD/MM before MM/DD).
var datePatterns = []datePattern{
	{regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`), 1, 2, 3},
	{regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`), 3, 2, 1},
	{regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`), 3, 1, 2},
	{regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`), 3, 2, 1},
	{regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`), 1, 2, 3},
}

// reLocalizedDate matches "<day> <month-name> <year>", e.g. "15 พฤษภาคม 2566"
// or "15 May 2023".
var reLocalizedDate = regexp.MustCompile(`^(\d{1,2})\s+(\S+)\s+(\d{4})$`)

// NormalizeDate coerces a date-ish value to ISO-8601 (YYYY-MM-DD). Empty or
// whitespace-only input becomes nil; anything unparseable comes back as the
// trimmed original string. Never fails.
func NormalizeDate(value any) any {
	str, ok := value.(string)
	if !ok {
		return value
	}
	trimmed := strings.TrimSpace(str)
	if trimmed == "" {
		return nil
	}

	cleaned := constants.NormalizeThaiDigits(trimmed)
	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(cleaned)
		if m == nil {
			continue
		}
		if iso, ok := isoDate(atoi(m[p.y]), atoi(m[p.m]), atoi(m[p.d])); ok {
			return iso
		}
	}

	if m := reLocalizedDate.FindStringSubmatch(cleaned); m != nil {
		if month, ok := constants.MonthForName(m[2]); ok {
			year := atoi(m[3])
			if year > constants.BuddhistEraPivot {
				year -= constants.BuddhistEraOffset
			}
			if iso, ok := isoDate(year, int(month), atoi(m[1])); ok {
				return iso
			}
		}
	}

	return trimmed
}

// isoDate formats a calendar-valid year/month/day as YYYY-MM-DD. The
// time.Date round-trip rejects overflow dates like 31/02.
func isoDate(year, month, day int) (string, bool) {
	if year < 1000 || year > 9999 || month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
