package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var rxKeepNums = regexp.MustCompile(`[^0-9.\-]`)

// parseNumber coerces a raw cell into a float. It copes with thousands
// separators and the comma decimal used by Spanish-locale exports
// ("1.234,56", "197 ,00", NBSP padding). ok is false when nothing numeric
// survives.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	repl := strings.NewReplacer(" ", "", " ", "", " ", "", " ", "", "\t", "")
	s = repl.Replace(s)

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}

	if strings.Contains(s, ",") {
		// comma is the decimal separator; any dots are thousands markers
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	s = rxKeepNums.ReplaceAllString(s, "")
	if s == "" || s == "-" || s == "." {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// numberOrZero is the stock/sales fill policy: unparseable cells count as 0.
func numberOrZero(s string) float64 {
	v, _ := parseNumber(s)
	return v
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"01-02-06", // excelize renders short dates this way
}

// parseDate tries the layouts the platform has been seen to emit, plus excel
// serial day numbers. Returns nil when nothing matches.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	// excel serial date (days since 1899-12-30)
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 20000 && serial < 80000 {
		t := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(serial))
		return &t
	}
	return nil
}
