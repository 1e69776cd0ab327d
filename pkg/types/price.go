package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePrice parses a listing price string by stripping a leading dollar
// sign and parsing the remainder. A price whose remainder is not numeric
// is a defect input and returns an error; callers decide the fallback,
// a zero price is never assumed.
func ParsePrice(s string) (float64, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	// Thousands separators show up in scraped prices ("$1,299.99").
	trimmed = strings.ReplaceAll(trimmed, ",", "")
	if trimmed == "" {
		return 0, fmt.Errorf("empty price %q", s)
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable price %q: %w", s, err)
	}
	return v, nil
}

// FormatPrice renders a numeric price in the canonical "$<number>" form
// with two decimals.
func FormatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
