package utils

import (
	"fmt"
	"strings"
)

// FormatCents renders a cent amount as dollars with thousands separators.
// Example: 123456789 -> "$1,234,567.89"
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	whole := fmt.Sprintf("%d", cents/100)
	var groups []string
	for i := len(whole); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{whole[start:i]}, groups...)
	}

	return fmt.Sprintf("%s$%s.%02d", sign, strings.Join(groups, ","), cents%100)
}
