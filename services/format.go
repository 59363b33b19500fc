package services

import (
	"fmt"
	"strings"
)

// FormatAmount formats a monetary amount with the currency symbol, thousands
// grouping and the currency's decimal places (e.g. "$1,234,567.89").
// Negative amounts carry a leading minus before the symbol.
func FormatAmount(amount float64, symbol string, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}

	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.*f", decimals, amount)

	intPart := raw
	decPart := ""
	if i := strings.IndexByte(raw, '.'); i >= 0 {
		intPart = raw[:i]
		decPart = raw[i+1:]
	}

	formatted := groupThousands(intPart)

	result := symbol + formatted
	if decPart != "" {
		result += "." + decPart
	}
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts commas every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]
	for len(remaining) > 3 {
		result = remaining[len(remaining)-3:] + "," + result
		remaining = remaining[:len(remaining)-3]
	}
	return remaining + "," + result
}
