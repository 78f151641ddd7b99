package service

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount parses user-entered money text. A comma decimal separator is
// accepted ("12,50") and the value is rounded to two fractional digits.
// Non-numeric, non-finite and non-positive input is rejected.
func ParseAmount(text string) (float64, bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, ",", "."))
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}

	value = math.Round(value*100) / 100
	if value <= 0 {
		return 0, false
	}
	return value, true
}

// FormatAmount renders an amount with exactly two fractional digits.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
