package common

import "strings"

// Valid discount codes and their fractional rates. In a real deployment
// these would live in the database; the set is fixed for now.
var discountRates = map[string]float64{
	"SAVE10":     0.10,
	"DISCOUNT15": 0.15,
	"SAVE20":     0.20,
	"WELCOME25":  0.25,
	"EARLY30":    0.30,
	"FREE100":    1.0,
}

func NormalizeDiscountCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DiscountRate reports the fractional rate for a code, normalizing first.
func DiscountRate(code string) (float64, bool) {
	rate, ok := discountRates[NormalizeDiscountCode(code)]
	return rate, ok
}
