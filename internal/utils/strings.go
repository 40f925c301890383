package utils

import (
	"strings"
)

// NormalizeFlightCode trims and upper-cases a flight number typed or scanned by the user.
func NormalizeFlightCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// StripCarrierPrefix drops the leading run of A-Z letters from an upper-cased
// flight code, so "CA981" becomes "981". Codes without a letter prefix are returned as is.
func StripCarrierPrefix(code string) string {
	return strings.TrimLeftFunc(code, func(r rune) bool {
		return r >= 'A' && r <= 'Z'
	})
}
