package recognition

import (
	"regexp"
	"strings"
)

// Recognized option symbols arrive with a space between underlying and
// expiry, and the strike's decimal point is often read as a comma or a
// space, e.g. "SFIX 210115C40" or "AAPL 210115P3 5".
var rawOptionSymbolRegex = regexp.MustCompile(`[A-Z]{1,5} \d{6}[CP]\d+([., ]\d)?$`)

var rawPriceRegex = regexp.MustCompile(`^\d+[., ]\d+$`)

var spaceOrCommaRegex = regexp.MustCompile(`[ ,]`)

// Single-digit quantities do not occupy more than 14 pixels of width on the
// screen; a wider reading that claims two digits usually picked up a stray
// leading "1".
const maxSingleDigitQuantityWidth = 15

// normalizeSymbol converts a raw recognized symbol to the standard format:
// the separator space becomes an underscore and any remaining space or comma
// in the strike becomes a decimal point.
func normalizeSymbol(raw string) string {
	normalized := strings.Replace(raw, " ", "_", 1)
	return spaceOrCommaRegex.ReplaceAllString(normalized, ".")
}

// normalizePrice rewrites a raw recognized price so it parses as a float.
func normalizePrice(raw string) string {
	return spaceOrCommaRegex.ReplaceAllString(raw, ".")
}
