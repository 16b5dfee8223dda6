package eventmodels

import "regexp"

type AssetType string

const (
	AssetTypeCall   AssetType = "CALL"
	AssetTypePut    AssetType = "PUT"
	AssetTypeCash   AssetType = "CASH"
	AssetTypeEquity AssetType = "EQUITY"
)

// CashSymbol is the broker's money market sweep symbol, reported alongside
// real positions.
const CashSymbol OptionSymbol = "MMDA1"

var callSymbolRegex = regexp.MustCompile(`^[A-Z]{1,5}[_ ]?\d{6}C\d+(\.\d)?`)
var putSymbolRegex = regexp.MustCompile(`^[A-Z]{1,5}[_ ]?\d{6}P\d+(\.\d)?`)

// ClassifySymbol determines the asset type from the symbol's shape. It is
// invoked when a position is created or updated and the result is stored on
// the position rather than recomputed on read.
func ClassifySymbol(symbol OptionSymbol) AssetType {
	if callSymbolRegex.MatchString(string(symbol)) {
		return AssetTypeCall
	}

	if putSymbolRegex.MatchString(string(symbol)) {
		return AssetTypePut
	}

	if symbol == CashSymbol {
		return AssetTypeCash
	}

	return AssetTypeEquity
}
