package eventmodels

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// OptionSymbol is a symbol in the portfolio's standard format, e.g.
// "ACB_201127C7" or "AAPL_210115P3.5". Equity and cash symbols carry no
// expiry component and pass through unchanged.
type OptionSymbol string

var optionSymbolRegex = regexp.MustCompile(`^([A-Z]{1,5})_(\d{6})([CP])(\d+(?:\.\d)?)$`)
var occSymbolRegex = regexp.MustCompile(`^([A-Z]{1,5})(\d{6})([CP])(\d{8})$`)

const expirationDateFormat = "060102"

func (s OptionSymbol) IsOption() bool {
	return optionSymbolRegex.MatchString(string(s))
}

// OCC returns the 21-character OCC representation used by broker and market
// data APIs, e.g. "AAPL210115C00003500".
func (s OptionSymbol) OCC() (string, error) {
	components, err := NewOptionSymbolComponents(s)
	if err != nil {
		return "", fmt.Errorf("OptionSymbol.OCC: failed to parse option symbol: %w", err)
	}

	strike := fmt.Sprintf("%08d", int(components.StrikePrice*1000+0.5))

	return fmt.Sprintf("%s%s%s%s", components.Underlying, components.Expiration.Format(expirationDateFormat), components.OptionType, strike), nil
}

func (s OptionSymbol) Description() (string, error) {
	components, err := NewOptionSymbolComponents(s)
	if err != nil {
		return "", fmt.Errorf("OptionSymbol.Description: failed to parse option symbol: %w", err)
	}

	optionType := "Call"
	if components.OptionType == "P" {
		optionType = "Put"
	}

	return fmt.Sprintf("%s %s $%.2f %s", components.Underlying, components.Expiration.Format("Jan 2 2006"), components.StrikePrice, optionType), nil
}

// OptionSymbolComponents holds the parsed parts of an option symbol.
type OptionSymbolComponents struct {
	Underlying  string
	Expiration  time.Time
	OptionType  string
	StrikePrice float64
	Symbol      OptionSymbol
}

func NewOptionSymbolComponents(symbol OptionSymbol) (*OptionSymbolComponents, error) {
	match := optionSymbolRegex.FindStringSubmatch(string(symbol))
	if match == nil {
		return nil, fmt.Errorf("NewOptionSymbolComponents: not an option symbol: %s", symbol)
	}

	expiration, err := time.Parse(expirationDateFormat, match[2])
	if err != nil {
		return nil, fmt.Errorf("NewOptionSymbolComponents: failed to parse expiration date: %w", err)
	}

	strike, err := strconv.ParseFloat(match[4], 64)
	if err != nil {
		return nil, fmt.Errorf("NewOptionSymbolComponents: failed to parse strike price: %w", err)
	}

	return &OptionSymbolComponents{
		Underlying:  match[1],
		Expiration:  expiration,
		OptionType:  match[3],
		StrikePrice: strike,
		Symbol:      symbol,
	}, nil
}

// NewOptionSymbolFromOCC converts an OCC symbol, e.g. "AAPL210115C00003500",
// to the standard format.
func NewOptionSymbolFromOCC(occ string) (OptionSymbol, error) {
	match := occSymbolRegex.FindStringSubmatch(occ)
	if match == nil {
		return "", fmt.Errorf("NewOptionSymbolFromOCC: not an OCC option symbol: %s", occ)
	}

	strikeThousandths, err := strconv.Atoi(match[4])
	if err != nil {
		return "", fmt.Errorf("NewOptionSymbolFromOCC: failed to parse strike price: %w", err)
	}

	strike := strconv.FormatFloat(float64(strikeThousandths)/1000.0, 'f', -1, 64)
	strike = strings.TrimSuffix(strike, ".0")

	return OptionSymbol(fmt.Sprintf("%s_%s%s%s", match[1], match[2], match[3], strike)), nil
}
