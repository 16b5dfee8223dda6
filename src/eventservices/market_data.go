package eventservices

import (
	"context"

	"github.com/rwilkes/optrack/src/eventmodels"
)

// MarketDataClient looks up a day's trading range for a symbol. Lookups are
// independent, side-effect-free reads; a failed lookup only drops the single
// candidate that needed it.
type MarketDataClient interface {
	GetOptionQuote(ctx context.Context, symbol eventmodels.OptionSymbol) (*eventmodels.OptionQuote, error)
}
