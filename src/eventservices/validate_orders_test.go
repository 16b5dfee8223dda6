package eventservices

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rwilkes/optrack/src/eventmodels"
)

type stubMarketDataClient struct {
	quotes map[eventmodels.OptionSymbol]eventmodels.OptionQuote
	errors map[eventmodels.OptionSymbol]error
	calls  int
}

func (s *stubMarketDataClient) GetOptionQuote(ctx context.Context, symbol eventmodels.OptionSymbol) (*eventmodels.OptionQuote, error) {
	s.calls++

	if err, found := s.errors[symbol]; found {
		return nil, err
	}

	quote, found := s.quotes[symbol]
	if !found {
		return nil, fmt.Errorf("stubMarketDataClient: %s: %w", symbol, eventmodels.QuoteNotFoundErr)
	}

	return &quote, nil
}

func TestValidateLiveOrders(t *testing.T) {
	filledAt := time.Date(2020, 11, 13, 12, 35, 39, 0, time.UTC)

	newOrder := func(symbol eventmodels.OptionSymbol, price float64) eventmodels.FilledOrder {
		return eventmodels.NewFilledOrder(symbol, eventmodels.InstructionBuyToOpen, eventmodels.OrderTypeMarket, price, 10, filledAt)
	}

	t.Run("price inside range is accepted and mapped to its quote", func(t *testing.T) {
		md := &stubMarketDataClient{quotes: map[eventmodels.OptionSymbol]eventmodels.OptionQuote{
			"SPWR_201120C20": {Symbol: "SPWR_201120C20", LowPrice: 0.40, HighPrice: 0.80},
		}}

		order := newOrder("SPWR_201120C20", 0.57)
		validated := ValidateLiveOrders(context.Background(), md, eventmodels.NewTimeSortedSet(order))

		require.Len(t, validated, 1)
		assert.Equal(t, 0.40, validated[order].LowPrice)
		assert.Equal(t, 0.80, validated[order].HighPrice)
	})

	t.Run("boundary prices are accepted", func(t *testing.T) {
		md := &stubMarketDataClient{quotes: map[eventmodels.OptionSymbol]eventmodels.OptionQuote{
			"SPWR_201120C20": {Symbol: "SPWR_201120C20", LowPrice: 0.40, HighPrice: 0.80},
		}}

		atLow := newOrder("SPWR_201120C20", 0.40)
		validated := ValidateLiveOrders(context.Background(), md, eventmodels.NewTimeSortedSet(atLow))
		assert.Len(t, validated, 1)

		atHigh := newOrder("SPWR_201120C20", 0.80)
		validated = ValidateLiveOrders(context.Background(), md, eventmodels.NewTimeSortedSet(atHigh))
		assert.Len(t, validated, 1)
	})

	t.Run("price outside range is dropped", func(t *testing.T) {
		md := &stubMarketDataClient{quotes: map[eventmodels.OptionSymbol]eventmodels.OptionQuote{
			"SPWR_201120C20": {Symbol: "SPWR_201120C20", LowPrice: 0.40, HighPrice: 0.80},
		}}

		belowLow := newOrder("SPWR_201120C20", 0.39)
		validated := ValidateLiveOrders(context.Background(), md, eventmodels.NewTimeSortedSet(belowLow))
		assert.Empty(t, validated)

		aboveHigh := newOrder("SPWR_201120C20", 0.81)
		validated = ValidateLiveOrders(context.Background(), md, eventmodels.NewTimeSortedSet(aboveHigh))
		assert.Empty(t, validated)
	})

	t.Run("quote failure drops only the failing candidate", func(t *testing.T) {
		md := &stubMarketDataClient{
			quotes: map[eventmodels.OptionSymbol]eventmodels.OptionQuote{
				"SPWR_201120C20": {Symbol: "SPWR_201120C20", LowPrice: 0.40, HighPrice: 0.80},
				"CGC_201120C25":  {Symbol: "CGC_201120C25", LowPrice: 0.50, HighPrice: 0.70},
			},
			errors: map[eventmodels.OptionSymbol]error{
				"SFIX_201120C39": fmt.Errorf("transient data source error"),
			},
		}

		good1 := newOrder("SPWR_201120C20", 0.57)
		bad := newOrder("SFIX_201120C39", 0.30)
		good2 := newOrder("CGC_201120C25", 0.59)

		validated := ValidateLiveOrders(context.Background(), md, eventmodels.NewTimeSortedSet(good1, bad, good2))

		require.Len(t, validated, 2)
		assert.Contains(t, validated, good1)
		assert.Contains(t, validated, good2)
		assert.NotContains(t, validated, bad)
		assert.Equal(t, 3, md.calls)
	})
}
