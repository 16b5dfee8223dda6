package recognition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rwilkes/optrack/src/eventmodels"
)

func feedOrderTokens(b *FilledOrderBuilder, tokens ...Token) {
	for _, token := range tokens {
		b.TakeNextToken(token)
	}
}

func TestFilledOrderBuilder(t *testing.T) {
	tradeDate := time.Date(2020, 11, 13, 0, 0, 0, 0, time.UTC)

	t.Run("builds an order from one row of tokens", func(t *testing.T) {
		b := NewFilledOrderBuilder(tradeDate)

		feedOrderTokens(b,
			Token{Text: "SPWR", Width: 48},
			Token{Text: "201120C20", Width: 100},
			Token{Text: "3", Width: 10},
			Token{Text: "0.57", Width: 40},
			Token{Text: "Buy", Width: 30},
			Token{Text: "to", Width: 16},
			Token{Text: "Open", Width: 36},
			Token{Text: "Market", Width: 50},
			Token{Text: "12:35:39", Width: 70},
		)

		require.True(t, b.Done())
		require.False(t, b.LowConfidence())

		order := b.BuildAndReset()
		assert.Equal(t, eventmodels.OptionSymbol("SPWR_201120C20"), order.Symbol)
		assert.Equal(t, eventmodels.InstructionBuyToOpen, order.Instruction)
		assert.Equal(t, eventmodels.OrderTypeMarket, order.OrderType)
		assert.Equal(t, 0.57, order.Price)
		assert.Equal(t, 3.0, order.Quantity)
		assert.Equal(t, time.Date(2020, 11, 13, 12, 35, 39, 0, time.UTC), order.FilledAt)
	})

	t.Run("narrow quantity without a stray one flags low confidence", func(t *testing.T) {
		b := NewFilledOrderBuilder(tradeDate)

		feedOrderTokens(b,
			Token{Text: "SPWR", Width: 48},
			Token{Text: "201120C20", Width: 100},
			Token{Text: "25", Width: 12},
			Token{Text: "0.57", Width: 40},
			Token{Text: "Sell", Width: 34},
			Token{Text: "to", Width: 16},
			Token{Text: "Close", Width: 42},
			Token{Text: "Limit", Width: 40},
			Token{Text: "14:01:02", Width: 70},
		)

		require.True(t, b.Done())
		assert.True(t, b.LowConfidence())

		order := b.BuildAndReset()
		assert.Equal(t, eventmodels.InstructionSellToClose, order.Instruction)
		assert.Equal(t, eventmodels.OrderTypeLimit, order.OrderType)
		assert.False(t, b.LowConfidence())
	})

	t.Run("narrow quantity with a stray one is corrected without a flag", func(t *testing.T) {
		b := NewFilledOrderBuilder(tradeDate)

		feedOrderTokens(b,
			Token{Text: "SPWR", Width: 48},
			Token{Text: "201120C20", Width: 100},
			Token{Text: "12", Width: 12},
			Token{Text: "0.57", Width: 40},
			Token{Text: "Buy", Width: 30},
			Token{Text: "to", Width: 16},
			Token{Text: "Open", Width: 36},
			Token{Text: "Market", Width: 50},
			Token{Text: "12:35:39", Width: 70},
		)

		require.True(t, b.Done())
		assert.False(t, b.LowConfidence())
		assert.Equal(t, 2.0, b.BuildAndReset().Quantity)
	})

	t.Run("resets on an unrecognized instruction phrase", func(t *testing.T) {
		b := NewFilledOrderBuilder(tradeDate)

		feedOrderTokens(b,
			Token{Text: "SPWR", Width: 48},
			Token{Text: "201120C20", Width: 100},
			Token{Text: "3", Width: 10},
			Token{Text: "0.57", Width: 40},
			Token{Text: "Exercise", Width: 60},
			Token{Text: "by", Width: 16},
			Token{Text: "Broker", Width: 48},
		)

		assert.False(t, b.Done())
	})

	t.Run("building an incomplete row panics", func(t *testing.T) {
		b := NewFilledOrderBuilder(tradeDate)
		feedOrderTokens(b, Token{Text: "SPWR", Width: 48}, Token{Text: "201120C20", Width: 100})

		assert.Panics(t, func() { b.BuildAndReset() })
	})
}
