package eventmodels

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifySymbol(t *testing.T) {
	assert.Equal(t, AssetTypeCall, ClassifySymbol("ACB_201127C7"))
	assert.Equal(t, AssetTypeCall, ClassifySymbol("AAPL_210115C3.5"))
	assert.Equal(t, AssetTypePut, ClassifySymbol("SPWR_201204P21"))
	assert.Equal(t, AssetTypeCash, ClassifySymbol(CashSymbol))
	assert.Equal(t, AssetTypeEquity, ClassifySymbol("TSLA"))
}

func TestFilledOrderIdentity(t *testing.T) {
	base := NewFilledOrder("SPWR_201120C20", InstructionBuyToOpen, OrderTypeMarket, 0.57, 30, time.Date(2020, 11, 13, 12, 35, 39, 0, time.UTC))

	t.Run("sub-second jitter collapses", func(t *testing.T) {
		jittered := base
		jittered.FilledAt = base.FilledAt.Add(400 * time.Millisecond)

		assert.True(t, base.SameOrderAs(jittered))
	})

	t.Run("price change is the same order", func(t *testing.T) {
		corrected := base
		corrected.Price = 0.59

		assert.True(t, base.SameOrderAs(corrected))
		assert.False(t, base.EqualsRecord(corrected))
	})

	t.Run("quantity change is a different order", func(t *testing.T) {
		other := base
		other.Quantity = 20

		assert.False(t, base.SameOrderAs(other))
	})
}
