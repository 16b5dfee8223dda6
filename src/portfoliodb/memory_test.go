package portfoliodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rwilkes/optrack/src/eventmodels"
)

func TestInMemoryPortfolioDatabase(t *testing.T) {
	base := time.Date(2020, 11, 17, 10, 11, 56, 0, time.UTC)

	newOrder := func(symbol eventmodels.OptionSymbol, quantity float64, offset time.Duration) eventmodels.FilledOrder {
		return eventmodels.NewFilledOrder(symbol, eventmodels.InstructionBuyToOpen, eventmodels.OrderTypeMarket, 0.55, quantity, base.Add(offset))
	}

	t.Run("recent fills are limited and ascending", func(t *testing.T) {
		db := NewInMemoryPortfolioDatabase()

		require.NoError(t, db.InsertFilledOrders([]eventmodels.FilledOrder{
			newOrder("CGC_201120C25", 30, 2*time.Minute),
			newOrder("SFIX_201120C39", 5, 0),
			newOrder("SPWR_201120C20", 20, 4*time.Minute),
		}))

		recent, err := db.ReadRecentFilledOrders(2)
		require.NoError(t, err)
		require.Equal(t, 2, recent.Len())
		assert.Equal(t, eventmodels.OptionSymbol("CGC_201120C25"), recent.Items()[0].Symbol)
		assert.Equal(t, eventmodels.OptionSymbol("SPWR_201120C20"), recent.Items()[1].Symbol)
	})

	t.Run("duplicate identity is rejected", func(t *testing.T) {
		db := NewInMemoryPortfolioDatabase()

		order := newOrder("SFIX_201120C39", 5, 0)
		require.NoError(t, db.InsertFilledOrders([]eventmodels.FilledOrder{order}))

		duplicate := order
		duplicate.Price = 0.31
		require.Error(t, db.InsertFilledOrders([]eventmodels.FilledOrder{duplicate}))

		recent, err := db.ReadRecentFilledOrders(10)
		require.NoError(t, err)
		assert.Equal(t, 1, recent.Len())
	})

	t.Run("update rewrites mutable fields only", func(t *testing.T) {
		db := NewInMemoryPortfolioDatabase()

		order := newOrder("ACB_201218C10", 100, 0)
		require.NoError(t, db.InsertFilledOrders([]eventmodels.FilledOrder{order}))

		corrected := order
		corrected.Price = 0.34
		corrected.OrderType = eventmodels.OrderTypeLimit
		require.NoError(t, db.UpdateFilledOrders([]eventmodels.FilledOrder{corrected}))

		recent, err := db.ReadRecentFilledOrders(10)
		require.NoError(t, err)
		require.Equal(t, 1, recent.Len())
		assert.Equal(t, 0.34, recent.Items()[0].Price)
		assert.Equal(t, eventmodels.OrderTypeLimit, recent.Items()[0].OrderType)
		assert.Equal(t, 100.0, recent.Items()[0].Quantity)
	})

	t.Run("positions upsert, read and delete", func(t *testing.T) {
		db := NewInMemoryPortfolioDatabase()

		missing, err := db.GetPosition("ACB_201127C7")
		require.NoError(t, err)
		assert.Nil(t, missing)

		require.NoError(t, db.UpsertPosition(eventmodels.NewPosition("ACB_201127C7", 50, 0.55)))

		position, err := db.GetPosition("ACB_201127C7")
		require.NoError(t, err)
		require.NotNil(t, position)
		assert.Equal(t, 50.0, position.LongQuantity)
		assert.Equal(t, eventmodels.AssetTypeCall, position.Type)

		// mutating the returned value must not leak into the store
		position.LongQuantity = 9999
		stored, err := db.GetPosition("ACB_201127C7")
		require.NoError(t, err)
		assert.Equal(t, 50.0, stored.LongQuantity)

		require.NoError(t, db.DeletePosition("ACB_201127C7"))
		deleted, err := db.GetPosition("ACB_201127C7")
		require.NoError(t, err)
		assert.Nil(t, deleted)
	})

	t.Run("delta audit is append only and ascending", func(t *testing.T) {
		db := NewInMemoryPortfolioDatabase()

		d1 := eventmodels.NewPositionDelta(eventmodels.DeltaTypeNew, "ACB_201127C7", 50, 0.55, eventmodels.PercentNotApplicable, base.Add(time.Minute))
		d2 := eventmodels.NewPositionDelta(eventmodels.DeltaTypeSell, "ACB_201127C7", -50, 0.80, 1, base)

		require.NoError(t, db.AppendDeltas([]*eventmodels.PositionDelta{d1}))
		require.NoError(t, db.AppendDeltas([]*eventmodels.PositionDelta{d2}))

		deltas, err := db.ReadDeltas()
		require.NoError(t, err)
		require.Len(t, deltas, 2)
		assert.Equal(t, d2.ID, deltas[0].ID)
		assert.Equal(t, d1.ID, deltas[1].ID)
	})
}
