package portfoliodb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rwilkes/optrack/src/eventmodels"
)

func newTestGormDatabase(t *testing.T) *GormPortfolioDatabase {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "portfolio.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&FilledOrderRecord{}))
	require.NoError(t, db.AutoMigrate(&PositionRecord{}))
	require.NoError(t, db.AutoMigrate(&PositionDeltaRecord{}))

	return NewGormPortfolioDatabase(db)
}

func TestGormPortfolioDatabasePositions(t *testing.T) {
	t.Run("symbol can be reopened after a full close", func(t *testing.T) {
		db := newTestGormDatabase(t)

		require.NoError(t, db.UpsertPosition(eventmodels.NewPosition("ACB_201218C8", 50, 0.55)))
		require.NoError(t, db.DeletePosition("ACB_201218C8"))

		closed, err := db.GetPosition("ACB_201218C8")
		require.NoError(t, err)
		require.Nil(t, closed)

		require.NoError(t, db.UpsertPosition(eventmodels.NewPosition("ACB_201218C8", 20, 0.70)))

		reopened, err := db.GetPosition("ACB_201218C8")
		require.NoError(t, err)
		require.NotNil(t, reopened)
		assert.Equal(t, 20.0, reopened.LongQuantity)
		assert.Equal(t, 0.70, reopened.AveragePrice)
	})

	t.Run("upsert updates the existing row in place", func(t *testing.T) {
		db := newTestGormDatabase(t)

		require.NoError(t, db.UpsertPosition(eventmodels.NewPosition("SPWR_201120C20", 30, 0.55)))
		require.NoError(t, db.UpsertPosition(eventmodels.NewPosition("SPWR_201120C20", 60, 0.62)))

		positions, err := db.GetAllPositions()
		require.NoError(t, err)
		require.Len(t, positions, 1)
		assert.Equal(t, 60.0, positions[0].LongQuantity)
	})
}

func TestGormPortfolioDatabaseFilledOrders(t *testing.T) {
	filledAt := time.Date(2020, 11, 13, 12, 35, 39, 0, time.UTC)
	fill := eventmodels.NewFilledOrder("SFIX_201120C39", eventmodels.InstructionBuyToOpen, eventmodels.OrderTypeMarket, 0.30, 5, filledAt)

	t.Run("duplicate identity is rejected", func(t *testing.T) {
		db := newTestGormDatabase(t)

		require.NoError(t, db.InsertFilledOrders([]eventmodels.FilledOrder{fill}))

		duplicate := fill
		duplicate.Price = 0.31
		require.Error(t, db.InsertFilledOrders([]eventmodels.FilledOrder{duplicate}))

		recent, err := db.ReadRecentFilledOrders(10)
		require.NoError(t, err)
		require.Equal(t, 1, recent.Len())
		assert.Equal(t, 0.30, recent.Items()[0].Price)
	})

	t.Run("price corrections update the stored row", func(t *testing.T) {
		db := newTestGormDatabase(t)

		require.NoError(t, db.InsertFilledOrders([]eventmodels.FilledOrder{fill}))

		corrected := fill
		corrected.Price = 0.33
		corrected.OrderType = eventmodels.OrderTypeLimit
		require.NoError(t, db.UpdateFilledOrders([]eventmodels.FilledOrder{corrected}))

		recent, err := db.ReadRecentFilledOrders(10)
		require.NoError(t, err)
		require.Equal(t, 1, recent.Len())
		assert.Equal(t, 0.33, recent.Items()[0].Price)
		assert.Equal(t, eventmodels.OrderTypeLimit, recent.Items()[0].OrderType)
	})
}
