package eventservices

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rwilkes/optrack/src/eventmodels"
	"github.com/rwilkes/optrack/src/portfoliodb"
)

type stubRecognitionClient struct {
	orders       *eventmodels.UnvalidatedLiveOrdersResult
	positions    []*eventmodels.Position
	ordersErr    error
	positionsErr error
}

func (s *stubRecognitionClient) Login(ctx context.Context) error  { return nil }
func (s *stubRecognitionClient) Logout(ctx context.Context) error { return nil }

func (s *stubRecognitionClient) RecognizeLiveOrders(ctx context.Context) (*eventmodels.UnvalidatedLiveOrdersResult, error) {
	if s.ordersErr != nil {
		return nil, s.ordersErr
	}
	return s.orders, nil
}

func (s *stubRecognitionClient) RecognizeLivePositions(ctx context.Context) ([]*eventmodels.Position, error) {
	if s.positionsErr != nil {
		return nil, s.positionsErr
	}
	return s.positions, nil
}

func TestPortfolioClientGetLiveDeltasFromOrders(t *testing.T) {
	filledAt := time.Date(2020, 11, 13, 12, 35, 39, 0, time.UTC)

	quote := eventmodels.OptionQuote{Symbol: "SPWR_201120C20", LowPrice: 0.40, HighPrice: 0.80}
	fill := eventmodels.NewFilledOrder("SPWR_201120C20", eventmodels.InstructionBuyToOpen, eventmodels.OrderTypeMarket, 0.57, 30, filledAt)

	newClient := func(db portfoliodb.PortfolioDatabase, recognition RecognitionClient) *PortfolioClient {
		md := &stubMarketDataClient{quotes: map[eventmodels.OptionSymbol]eventmodels.OptionQuote{
			"SPWR_201120C20": quote,
		}}
		return NewPortfolioClient(recognition, md, db)
	}

	t.Run("new fill produces delta, quote and persisted state", func(t *testing.T) {
		db := portfoliodb.NewInMemoryPortfolioDatabase()
		client := newClient(db, &stubRecognitionClient{orders: &eventmodels.UnvalidatedLiveOrdersResult{
			LiveOrders: eventmodels.NewTimeSortedSet(fill),
		}})

		result, err := client.GetLiveDeltasFromOrders(context.Background())
		require.NoError(t, err)

		require.Equal(t, 1, result.Deltas.Len())
		assert.Equal(t, eventmodels.DeltaTypeNew, result.Deltas.Items()[0].DeltaType)
		assert.Equal(t, quote, result.Quotes["SPWR_201120C20"])
		assert.False(t, result.SkippedOrderDueToLowConfidence)

		position, err := db.GetPosition("SPWR_201120C20")
		require.NoError(t, err)
		require.NotNil(t, position)
		assert.Equal(t, 30.0, position.LongQuantity)
	})

	t.Run("reconciling the same input twice is idempotent", func(t *testing.T) {
		db := portfoliodb.NewInMemoryPortfolioDatabase()
		client := newClient(db, &stubRecognitionClient{orders: &eventmodels.UnvalidatedLiveOrdersResult{
			LiveOrders: eventmodels.NewTimeSortedSet(fill),
		}})

		first, err := client.GetLiveDeltasFromOrders(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, first.Deltas.Len())

		second, err := client.GetLiveDeltasFromOrders(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, second.Deltas.Len())

		position, err := db.GetPosition("SPWR_201120C20")
		require.NoError(t, err)
		require.NotNil(t, position)
		assert.Equal(t, 30.0, position.LongQuantity)
	})

	t.Run("updated fill persists correction without new deltas", func(t *testing.T) {
		db := portfoliodb.NewInMemoryPortfolioDatabase()
		client := newClient(db, &stubRecognitionClient{orders: &eventmodels.UnvalidatedLiveOrdersResult{
			LiveOrders: eventmodels.NewTimeSortedSet(fill),
		}})

		_, err := client.GetLiveDeltasFromOrders(context.Background())
		require.NoError(t, err)

		corrected := fill
		corrected.Price = 0.59
		client.Recognition = &stubRecognitionClient{orders: &eventmodels.UnvalidatedLiveOrdersResult{
			LiveOrders: eventmodels.NewTimeSortedSet(corrected),
		}}

		result, err := client.GetLiveDeltasFromOrders(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, result.Deltas.Len())

		recent, err := db.ReadRecentFilledOrders(10)
		require.NoError(t, err)
		require.Equal(t, 1, recent.Len())
		assert.Equal(t, 0.59, recent.Items()[0].Price)
	})

	t.Run("low confidence flag is carried through", func(t *testing.T) {
		db := portfoliodb.NewInMemoryPortfolioDatabase()
		client := newClient(db, &stubRecognitionClient{orders: &eventmodels.UnvalidatedLiveOrdersResult{
			LiveOrders:                     eventmodels.NewTimeSortedSet[eventmodels.FilledOrder](),
			SkippedOrderDueToLowConfidence: true,
		}})

		result, err := client.GetLiveDeltasFromOrders(context.Background())
		require.NoError(t, err)
		assert.True(t, result.SkippedOrderDueToLowConfidence)
		assert.Equal(t, 0, result.Deltas.Len())
	})

	t.Run("invalid portfolio state propagates unmodified", func(t *testing.T) {
		db := portfoliodb.NewInMemoryPortfolioDatabase()
		sourceErr := eventmodels.NewInvalidPortfolioStateError("header layout changed")
		client := newClient(db, &stubRecognitionClient{ordersErr: sourceErr})

		_, err := client.GetLiveDeltasFromOrders(context.Background())
		require.Error(t, err)
		assert.Equal(t, sourceErr, err)

		recent, err := db.ReadRecentFilledOrders(10)
		require.NoError(t, err)
		assert.Equal(t, 0, recent.Len())
	})
}

func TestPortfolioClientGetLiveDeltasFromPositions(t *testing.T) {
	t.Run("snapshot diff flows through", func(t *testing.T) {
		db := portfoliodb.NewInMemoryPortfolioDatabase()
		require.NoError(t, db.UpsertPosition(eventmodels.NewPosition("ACB_201127C7", 50, 0.55)))

		client := NewPortfolioClient(&stubRecognitionClient{positions: []*eventmodels.Position{
			eventmodels.NewPosition("ACB_201127C7", 100, 0.60),
		}}, &stubMarketDataClient{}, db)

		deltas, err := client.GetLiveDeltasFromPositions(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, deltas.Len())
		assert.Equal(t, eventmodels.DeltaTypeAdd, deltas.Items()[0].DeltaType)
	})

	t.Run("invalid portfolio state propagates unmodified", func(t *testing.T) {
		db := portfoliodb.NewInMemoryPortfolioDatabase()
		sourceErr := eventmodels.NewInvalidPortfolioStateError("positions page unreadable")

		client := NewPortfolioClient(&stubRecognitionClient{positionsErr: sourceErr}, &stubMarketDataClient{}, db)

		_, err := client.GetLiveDeltasFromPositions(context.Background())
		require.Error(t, err)
		assert.Equal(t, sourceErr, err)
	})
}
