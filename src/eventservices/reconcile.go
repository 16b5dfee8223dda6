package eventservices

import (
	"context"
	"fmt"

	"github.com/rwilkes/optrack/src/eventmodels"
	"github.com/rwilkes/optrack/src/portfoliodb"
)

// DefaultOrderLookback is how many of the most recently persisted fills are
// checked when classifying recognized orders.
const DefaultOrderLookback = 10

// RecognitionClient is the capability a recognition source offers: a broker
// API poller or a screen-reading pipeline. RecognizeLiveOrders and
// RecognizeLivePositions return an InvalidPortfolioStateError when the
// observed state is not in a recognizable format.
type RecognitionClient interface {
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	RecognizeLiveOrders(ctx context.Context) (*eventmodels.UnvalidatedLiveOrdersResult, error)
	RecognizeLivePositions(ctx context.Context) ([]*eventmodels.Position, error)
}

// PortfolioClient sequences recognition, validation, classification and
// delta computation over a persisted portfolio. It keeps no state of its
// own; each call is a read-modify-write against the database, and the
// caller must serialize calls per portfolio.
type PortfolioClient struct {
	Recognition RecognitionClient
	MarketData  MarketDataClient
	Database    portfoliodb.PortfolioDatabase
	Lookback    int
}

func NewPortfolioClient(recognition RecognitionClient, marketData MarketDataClient, database portfoliodb.PortfolioDatabase) *PortfolioClient {
	return &PortfolioClient{
		Recognition: recognition,
		MarketData:  marketData,
		Database:    database,
		Lookback:    DefaultOrderLookback,
	}
}

// GetLiveDeltasFromOrders reconciles from the order-fill view. Calling it
// twice over an unchanged source yields an empty delta series on the second
// call: the classifier recognizes every fill in its lookback window and
// discards it.
func (c *PortfolioClient) GetLiveDeltasFromOrders(ctx context.Context) (*eventmodels.LiveDeltasResult, error) {
	unvalidated, err := c.Recognition.RecognizeLiveOrders(ctx)
	if err != nil {
		// source-caused failures surface unmodified; nothing has been
		// committed yet
		return nil, err
	}

	validated := ValidateLiveOrders(ctx, c.MarketData, unvalidated.LiveOrders)

	deltas := eventmodels.NewTimeSortedSet[*eventmodels.PositionDelta]()
	if len(validated) > 0 {
		orders := make([]eventmodels.FilledOrder, 0, len(validated))
		for order := range validated {
			orders = append(orders, order)
		}

		classified, err := IdentifyNewAndUpdatedOrders(c.Database, eventmodels.NewTimeSortedSet(orders...), c.Lookback)
		if err != nil {
			return nil, fmt.Errorf("PortfolioClient.GetLiveDeltasFromOrders: %w", err)
		}

		if classified.UpdatedOrders.Len() > 0 {
			if err := c.Database.UpdateFilledOrders(classified.UpdatedOrders.Items()); err != nil {
				return nil, fmt.Errorf("PortfolioClient.GetLiveDeltasFromOrders: failed to persist updated orders: %w", err)
			}
		}

		deltas, err = ComputeDeltasFromOrders(c.Database, classified.NewOrders)
		if err != nil {
			return nil, fmt.Errorf("PortfolioClient.GetLiveDeltasFromOrders: %w", err)
		}
	}

	quotes := make(map[eventmodels.OptionSymbol]eventmodels.OptionQuote, len(validated))
	for order, quote := range validated {
		quotes[order.Symbol] = quote
	}

	return &eventmodels.LiveDeltasResult{
		Deltas:                         deltas,
		Quotes:                         quotes,
		SkippedOrderDueToLowConfidence: unvalidated.SkippedOrderDueToLowConfidence,
	}, nil
}

// GetLiveDeltasFromPositions reconciles from a full position list. An
// InvalidPortfolioStateError from the recognition source propagates to the
// caller unmodified; nothing is committed in that case.
func (c *PortfolioClient) GetLiveDeltasFromPositions(ctx context.Context) (*eventmodels.TimeSortedSet[*eventmodels.PositionDelta], error) {
	livePositions, err := c.Recognition.RecognizeLivePositions(ctx)
	if err != nil {
		return nil, err
	}

	return ComputeDeltasFromPositions(c.Database, livePositions)
}
