package eventservices

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	log "github.com/sirupsen/logrus"

	"github.com/rwilkes/optrack/src/eventmodels"
)

// PolygonMarketDataClient resolves day ranges via the Polygon aggregates
// API.
type PolygonMarketDataClient struct {
	Client *polygon.Client
	Now    func() time.Time
}

func NewPolygonMarketDataClient(apiKey string) *PolygonMarketDataClient {
	return &PolygonMarketDataClient{
		Client: polygon.New(apiKey),
		Now:    time.Now,
	}
}

func (c *PolygonMarketDataClient) GetOptionQuote(ctx context.Context, symbol eventmodels.OptionSymbol) (*eventmodels.OptionQuote, error) {
	ticker := string(symbol)
	if symbol.IsOption() {
		occ, err := symbol.OCC()
		if err != nil {
			return nil, fmt.Errorf("PolygonMarketDataClient.GetOptionQuote: %w", err)
		}

		ticker = "O:" + occ
	}

	now := c.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(dayStart),
		To:         models.Millis(now),
	}.WithOrder(models.Asc).WithAdjusted(false)

	log.Debugf("fetching polygon day aggregate for %s", ticker)

	iter := c.Client.ListAggs(ctx, params)
	for iter.Next() {
		bar := iter.Item()
		return &eventmodels.OptionQuote{
			Symbol:    symbol,
			LowPrice:  bar.Low,
			HighPrice: bar.High,
		}, nil
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("PolygonMarketDataClient.GetOptionQuote: failed to fetch day aggregate for %s: %w", symbol, err)
	}

	return nil, fmt.Errorf("PolygonMarketDataClient.GetOptionQuote: %s: %w", symbol, eventmodels.QuoteNotFoundErr)
}
