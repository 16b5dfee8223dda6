package eventservices

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rwilkes/optrack/src/eventmodels"
)

type tradierHistoryDayDTO struct {
	Date  string  `json:"date"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

type tradierHistoryResponseDTO struct {
	History struct {
		Day tradierHistoryDayDTO `json:"day"`
	} `json:"history"`
}

// FetchTradierDayRange fetches a single day's OHLC for a symbol from the
// Tradier markets/history endpoint.
func FetchTradierDayRange(ctx context.Context, baseUrl, bearerToken, symbol string, date time.Time) (*tradierHistoryDayDTO, error) {
	client := http.Client{
		Timeout: 10 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseUrl, nil)
	if err != nil {
		return nil, fmt.Errorf("FetchTradierDayRange: failed to create request: %w", err)
	}

	dateString := date.Format("2006-01-02")

	q := req.URL.Query()
	q.Add("symbol", symbol)
	q.Add("interval", "daily")
	q.Add("start", dateString)
	q.Add("end", dateString)

	req.URL.RawQuery = q.Encode()
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", bearerToken))

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("FetchTradierDayRange: failed to fetch history: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FetchTradierDayRange: failed to fetch history, http code %v", res.Status)
	}

	var dto tradierHistoryResponseDTO
	if err := json.NewDecoder(res.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("FetchTradierDayRange: failed to decode json: %w", err)
	}

	day := dto.History.Day

	if day.Date != dateString {
		return nil, fmt.Errorf("FetchTradierDayRange: expected date %s, got %s", dateString, day.Date)
	}

	if day.High == 0 {
		return nil, fmt.Errorf("FetchTradierDayRange: high price is 0")
	}

	if day.Low == 0 {
		return nil, fmt.Errorf("FetchTradierDayRange: low price is 0")
	}

	return &day, nil
}

// TradierMarketDataClient resolves day ranges via the Tradier market data
// API.
type TradierMarketDataClient struct {
	HistoryURL  string
	BearerToken string
	Now         func() time.Time
}

func NewTradierMarketDataClient(historyURL, bearerToken string) *TradierMarketDataClient {
	return &TradierMarketDataClient{
		HistoryURL:  historyURL,
		BearerToken: bearerToken,
		Now:         time.Now,
	}
}

func (c *TradierMarketDataClient) GetOptionQuote(ctx context.Context, symbol eventmodels.OptionSymbol) (*eventmodels.OptionQuote, error) {
	requestSymbol := string(symbol)
	if symbol.IsOption() {
		occ, err := symbol.OCC()
		if err != nil {
			return nil, fmt.Errorf("TradierMarketDataClient.GetOptionQuote: %w", err)
		}

		requestSymbol = occ
	}

	day, err := FetchTradierDayRange(ctx, c.HistoryURL, c.BearerToken, requestSymbol, c.Now())
	if err != nil {
		return nil, fmt.Errorf("TradierMarketDataClient.GetOptionQuote: failed to fetch day range for %s: %w", symbol, err)
	}

	return &eventmodels.OptionQuote{
		Symbol:    symbol,
		LowPrice:  day.Low,
		HighPrice: day.High,
	}, nil
}
