package recognition

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/rwilkes/optrack/src/eventmodels"
)

// TradierRecognitionClient recognizes live orders straight from the broker's
// orders endpoint. It has no session to manage, and it cannot observe the
// position list, so the position path reports ErrPositionsNotSupported.
type TradierRecognitionClient struct {
	OrdersURL   string
	BearerToken string
	client      http.Client
}

var ErrPositionsNotSupported = fmt.Errorf("position recognition is not supported by the broker API source")

func NewTradierRecognitionClient(brokerURL, accountID, bearerToken string) *TradierRecognitionClient {
	return &TradierRecognitionClient{
		OrdersURL:   fmt.Sprintf("%s/%s/orders", brokerURL, accountID),
		BearerToken: bearerToken,
		client: http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *TradierRecognitionClient) Login(ctx context.Context) error {
	return nil
}

func (c *TradierRecognitionClient) Logout(ctx context.Context) error {
	return nil
}

func (c *TradierRecognitionClient) RecognizeLiveOrders(ctx context.Context) (*eventmodels.UnvalidatedLiveOrdersResult, error) {
	dtos, err := c.fetchOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("TradierRecognitionClient.RecognizeLiveOrders: %w", err)
	}

	result := &eventmodels.UnvalidatedLiveOrdersResult{
		LiveOrders: eventmodels.NewTimeSortedSet[eventmodels.FilledOrder](),
	}

	for _, dto := range dtos {
		if dto.Status != eventmodels.BrokerOrderStatusFilled {
			continue
		}

		order, err := dto.ToFilledOrder()
		if err != nil {
			log.Warnf("TradierRecognitionClient.RecognizeLiveOrders: dropping order %d: %v", dto.ID, err)
			continue
		}

		result.LiveOrders.Add(order)
	}

	return result, nil
}

func (c *TradierRecognitionClient) RecognizeLivePositions(ctx context.Context) ([]*eventmodels.Position, error) {
	return nil, ErrPositionsNotSupported
}

// IsOrderOpen reports whether the given order is still working at the
// broker.
func (c *TradierRecognitionClient) IsOrderOpen(ctx context.Context, orderID uint) (bool, error) {
	dtos, err := c.fetchOrders(ctx)
	if err != nil {
		return false, fmt.Errorf("TradierRecognitionClient.IsOrderOpen: %w", err)
	}

	for _, dto := range dtos {
		if dto.ID != orderID {
			continue
		}

		switch dto.Status {
		case "open", "pending", "partially_filled":
			return true, nil
		}

		return false, nil
	}

	return false, nil
}

// CancelOrder requests cancellation of a working order.
func (c *TradierRecognitionClient) CancelOrder(ctx context.Context, orderID uint) error {
	requestURL := fmt.Sprintf("%s/%d", c.OrdersURL, orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, requestURL, nil)
	if err != nil {
		return fmt.Errorf("TradierRecognitionClient.CancelOrder: failed to create request: %w", err)
	}

	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.BearerToken))

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("TradierRecognitionClient.CancelOrder: failed to cancel order %d: %w", orderID, err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("TradierRecognitionClient.CancelOrder: failed to cancel order %d: %s", orderID, res.Status)
	}

	return nil
}

func (c *TradierRecognitionClient) fetchOrders(ctx context.Context) ([]*eventmodels.BrokerOrderDTO, error) {
	params := url.Values{}
	params.Add("includeTags", "true")

	requestURL := fmt.Sprintf("%s?%s", c.OrdersURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetchOrders: failed to create request: %w", err)
	}

	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.BearerToken))

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetchOrders: failed to fetch orders: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetchOrders: failed to fetch orders: %s", res.Status)
	}

	bytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("fetchOrders: failed to read response body: %w", err)
	}

	return parseOrdersResponse(bytes)
}

// parseOrdersResponse handles the orders envelope, where "orders" is the
// string "null" when the account has none, and "order" is a bare object when
// there is exactly one.
func parseOrdersResponse(bytes []byte) ([]*eventmodels.BrokerOrderDTO, error) {
	var envelope struct {
		Orders json.RawMessage `json:"orders"`
	}

	if err := json.Unmarshal(bytes, &envelope); err != nil {
		return nil, fmt.Errorf("parseOrdersResponse: failed to parse response body: %w", err)
	}

	if len(envelope.Orders) == 0 || string(envelope.Orders) == `null` || string(envelope.Orders) == `"null"` {
		return nil, nil
	}

	var inner struct {
		Order json.RawMessage `json:"order"`
	}

	if err := json.Unmarshal(envelope.Orders, &inner); err != nil {
		return nil, fmt.Errorf("parseOrdersResponse: failed to parse orders envelope: %w", err)
	}

	if len(inner.Order) == 0 || string(inner.Order) == `null` {
		return nil, nil
	}

	var list []*eventmodels.BrokerOrderDTO
	if err := json.Unmarshal(inner.Order, &list); err == nil {
		return list, nil
	}

	var single eventmodels.BrokerOrderDTO
	if err := json.Unmarshal(inner.Order, &single); err != nil {
		return nil, fmt.Errorf("parseOrdersResponse: failed to parse order list: %w", err)
	}

	return []*eventmodels.BrokerOrderDTO{&single}, nil
}
