package eventmodels

import (
	"fmt"
	"strings"
	"time"
)

// BrokerOrderDTO is a single order as returned by the broker's orders
// endpoint.
type BrokerOrderDTO struct {
	ID              uint    `json:"id"`
	Type            string  `json:"type"`
	Symbol          string  `json:"symbol"`
	Side            string  `json:"side"`
	Quantity        float64 `json:"quantity"`
	Status          string  `json:"status"`
	Duration        string  `json:"duration"`
	AvgFillPrice    float64 `json:"avg_fill_price"`
	ExecQuantity    float64 `json:"exec_quantity"`
	TransactionDate string  `json:"transaction_date"`
	Class           string  `json:"class"`
	OptionSymbol    *string `json:"option_symbol"`
}

const BrokerOrderStatusFilled = "filled"

// ToFilledOrder converts a filled broker order to the standard model. Option
// orders report their contract under option_symbol in OCC format.
func (dto *BrokerOrderDTO) ToFilledOrder() (FilledOrder, error) {
	if dto.Status != BrokerOrderStatusFilled {
		return FilledOrder{}, fmt.Errorf("BrokerOrderDTO.ToFilledOrder: order %d is not filled: %s", dto.ID, dto.Status)
	}

	transactionDate, err := time.Parse(time.RFC3339, dto.TransactionDate)
	if err != nil {
		return FilledOrder{}, fmt.Errorf("BrokerOrderDTO.ToFilledOrder: failed to parse transaction date: %w", err)
	}

	symbol := OptionSymbol(dto.Symbol)
	if dto.OptionSymbol != nil {
		symbol, err = NewOptionSymbolFromOCC(*dto.OptionSymbol)
		if err != nil {
			return FilledOrder{}, fmt.Errorf("BrokerOrderDTO.ToFilledOrder: failed to convert option symbol: %w", err)
		}
	}

	instruction := InstructionType(strings.ToUpper(dto.Side))
	if err := instruction.Validate(); err != nil {
		return FilledOrder{}, fmt.Errorf("BrokerOrderDTO.ToFilledOrder: side %q: %w", dto.Side, err)
	}

	orderType := OrderTypeMarket
	if dto.Type == "limit" {
		orderType = OrderTypeLimit
	}

	return NewFilledOrder(symbol, instruction, orderType, dto.AvgFillPrice, dto.ExecQuantity, transactionDate), nil
}
