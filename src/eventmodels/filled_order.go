package eventmodels

import (
	"fmt"
	"strconv"
	"time"
)

// FilledOrder is a completed order observed at the live portfolio. Two
// observations describe the same order when symbol, instruction, quantity
// and fill time (to the second) match; price and order type may still differ
// between observations of the same order, because the recognition source can
// misread them.
type FilledOrder struct {
	Symbol      OptionSymbol
	Instruction InstructionType
	OrderType   OrderType
	Price       float64
	Quantity    float64
	CancelTime  *time.Time
	FilledAt    time.Time
}

func NewFilledOrder(symbol OptionSymbol, instruction InstructionType, orderType OrderType, price float64, quantity float64, filledAt time.Time) FilledOrder {
	return FilledOrder{
		Symbol:      symbol,
		Instruction: instruction,
		OrderType:   orderType,
		Price:       price,
		Quantity:    quantity,
		FilledAt:    filledAt,
	}
}

func (o FilledOrder) GetTimestamp() time.Time {
	return o.FilledAt
}

// Identity is the key under which duplicate observations collapse. The fill
// timestamp is truncated to the second to absorb sub-second jitter between
// observations.
func (o FilledOrder) Identity() string {
	quantityStr := strconv.FormatFloat(o.Quantity, 'f', -1, 64)
	return fmt.Sprintf("%s|%s|%s|%d", o.Symbol, o.Instruction, quantityStr, o.FilledAt.Truncate(time.Second).Unix())
}

func (o FilledOrder) SameOrderAs(other FilledOrder) bool {
	return o.Identity() == other.Identity()
}

// EqualsRecord reports whether the observation matches an already persisted
// record exactly, including the fields an updated observation may correct.
func (o FilledOrder) EqualsRecord(other FilledOrder) bool {
	return o.SameOrderAs(other) && o.Price == other.Price && o.OrderType == other.OrderType
}

func (o FilledOrder) String() string {
	quantityStr := strconv.FormatFloat(o.Quantity, 'f', -1, 64)
	return fmt.Sprintf("%s %s %s @%.2f at %s", o.Instruction, quantityStr, o.Symbol, o.Price, o.FilledAt.Format("2006-01-02 15:04:05"))
}
