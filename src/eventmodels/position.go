package eventmodels

import (
	"fmt"
	"strconv"
	"time"
)

// Position is the currently held quantity of a symbol. LongQuantity is
// signed: short positions carry a negative value.
type Position struct {
	Symbol       OptionSymbol
	LongQuantity float64
	AveragePrice float64
	Type         AssetType
	UpdatedAt    time.Time
}

func NewPosition(symbol OptionSymbol, longQuantity float64, averagePrice float64) *Position {
	return &Position{
		Symbol:       symbol,
		LongQuantity: longQuantity,
		AveragePrice: averagePrice,
		Type:         ClassifySymbol(symbol),
		UpdatedAt:    time.Now().UTC(),
	}
}

func (p *Position) String() string {
	quantityStr := strconv.FormatFloat(p.LongQuantity, 'f', -1, 64)
	return fmt.Sprintf("%s %s @%.2f (%s)", quantityStr, p.Symbol, p.AveragePrice, p.Type)
}
