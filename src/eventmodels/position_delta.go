package eventmodels

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type DeltaType string

const (
	DeltaTypeNew  DeltaType = "NEW"
	DeltaTypeAdd  DeltaType = "ADD"
	DeltaTypeSell DeltaType = "SELL"
)

// PercentNotApplicable is the Percent value carried by NEW deltas, which are
// always a whole fresh position. ADD and SELL percents are strictly greater
// than zero, so the sentinel is unambiguous.
const PercentNotApplicable float64 = 0

// PositionDelta is a record of how a position changed. Deltas are emitted
// once and never mutated; they form the append-only audit trail of
// reconciliation.
//
// Quantity is the signed effect on the position's long quantity, so that for
// any symbol the sum of applied delta quantities equals the persisted
// position's current quantity.
//
// Percent depends on DeltaType:
//
//	NEW:  not applicable
//	ADD:  fraction by which the existing position grew (added / resulting)
//	SELL: fraction of the existing position that was closed (closed / prior)
type PositionDelta struct {
	ID         uuid.UUID
	DeltaType  DeltaType
	Symbol     OptionSymbol
	Quantity   float64
	Price      float64
	Percent    float64
	ComputedAt time.Time
}

func NewPositionDelta(deltaType DeltaType, symbol OptionSymbol, quantity float64, price float64, percent float64, computedAt time.Time) *PositionDelta {
	return &PositionDelta{
		ID:         uuid.New(),
		DeltaType:  deltaType,
		Symbol:     symbol,
		Quantity:   quantity,
		Price:      price,
		Percent:    percent,
		ComputedAt: computedAt,
	}
}

func (d *PositionDelta) GetTimestamp() time.Time {
	return d.ComputedAt
}

func (d *PositionDelta) Identity() string {
	return d.ID.String()
}

func (d *PositionDelta) String() string {
	quantityStr := strconv.FormatFloat(d.Quantity, 'f', -1, 64)
	return fmt.Sprintf("%s %s %s @%.2f (%.0f%%)", d.DeltaType, quantityStr, d.Symbol, d.Price, d.Percent*100)
}
