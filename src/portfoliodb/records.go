package portfoliodb

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rwilkes/optrack/src/eventmodels"
)

type FilledOrderRecord struct {
	gorm.Model
	IdentityKey string     `gorm:"column:identity_key;type:text;not null;uniqueIndex"`
	Symbol      string     `gorm:"column:symbol;type:text;not null"`
	Instruction string     `gorm:"column:instruction;type:text;not null"`
	OrderType   string     `gorm:"column:order_type;type:text;not null"`
	Price       float64    `gorm:"column:price;type:numeric;not null"`
	Quantity    float64    `gorm:"column:quantity;type:numeric;not null"`
	CancelTime  *time.Time `gorm:"column:cancel_time;type:timestamp"`
	FilledAt    time.Time  `gorm:"column:filled_at;type:timestamp;not null;index"`
}

func (FilledOrderRecord) TableName() string {
	return "filled_orders"
}

func (r *FilledOrderRecord) ToFilledOrder() eventmodels.FilledOrder {
	order := eventmodels.NewFilledOrder(
		eventmodels.OptionSymbol(r.Symbol),
		eventmodels.InstructionType(r.Instruction),
		eventmodels.OrderType(r.OrderType),
		r.Price,
		r.Quantity,
		r.FilledAt,
	)
	order.CancelTime = r.CancelTime
	return order
}

func NewFilledOrderRecord(order eventmodels.FilledOrder) *FilledOrderRecord {
	return &FilledOrderRecord{
		IdentityKey: order.Identity(),
		Symbol:      string(order.Symbol),
		Instruction: string(order.Instruction),
		OrderType:   string(order.OrderType),
		Price:       order.Price,
		Quantity:    order.Quantity,
		CancelTime:  order.CancelTime,
		FilledAt:    order.FilledAt,
	}
}

type PositionRecord struct {
	gorm.Model
	Symbol       string    `gorm:"column:symbol;type:text;not null;uniqueIndex"`
	LongQuantity float64   `gorm:"column:long_quantity;type:numeric;not null"`
	AveragePrice float64   `gorm:"column:average_price;type:numeric;not null"`
	AssetType    string    `gorm:"column:asset_type;type:text;not null"`
	UpdatedOn    time.Time `gorm:"column:updated_on;type:timestamp;not null"`
}

func (PositionRecord) TableName() string {
	return "positions"
}

func (r *PositionRecord) ToPosition() *eventmodels.Position {
	return &eventmodels.Position{
		Symbol:       eventmodels.OptionSymbol(r.Symbol),
		LongQuantity: r.LongQuantity,
		AveragePrice: r.AveragePrice,
		Type:         eventmodels.AssetType(r.AssetType),
		UpdatedAt:    r.UpdatedOn,
	}
}

type PositionDeltaRecord struct {
	gorm.Model
	DeltaID    uuid.UUID `gorm:"column:delta_id;type:uuid;not null;uniqueIndex"`
	DeltaType  string    `gorm:"column:delta_type;type:text;not null"`
	Symbol     string    `gorm:"column:symbol;type:text;not null"`
	Quantity   float64   `gorm:"column:quantity;type:numeric;not null"`
	Price      float64   `gorm:"column:price;type:numeric;not null"`
	Percent    float64   `gorm:"column:percent;type:numeric;not null"`
	ComputedAt time.Time `gorm:"column:computed_at;type:timestamp;not null;index"`
}

func (PositionDeltaRecord) TableName() string {
	return "position_deltas"
}

func (r *PositionDeltaRecord) ToPositionDelta() *eventmodels.PositionDelta {
	return &eventmodels.PositionDelta{
		ID:         r.DeltaID,
		DeltaType:  eventmodels.DeltaType(r.DeltaType),
		Symbol:     eventmodels.OptionSymbol(r.Symbol),
		Quantity:   r.Quantity,
		Price:      r.Price,
		Percent:    r.Percent,
		ComputedAt: r.ComputedAt,
	}
}

func NewPositionDeltaRecord(delta *eventmodels.PositionDelta) *PositionDeltaRecord {
	return &PositionDeltaRecord{
		DeltaID:    delta.ID,
		DeltaType:  string(delta.DeltaType),
		Symbol:     string(delta.Symbol),
		Quantity:   delta.Quantity,
		Price:      delta.Price,
		Percent:    delta.Percent,
		ComputedAt: delta.ComputedAt,
	}
}
