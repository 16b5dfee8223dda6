package portfoliodb

import (
	"github.com/rwilkes/optrack/src/eventmodels"
)

// PortfolioDatabase is the read/write contract the reconciliation core has
// toward durable storage. Implementations do not lock against each other;
// the caller serializes reconciliation runs per portfolio.
type PortfolioDatabase interface {
	// ReadRecentFilledOrders returns up to n of the most recently filled
	// persisted orders in ascending timestamp order.
	ReadRecentFilledOrders(n int) (*eventmodels.TimeSortedSet[eventmodels.FilledOrder], error)

	InsertFilledOrders(orders []eventmodels.FilledOrder) error

	// UpdateFilledOrders overwrites the mutable fields (price, order type)
	// of already persisted orders, matched by identity key.
	UpdateFilledOrders(orders []eventmodels.FilledOrder) error

	// GetPosition returns nil when no position is held for the symbol.
	GetPosition(symbol eventmodels.OptionSymbol) (*eventmodels.Position, error)

	GetAllPositions() ([]*eventmodels.Position, error)

	UpsertPosition(position *eventmodels.Position) error

	DeletePosition(symbol eventmodels.OptionSymbol) error

	// AppendDeltas records computed deltas in the append-only audit table.
	AppendDeltas(deltas []*eventmodels.PositionDelta) error

	// ReadDeltas returns the audit trail in ascending timestamp order.
	ReadDeltas() ([]*eventmodels.PositionDelta, error)
}
