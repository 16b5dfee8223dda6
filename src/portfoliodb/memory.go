package portfoliodb

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rwilkes/optrack/src/eventmodels"
)

// InMemoryPortfolioDatabase keeps the portfolio in process memory. Used by
// tests and dry runs; it implements the same contract as the postgres
// database.
type InMemoryPortfolioDatabase struct {
	mutex     sync.Mutex
	orders    []eventmodels.FilledOrder
	positions map[eventmodels.OptionSymbol]*eventmodels.Position
	deltas    []*eventmodels.PositionDelta
}

func NewInMemoryPortfolioDatabase() *InMemoryPortfolioDatabase {
	return &InMemoryPortfolioDatabase{
		positions: make(map[eventmodels.OptionSymbol]*eventmodels.Position),
	}
}

func (m *InMemoryPortfolioDatabase) ReadRecentFilledOrders(n int) (*eventmodels.TimeSortedSet[eventmodels.FilledOrder], error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	sorted := make([]eventmodels.FilledOrder, len(m.orders))
	copy(sorted, m.orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FilledAt.Before(sorted[j].FilledAt)
	})

	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}

	return eventmodels.NewTimeSortedSet(sorted...), nil
}

func (m *InMemoryPortfolioDatabase) InsertFilledOrders(orders []eventmodels.FilledOrder) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, order := range orders {
		for i := range m.orders {
			if m.orders[i].SameOrderAs(order) {
				return fmt.Errorf("InMemoryPortfolioDatabase.InsertFilledOrders: duplicate order identity %s", order.Identity())
			}
		}

		m.orders = append(m.orders, order)
	}

	return nil
}

func (m *InMemoryPortfolioDatabase) UpdateFilledOrders(orders []eventmodels.FilledOrder) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, updated := range orders {
		for i := range m.orders {
			if m.orders[i].SameOrderAs(updated) {
				m.orders[i].Price = updated.Price
				m.orders[i].OrderType = updated.OrderType
				break
			}
		}
	}

	return nil
}

func (m *InMemoryPortfolioDatabase) GetPosition(symbol eventmodels.OptionSymbol) (*eventmodels.Position, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	position, found := m.positions[symbol]
	if !found {
		return nil, nil
	}

	clone := *position
	return &clone, nil
}

func (m *InMemoryPortfolioDatabase) GetAllPositions() ([]*eventmodels.Position, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	positions := make([]*eventmodels.Position, 0, len(m.positions))
	for _, position := range m.positions {
		clone := *position
		positions = append(positions, &clone)
	}

	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Symbol < positions[j].Symbol
	})

	return positions, nil
}

func (m *InMemoryPortfolioDatabase) UpsertPosition(position *eventmodels.Position) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	clone := *position
	m.positions[position.Symbol] = &clone
	return nil
}

func (m *InMemoryPortfolioDatabase) DeletePosition(symbol eventmodels.OptionSymbol) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.positions, symbol)
	return nil
}

func (m *InMemoryPortfolioDatabase) AppendDeltas(deltas []*eventmodels.PositionDelta) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.deltas = append(m.deltas, deltas...)
	return nil
}

func (m *InMemoryPortfolioDatabase) ReadDeltas() ([]*eventmodels.PositionDelta, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	deltas := make([]*eventmodels.PositionDelta, len(m.deltas))
	copy(deltas, m.deltas)
	sort.SliceStable(deltas, func(i, j int) bool {
		return deltas[i].ComputedAt.Before(deltas[j].ComputedAt)
	})

	return deltas, nil
}
