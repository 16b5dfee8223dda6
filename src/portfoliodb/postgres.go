package portfoliodb

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rwilkes/optrack/src/eventmodels"
)

// GormPortfolioDatabase persists the portfolio in postgres via gorm.
type GormPortfolioDatabase struct {
	db *gorm.DB
}

func NewGormPortfolioDatabase(db *gorm.DB) *GormPortfolioDatabase {
	return &GormPortfolioDatabase{db: db}
}

func (g *GormPortfolioDatabase) ReadRecentFilledOrders(n int) (*eventmodels.TimeSortedSet[eventmodels.FilledOrder], error) {
	var records []FilledOrderRecord
	if result := g.db.Order("filled_at desc").Limit(n).Find(&records); result.Error != nil {
		return nil, fmt.Errorf("GormPortfolioDatabase.ReadRecentFilledOrders: failed to query filled orders: %w", result.Error)
	}

	set := eventmodels.NewTimeSortedSet[eventmodels.FilledOrder]()
	for _, record := range records {
		set.Add(record.ToFilledOrder())
	}

	return set, nil
}

func (g *GormPortfolioDatabase) InsertFilledOrders(orders []eventmodels.FilledOrder) error {
	for _, order := range orders {
		if result := g.db.Create(NewFilledOrderRecord(order)); result.Error != nil {
			return fmt.Errorf("GormPortfolioDatabase.InsertFilledOrders: failed to insert order %v: %w", order, result.Error)
		}
	}

	return nil
}

func (g *GormPortfolioDatabase) UpdateFilledOrders(orders []eventmodels.FilledOrder) error {
	for _, order := range orders {
		result := g.db.Model(&FilledOrderRecord{}).
			Where("identity_key = ?", order.Identity()).
			Updates(map[string]interface{}{
				"price":      order.Price,
				"order_type": string(order.OrderType),
			})
		if result.Error != nil {
			return fmt.Errorf("GormPortfolioDatabase.UpdateFilledOrders: failed to update order %v: %w", order, result.Error)
		}
	}

	return nil
}

func (g *GormPortfolioDatabase) GetPosition(symbol eventmodels.OptionSymbol) (*eventmodels.Position, error) {
	var record PositionRecord
	result := g.db.Where("symbol = ?", string(symbol)).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("GormPortfolioDatabase.GetPosition: failed to query position %s: %w", symbol, result.Error)
	}

	return record.ToPosition(), nil
}

func (g *GormPortfolioDatabase) GetAllPositions() ([]*eventmodels.Position, error) {
	var records []PositionRecord
	if result := g.db.Find(&records); result.Error != nil {
		return nil, fmt.Errorf("GormPortfolioDatabase.GetAllPositions: failed to query positions: %w", result.Error)
	}

	positions := make([]*eventmodels.Position, 0, len(records))
	for i := range records {
		positions = append(positions, records[i].ToPosition())
	}

	return positions, nil
}

func (g *GormPortfolioDatabase) UpsertPosition(position *eventmodels.Position) error {
	var record PositionRecord
	result := g.db.Where("symbol = ?", string(position.Symbol)).First(&record)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("GormPortfolioDatabase.UpsertPosition: failed to query position %s: %w", position.Symbol, result.Error)
		}

		record = PositionRecord{Symbol: string(position.Symbol)}
	}

	record.LongQuantity = position.LongQuantity
	record.AveragePrice = position.AveragePrice
	record.AssetType = string(position.Type)
	record.UpdatedOn = position.UpdatedAt
	if record.UpdatedOn.IsZero() {
		record.UpdatedOn = time.Now().UTC()
	}

	if result := g.db.Save(&record); result.Error != nil {
		return fmt.Errorf("GormPortfolioDatabase.UpsertPosition: failed to save position %s: %w", position.Symbol, result.Error)
	}

	return nil
}

func (g *GormPortfolioDatabase) DeletePosition(symbol eventmodels.OptionSymbol) error {
	// Hard delete. A soft-deleted row would still occupy the symbol's
	// unique index and block the symbol from reopening later.
	if result := g.db.Unscoped().Where("symbol = ?", string(symbol)).Delete(&PositionRecord{}); result.Error != nil {
		return fmt.Errorf("GormPortfolioDatabase.DeletePosition: failed to delete position %s: %w", symbol, result.Error)
	}

	return nil
}

func (g *GormPortfolioDatabase) AppendDeltas(deltas []*eventmodels.PositionDelta) error {
	for _, delta := range deltas {
		if result := g.db.Create(NewPositionDeltaRecord(delta)); result.Error != nil {
			return fmt.Errorf("GormPortfolioDatabase.AppendDeltas: failed to insert delta %v: %w", delta, result.Error)
		}
	}

	return nil
}

func (g *GormPortfolioDatabase) ReadDeltas() ([]*eventmodels.PositionDelta, error) {
	var records []PositionDeltaRecord
	if result := g.db.Order("computed_at asc").Find(&records); result.Error != nil {
		return nil, fmt.Errorf("GormPortfolioDatabase.ReadDeltas: failed to query deltas: %w", result.Error)
	}

	deltas := make([]*eventmodels.PositionDelta, 0, len(records))
	for i := range records {
		deltas = append(deltas, records[i].ToPositionDelta())
	}

	return deltas, nil
}
