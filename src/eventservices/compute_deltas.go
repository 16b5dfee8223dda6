package eventservices

import (
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/rwilkes/optrack/src/eventmodels"
	"github.com/rwilkes/optrack/src/eventpubsub"
	"github.com/rwilkes/optrack/src/portfoliodb"
)

// ComputeDeltasFromOrders applies each new fill to the persisted position
// for its symbol, in ascending timestamp order, and emits one delta per
// fill. Percent calculations are always relative to the position's state
// immediately prior to that fill, which is why the ordering is strict.
//
// The fills themselves are persisted alongside, so a later reconciliation
// recognizes them in its lookback window.
func ComputeDeltasFromOrders(db portfoliodb.PortfolioDatabase, newOrders *eventmodels.TimeSortedSet[eventmodels.FilledOrder]) (*eventmodels.TimeSortedSet[*eventmodels.PositionDelta], error) {
	deltas := eventmodels.NewTimeSortedSet[*eventmodels.PositionDelta]()

	for _, order := range newOrders.Items() {
		// The fill is persisted before the position is touched, so a fill
		// misclassified as new beyond the lookback window trips the
		// identity unique index while the position is still intact.
		if err := db.InsertFilledOrders([]eventmodels.FilledOrder{order}); err != nil {
			return nil, fmt.Errorf("ComputeDeltasFromOrders: failed to persist fill %v: %w", order, err)
		}

		delta, err := applyFill(db, order)
		if err != nil {
			return nil, fmt.Errorf("ComputeDeltasFromOrders: failed to apply fill %v: %w", order, err)
		}

		if err := db.AppendDeltas([]*eventmodels.PositionDelta{delta}); err != nil {
			return nil, fmt.Errorf("ComputeDeltasFromOrders: failed to record delta %v: %w", delta, err)
		}

		eventpubsub.Publish(eventpubsub.DeltaComputedEvent, eventpubsub.DeltaComputed{Delta: delta})
		deltas.Add(delta)
	}

	return deltas, nil
}

func applyFill(db portfoliodb.PortfolioDatabase, order eventmodels.FilledOrder) (*eventmodels.PositionDelta, error) {
	effect := order.Instruction.QuantityEffect(order.Quantity)

	position, err := db.GetPosition(order.Symbol)
	if err != nil {
		return nil, err
	}

	if position == nil {
		created := eventmodels.NewPosition(order.Symbol, effect, order.Price)
		created.UpdatedAt = order.FilledAt

		if err := db.UpsertPosition(created); err != nil {
			return nil, err
		}

		return eventmodels.NewPositionDelta(eventmodels.DeltaTypeNew, order.Symbol, effect, order.Price, eventmodels.PercentNotApplicable, order.FilledAt), nil
	}

	sameDirection := (effect > 0) == (position.LongQuantity > 0)

	if order.Instruction.IsOpening() && sameDirection {
		resulting := position.LongQuantity + effect
		position.AveragePrice = (math.Abs(position.LongQuantity)*position.AveragePrice + math.Abs(effect)*order.Price) / math.Abs(resulting)
		position.LongQuantity = resulting
		position.Type = eventmodels.ClassifySymbol(position.Symbol)
		position.UpdatedAt = order.FilledAt

		if err := db.UpsertPosition(position); err != nil {
			return nil, err
		}

		percent := math.Abs(effect) / math.Abs(resulting)
		return eventmodels.NewPositionDelta(eventmodels.DeltaTypeAdd, order.Symbol, effect, order.Price, percent, order.FilledAt), nil
	}

	if order.Instruction.IsOpening() {
		// An opening instruction against an opposite position reduces it.
		log.Warnf("applyFill: opening instruction %s against opposite position %v", order.Instruction, position)
	}

	prior := math.Abs(position.LongQuantity)
	closed := math.Min(math.Abs(effect), prior)
	signedClosed := closed
	if position.LongQuantity > 0 {
		signedClosed = -closed
	}

	resulting := position.LongQuantity + signedClosed
	percent := closed / prior

	if resulting == 0 {
		if err := db.DeletePosition(order.Symbol); err != nil {
			return nil, err
		}
	} else {
		position.LongQuantity = resulting
		position.UpdatedAt = order.FilledAt
		if err := db.UpsertPosition(position); err != nil {
			return nil, err
		}
	}

	return eventmodels.NewPositionDelta(eventmodels.DeltaTypeSell, order.Symbol, signedClosed, order.Price, percent, order.FilledAt), nil
}

// ComputeDeltasFromPositions diffs a freshly recognized position list
// against the persisted position table and replaces the table with the
// snapshot. This path trades fill-level prices for robustness: it
// reconciles against ground truth even when individual fill observations
// were missed. It never reads or writes the filled-orders table.
func ComputeDeltasFromPositions(db portfoliodb.PortfolioDatabase, livePositions []*eventmodels.Position) (*eventmodels.TimeSortedSet[*eventmodels.PositionDelta], error) {
	persisted, err := db.GetAllPositions()
	if err != nil {
		return nil, fmt.Errorf("ComputeDeltasFromPositions: failed to read positions: %w", err)
	}

	previous := make(map[eventmodels.OptionSymbol]*eventmodels.Position, len(persisted))
	for _, position := range persisted {
		previous[position.Symbol] = position
	}

	now := time.Now().UTC()
	deltas := eventmodels.NewTimeSortedSet[*eventmodels.PositionDelta]()

	emit := func(delta *eventmodels.PositionDelta) error {
		if err := db.AppendDeltas([]*eventmodels.PositionDelta{delta}); err != nil {
			return fmt.Errorf("ComputeDeltasFromPositions: failed to record delta %v: %w", delta, err)
		}

		eventpubsub.Publish(eventpubsub.DeltaComputedEvent, eventpubsub.DeltaComputed{Delta: delta})
		deltas.Add(delta)
		return nil
	}

	for _, live := range livePositions {
		live.Type = eventmodels.ClassifySymbol(live.Symbol)
		live.UpdatedAt = now

		prev, held := previous[live.Symbol]
		delete(previous, live.Symbol)

		if err := db.UpsertPosition(live); err != nil {
			return nil, fmt.Errorf("ComputeDeltasFromPositions: failed to persist position %s: %w", live.Symbol, err)
		}

		if !held {
			if err := emit(eventmodels.NewPositionDelta(eventmodels.DeltaTypeNew, live.Symbol, live.LongQuantity, live.AveragePrice, eventmodels.PercentNotApplicable, now)); err != nil {
				return nil, err
			}
			continue
		}

		diff := live.LongQuantity - prev.LongQuantity
		if diff == 0 {
			continue
		}

		if (diff > 0) == (prev.LongQuantity > 0) {
			// position grew
			percent := math.Abs(diff) / math.Abs(live.LongQuantity)
			if err := emit(eventmodels.NewPositionDelta(eventmodels.DeltaTypeAdd, live.Symbol, diff, live.AveragePrice, percent, now)); err != nil {
				return nil, err
			}
			continue
		}

		percent := math.Min(math.Abs(diff)/math.Abs(prev.LongQuantity), 1)
		if err := emit(eventmodels.NewPositionDelta(eventmodels.DeltaTypeSell, live.Symbol, diff, prev.AveragePrice, percent, now)); err != nil {
			return nil, err
		}
	}

	// whatever is left was fully closed since the last snapshot
	for symbol, prev := range previous {
		if err := db.DeletePosition(symbol); err != nil {
			return nil, fmt.Errorf("ComputeDeltasFromPositions: failed to remove position %s: %w", symbol, err)
		}

		if err := emit(eventmodels.NewPositionDelta(eventmodels.DeltaTypeSell, symbol, -prev.LongQuantity, prev.AveragePrice, 1, now)); err != nil {
			return nil, err
		}
	}

	return deltas, nil
}
