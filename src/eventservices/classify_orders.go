package eventservices

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/rwilkes/optrack/src/eventmodels"
	"github.com/rwilkes/optrack/src/eventpubsub"
	"github.com/rwilkes/optrack/src/portfoliodb"
)

type NewAndUpdatedFilledOrders struct {
	NewOrders     *eventmodels.TimeSortedSet[eventmodels.FilledOrder]
	UpdatedOrders *eventmodels.TimeSortedSet[eventmodels.FilledOrder]
}

// IdentifyNewAndUpdatedOrders partitions validated fills against the
// lookback most recently persisted fills. A fill whose identity key is
// absent from the window is new; one whose key is present with differing
// price or order type carries corrections forward; one identical to its
// record is already reconciled and discarded.
//
// The bounded window is a cost trade-off, not a correctness guarantee: an
// out-of-order fill older than the window would be misclassified as new and
// applied twice. The window just has to cover the maximum plausible
// recognition latency.
func IdentifyNewAndUpdatedOrders(db portfoliodb.PortfolioDatabase, validatedOrders *eventmodels.TimeSortedSet[eventmodels.FilledOrder], lookback int) (NewAndUpdatedFilledOrders, error) {
	recent, err := db.ReadRecentFilledOrders(lookback)
	if err != nil {
		return NewAndUpdatedFilledOrders{}, fmt.Errorf("IdentifyNewAndUpdatedOrders: failed to read recent fills: %w", err)
	}

	window := make(map[string]eventmodels.FilledOrder, recent.Len())
	for _, order := range recent.Items() {
		window[order.Identity()] = order
	}

	result := NewAndUpdatedFilledOrders{
		NewOrders:     eventmodels.NewTimeSortedSet[eventmodels.FilledOrder](),
		UpdatedOrders: eventmodels.NewTimeSortedSet[eventmodels.FilledOrder](),
	}

	for _, order := range validatedOrders.Items() {
		existing, found := window[order.Identity()]
		if !found {
			result.NewOrders.Add(order)
			continue
		}

		if order.EqualsRecord(existing) {
			// already reconciled
			continue
		}

		log.Infof("IdentifyNewAndUpdatedOrders: order changed since last observation: was %v, now %v", existing, order)
		eventpubsub.Publish(eventpubsub.OrderUpdatedEvent, order)
		result.UpdatedOrders.Add(order)
	}

	return result, nil
}
