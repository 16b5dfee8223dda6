package eventservices

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/rwilkes/optrack/src/eventmodels"
	"github.com/rwilkes/optrack/src/eventpubsub"
)

// ValidateLiveOrders checks each candidate fill against the day's trading
// range for its symbol. The recognition source can misread digits, so a fill
// priced outside [low, high] is treated as unreliable and dropped; a failed
// quote lookup drops only that candidate. The batch never fails and no
// persisted state is touched.
func ValidateLiveOrders(ctx context.Context, mdClient MarketDataClient, liveOrders *eventmodels.TimeSortedSet[eventmodels.FilledOrder]) map[eventmodels.FilledOrder]eventmodels.OptionQuote {
	validOrdersAndQuotes := make(map[eventmodels.FilledOrder]eventmodels.OptionQuote)

	for _, order := range liveOrders.Items() {
		quote, err := mdClient.GetOptionQuote(ctx, order.Symbol)
		if err != nil {
			log.Warnf("ValidateLiveOrders: error getting quote for symbol %s: %v", order.Symbol, err)
			eventpubsub.Publish(eventpubsub.OrderDroppedEvent, eventpubsub.OrderDropped{
				Order:  order,
				Reason: eventpubsub.OrderDropReasonQuoteLookupFailed,
			})
			continue
		}

		if !quote.Contains(order.Price) {
			log.Warnf("ValidateLiveOrders: order price not within day's range- symbol %s, order %v, range [%.2f, %.2f]", order.Symbol, order, quote.LowPrice, quote.HighPrice)
			eventpubsub.Publish(eventpubsub.OrderDroppedEvent, eventpubsub.OrderDropped{
				Order:  order,
				Quote:  quote,
				Reason: eventpubsub.OrderDropReasonPriceOutOfRange,
			})
			continue
		}

		validOrdersAndQuotes[order] = *quote
	}

	return validOrdersAndQuotes
}
