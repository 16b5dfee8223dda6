package eventpubsub

import (
	"github.com/rwilkes/optrack/src/eventmodels"
)

type OrderDropReason string

const (
	OrderDropReasonQuoteLookupFailed OrderDropReason = "quote_lookup_failed"
	OrderDropReasonPriceOutOfRange   OrderDropReason = "price_out_of_range"
)

// OrderDropped is published when the validator discards a candidate fill.
type OrderDropped struct {
	Order  eventmodels.FilledOrder
	Quote  *eventmodels.OptionQuote
	Reason OrderDropReason
}

// DeltaComputed is published once per emitted position delta.
type DeltaComputed struct {
	Delta *eventmodels.PositionDelta
}

// ReconciliationFailed is published when a reconciliation pass aborts.
type ReconciliationFailed struct {
	Path string
	Err  error
}
