package eventmodels

// UnvalidatedLiveOrdersResult is what a recognition source produces from an
// order-fill view: candidate fills that have not yet been checked against
// market data, plus a flag indicating that at least one observed order was
// skipped because the source had low confidence in its reading.
type UnvalidatedLiveOrdersResult struct {
	LiveOrders                     *TimeSortedSet[FilledOrder]
	SkippedOrderDueToLowConfidence bool
}

// LiveDeltasResult packages the outcome of an order-driven reconciliation.
type LiveDeltasResult struct {
	Deltas                         *TimeSortedSet[*PositionDelta]
	Quotes                         map[OptionSymbol]OptionQuote
	SkippedOrderDueToLowConfidence bool
}
