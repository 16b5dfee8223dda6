package eventpubsub

const (
	OrderDroppedEvent          = "OrderDroppedEvent"
	OrderUpdatedEvent          = "OrderUpdatedEvent"
	DeltaComputedEvent         = "DeltaComputedEvent"
	ReconciliationFailedEvent  = "ReconciliationFailedEvent"
	ReconciliationSkippedEvent = "ReconciliationSkippedEvent"
	Error                      = "DefaultError"
)
