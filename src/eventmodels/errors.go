package eventmodels

import "fmt"

var UnknownInstructionTypeErr = fmt.Errorf("unknown instruction type")
var UnknownDeltaTypeErr = fmt.Errorf("unknown delta type")
var QuoteNotFoundErr = fmt.Errorf("quote not found for symbol")

// InvalidPortfolioStateError signals that the recognition source could not
// make sense of the portfolio it observed: the layout may have changed, or
// the session may have expired. It is propagated to the caller unmodified
// so that the fault is attributed to the source, not the reconciliation.
type InvalidPortfolioStateError struct {
	Reason string
}

func (e *InvalidPortfolioStateError) Error() string {
	return fmt.Sprintf("invalid portfolio state: %s", e.Reason)
}

func NewInvalidPortfolioStateError(reason string) *InvalidPortfolioStateError {
	return &InvalidPortfolioStateError{Reason: reason}
}
