package eventmodels

// OptionQuote is a day's trading range for a symbol. It is only used to
// sanity-check recognized fill prices and is never persisted.
type OptionQuote struct {
	Symbol    OptionSymbol
	LowPrice  float64
	HighPrice float64
}

// Contains reports whether price lies within the day's range, bounds
// included.
func (q OptionQuote) Contains(price float64) bool {
	return price >= q.LowPrice && price <= q.HighPrice
}
