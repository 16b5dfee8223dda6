package eventmodels

// PositionDeltaCSVDTO is the CSV export row for one audit trail entry.
type PositionDeltaCSVDTO struct {
	ID         string  `csv:"id"`
	DeltaType  string  `csv:"delta_type"`
	Symbol     string  `csv:"symbol"`
	Quantity   float64 `csv:"quantity"`
	Price      float64 `csv:"price"`
	Percent    float64 `csv:"percent"`
	ComputedAt string  `csv:"computed_at"`
}

func NewPositionDeltaCSVDTO(delta *PositionDelta) *PositionDeltaCSVDTO {
	return &PositionDeltaCSVDTO{
		ID:         delta.ID.String(),
		DeltaType:  string(delta.DeltaType),
		Symbol:     string(delta.Symbol),
		Quantity:   delta.Quantity,
		Price:      delta.Price,
		Percent:    delta.Percent,
		ComputedAt: delta.ComputedAt.Format("2006-01-02 15:04:05"),
	}
}
