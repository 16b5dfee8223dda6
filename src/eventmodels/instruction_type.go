package eventmodels

type InstructionType string

const (
	InstructionBuyToOpen   InstructionType = "BUY_TO_OPEN"
	InstructionSellToOpen  InstructionType = "SELL_TO_OPEN"
	InstructionBuyToClose  InstructionType = "BUY_TO_CLOSE"
	InstructionSellToClose InstructionType = "SELL_TO_CLOSE"
)

func (i InstructionType) IsOpening() bool {
	return i == InstructionBuyToOpen || i == InstructionSellToOpen
}

func (i InstructionType) IsClosing() bool {
	return i == InstructionBuyToClose || i == InstructionSellToClose
}

// QuantityEffect returns the signed effect a fill of the given quantity has
// on a position's long quantity: buys increase it, sells decrease it.
func (i InstructionType) QuantityEffect(quantity float64) float64 {
	switch i {
	case InstructionBuyToOpen, InstructionBuyToClose:
		return quantity
	case InstructionSellToOpen, InstructionSellToClose:
		return -quantity
	}

	return 0
}

func (i InstructionType) Validate() error {
	switch i {
	case InstructionBuyToOpen, InstructionSellToOpen, InstructionBuyToClose, InstructionSellToClose:
		return nil
	}

	return UnknownInstructionTypeErr
}
