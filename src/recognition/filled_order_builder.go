package recognition

import (
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/rwilkes/optrack/src/eventmodels"
)

type orderBuildLevel int

const (
	orderSymbolLevel orderBuildLevel = iota
	orderQuantityLevel
	orderPriceLevel
	orderInstructionLevel
	orderTypeLevel
	orderTimeLevel
	orderDoneLevel
)

var instructionPhrases = map[string]eventmodels.InstructionType{
	"Buy to Open":   eventmodels.InstructionBuyToOpen,
	"Sell to Open":  eventmodels.InstructionSellToOpen,
	"Buy to Close":  eventmodels.InstructionBuyToClose,
	"Sell to Close": eventmodels.InstructionSellToClose,
}

const fillTimeFormat = "15:04:05"

// FilledOrderBuilder assembles one filled order from the token stream of the
// orders view. A row whose quantity reading cannot be trusted completes with
// the low confidence flag set, and the caller decides whether to keep it.
type FilledOrderBuilder struct {
	tradeDate     time.Time
	level         orderBuildLevel
	currentStr    string
	symbol        eventmodels.OptionSymbol
	quantity      float64
	price         float64
	instruction   eventmodels.InstructionType
	orderType     eventmodels.OrderType
	filledAt      time.Time
	lowConfidence bool
}

// NewFilledOrderBuilder builds orders for the given trading day; the orders
// view shows only a clock time per fill.
func NewFilledOrderBuilder(tradeDate time.Time) *FilledOrderBuilder {
	return &FilledOrderBuilder{tradeDate: tradeDate}
}

func (b *FilledOrderBuilder) Done() bool {
	return b.level == orderDoneLevel
}

// LowConfidence reports whether the completed row contained a quantity
// reading that failed the width check and could not be corrected.
func (b *FilledOrderBuilder) LowConfidence() bool {
	return b.lowConfidence
}

// BuildAndReset returns the completed order and prepares the builder for the
// next row. Calling it before the row is complete is a programming error.
func (b *FilledOrderBuilder) BuildAndReset() eventmodels.FilledOrder {
	if !b.Done() {
		panic("FilledOrderBuilder.BuildAndReset: called before the order is complete")
	}

	order := eventmodels.NewFilledOrder(b.symbol, b.instruction, b.orderType, b.price, b.quantity, b.filledAt)
	b.reset()

	return order
}

func (b *FilledOrderBuilder) TakeNextToken(token Token) {
	switch b.level {
	case orderSymbolLevel:
		b.takeSymbol(token)
	case orderQuantityLevel:
		b.takeQuantity(token)
	case orderPriceLevel:
		b.takePrice(token)
	case orderInstructionLevel:
		b.takeInstruction(token)
	case orderTypeLevel:
		b.takeOrderType(token)
	case orderTimeLevel:
		b.takeTime(token)
	}
}

func (b *FilledOrderBuilder) takeSymbol(token Token) {
	b.currentStr += token.Text

	match := rawOptionSymbolRegex.FindString(b.currentStr)
	if match == "" {
		b.currentStr += " "
		return
	}

	b.symbol = eventmodels.OptionSymbol(normalizeSymbol(match))
	b.currentStr = ""
	b.level = orderQuantityLevel
}

func (b *FilledOrderBuilder) takeQuantity(token Token) {
	quantity, err := strconv.Atoi(token.Text)
	if err != nil {
		log.Infof("FilledOrderBuilder: could not parse quantity %q, assuming 1, symbol %s", token.Text, b.symbol)
		b.quantity = 1
		b.level = orderPriceLevel

		// the token was not consumed, forward it to the next level
		b.TakeNextToken(token)
		return
	}

	if quantity > 9 && token.Width < maxSingleDigitQuantityWidth {
		if strings.HasPrefix(token.Text, "1") {
			corrected, _ := strconv.Atoi(token.Text[1:])
			log.Infof("FilledOrderBuilder: quantity width %.0f too narrow for detected value %q, assumed quantity %d, symbol %s", token.Width, token.Text, corrected, b.symbol)
			b.quantity = float64(corrected)
		} else {
			log.Errorf("FilledOrderBuilder: quantity width too narrow for detected value %q, symbol %s", token.Text, b.symbol)
			b.quantity = float64(quantity)
			b.lowConfidence = true
		}

		b.level = orderPriceLevel
		return
	}

	if quantity <= 0 {
		log.Warnf("FilledOrderBuilder: quantity %d is not positive, symbol %s", quantity, b.symbol)
		b.reset()
		return
	}

	b.quantity = float64(quantity)
	b.level = orderPriceLevel
}

func (b *FilledOrderBuilder) takePrice(token Token) {
	if !rawPriceRegex.MatchString(token.Text) {
		return
	}

	price, err := strconv.ParseFloat(normalizePrice(token.Text), 64)
	if err != nil {
		log.Warnf("FilledOrderBuilder: could not parse fill price %q, symbol %s", token.Text, b.symbol)
		b.reset()
		return
	}

	b.price = price
	b.level = orderInstructionLevel
}

func (b *FilledOrderBuilder) takeInstruction(token Token) {
	if b.currentStr == "" {
		b.currentStr = token.Text
	} else {
		b.currentStr += " " + token.Text
	}

	if instruction, found := instructionPhrases[b.currentStr]; found {
		b.instruction = instruction
		b.currentStr = ""
		b.level = orderTypeLevel
		return
	}

	if strings.Count(b.currentStr, " ") >= 2 {
		log.Warnf("FilledOrderBuilder: unrecognized instruction %q, symbol %s", b.currentStr, b.symbol)
		b.reset()
	}
}

func (b *FilledOrderBuilder) takeOrderType(token Token) {
	switch token.Text {
	case "Market":
		b.orderType = eventmodels.OrderTypeMarket
	case "Limit":
		b.orderType = eventmodels.OrderTypeLimit
	default:
		log.Infof("FilledOrderBuilder: unrecognized order type %q, assuming market, symbol %s", token.Text, b.symbol)
		b.orderType = eventmodels.OrderTypeMarket
	}

	b.level = orderTimeLevel
}

func (b *FilledOrderBuilder) takeTime(token Token) {
	clock, err := time.Parse(fillTimeFormat, token.Text)
	if err != nil {
		log.Warnf("FilledOrderBuilder: could not parse fill time %q, symbol %s", token.Text, b.symbol)
		b.reset()
		return
	}

	b.filledAt = time.Date(b.tradeDate.Year(), b.tradeDate.Month(), b.tradeDate.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, b.tradeDate.Location())
	b.level = orderDoneLevel
}

func (b *FilledOrderBuilder) reset() {
	*b = FilledOrderBuilder{tradeDate: b.tradeDate}
}
