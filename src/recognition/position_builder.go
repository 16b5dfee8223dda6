package recognition

import (
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/rwilkes/optrack/src/eventmodels"
)

type positionBuildLevel int

const (
	positionSymbolLevel positionBuildLevel = iota
	positionQuantityLevel
	positionLastPriceLevel
	positionAveragePriceLevel
	positionDoneLevel
)

// PositionBuilder assembles one position from the token stream of the
// positions view. Tokens arrive left to right, one row after another; each
// completed row yields a position and the builder starts over on the next
// token.
type PositionBuilder struct {
	level        positionBuildLevel
	currentStr   string
	symbol       eventmodels.OptionSymbol
	quantity     float64
	averagePrice float64
}

func NewPositionBuilder() *PositionBuilder {
	return &PositionBuilder{}
}

func (b *PositionBuilder) Done() bool {
	return b.level == positionDoneLevel
}

// BuildAndReset returns the completed position and prepares the builder for
// the next row. Calling it before the row is complete is a programming
// error.
func (b *PositionBuilder) BuildAndReset() *eventmodels.Position {
	if !b.Done() {
		panic("PositionBuilder.BuildAndReset: called before the position is complete")
	}

	position := eventmodels.NewPosition(b.symbol, b.quantity, b.averagePrice)
	b.reset()

	return position
}

func (b *PositionBuilder) TakeNextToken(token Token) {
	switch b.level {
	case positionSymbolLevel:
		b.takeSymbol(token)
	case positionQuantityLevel:
		b.takeQuantity(token)
	case positionLastPriceLevel:
		// the Last column keeps the scan aligned but is not part of the
		// model
		if rawPriceRegex.MatchString(token.Text) {
			b.level = positionAveragePriceLevel
		}
	case positionAveragePriceLevel:
		b.takeAveragePrice(token)
	}
}

func (b *PositionBuilder) takeSymbol(token Token) {
	b.currentStr += token.Text

	match := rawOptionSymbolRegex.FindString(b.currentStr)
	if match == "" {
		b.currentStr += " "
		return
	}

	b.symbol = eventmodels.OptionSymbol(normalizeSymbol(match))
	b.level = positionQuantityLevel
}

func (b *PositionBuilder) takeQuantity(token Token) {
	quantity, err := strconv.Atoi(token.Text)
	if err != nil {
		log.Infof("PositionBuilder: could not parse quantity %q, assuming 1, symbol %s", token.Text, b.symbol)
		b.quantity = 1
		b.level = positionLastPriceLevel

		// the token was not consumed, forward it to the next level
		b.TakeNextToken(token)
		return
	}

	if quantity > 9 && token.Width < maxSingleDigitQuantityWidth {
		if strings.HasPrefix(token.Text, "1") {
			corrected, _ := strconv.Atoi(token.Text[1:])
			log.Infof("PositionBuilder: quantity width %.0f too narrow for detected value %q, assumed quantity %d, symbol %s", token.Width, token.Text, corrected, b.symbol)
			b.quantity = float64(corrected)
		} else {
			log.Errorf("PositionBuilder: quantity width too narrow for detected value %q, symbol %s", token.Text, b.symbol)
			b.quantity = float64(quantity)
		}

		b.level = positionLastPriceLevel
		return
	}

	if quantity <= 0 {
		log.Warnf("PositionBuilder: quantity %d is not positive, symbol %s", quantity, b.symbol)
		b.reset()
		return
	}

	b.quantity = float64(quantity)
	b.level = positionLastPriceLevel
}

func (b *PositionBuilder) takeAveragePrice(token Token) {
	if !rawPriceRegex.MatchString(token.Text) {
		return
	}

	price, err := strconv.ParseFloat(normalizePrice(token.Text), 64)
	if err != nil {
		log.Warnf("PositionBuilder: could not parse average price %q, symbol %s", token.Text, b.symbol)
		b.reset()
		return
	}

	b.averagePrice = price
	b.level = positionDoneLevel
}

func (b *PositionBuilder) reset() {
	*b = PositionBuilder{}
}
