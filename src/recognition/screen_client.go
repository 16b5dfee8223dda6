package recognition

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/rwilkes/optrack/src/eventmodels"
)

// The views show four column headers after the "Symbol" line. Recognition
// sometimes reads the arrow left of "Quantity" as a stray character, and the
// last header may be cut off at the right edge.
var positionHeadersRegex = regexp.MustCompile(`^Symbol (. )?Quantity Last Aver`)
var orderHeadersRegex = regexp.MustCompile(`^Symbol (. )?Quantity Fill [Pp]rice`)

const headerLineCount = 4

// ScreenRecognitionClient recognizes live orders and positions from text
// extracted off the portfolio screen. A header block that no longer matches
// the expected column layout means the whole view cannot be trusted, and
// recognition fails with an InvalidPortfolioStateError.
type ScreenRecognitionClient struct {
	Extractor TextExtractor
	Now       func() time.Time
}

func NewScreenRecognitionClient(extractor TextExtractor) *ScreenRecognitionClient {
	return &ScreenRecognitionClient{
		Extractor: extractor,
		Now:       time.Now,
	}
}

func (c *ScreenRecognitionClient) Login(ctx context.Context) error {
	if err := c.Extractor.Login(ctx); err != nil {
		return fmt.Errorf("ScreenRecognitionClient.Login: %w", err)
	}

	return nil
}

func (c *ScreenRecognitionClient) Logout(ctx context.Context) error {
	if err := c.Extractor.Logout(ctx); err != nil {
		return fmt.Errorf("ScreenRecognitionClient.Logout: %w", err)
	}

	return nil
}

func (c *ScreenRecognitionClient) RecognizeLiveOrders(ctx context.Context) (*eventmodels.UnvalidatedLiveOrdersResult, error) {
	lines, err := c.Extractor.ExtractOrderLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("ScreenRecognitionClient.RecognizeLiveOrders: failed to extract text: %w", err)
	}

	dataStart, err := validateHeaders(lines, orderHeadersRegex, "orders")
	if err != nil {
		return nil, err
	}

	result := &eventmodels.UnvalidatedLiveOrdersResult{
		LiveOrders: eventmodels.NewTimeSortedSet[eventmodels.FilledOrder](),
	}

	builder := NewFilledOrderBuilder(c.Now())
	for _, line := range lines[dataStart:] {
		for _, token := range line.Tokens {
			builder.TakeNextToken(token)
			if !builder.Done() {
				continue
			}

			lowConfidence := builder.LowConfidence()
			order := builder.BuildAndReset()
			if lowConfidence {
				log.Warnf("ScreenRecognitionClient.RecognizeLiveOrders: skipping low confidence order %s", order)
				result.SkippedOrderDueToLowConfidence = true
				continue
			}

			result.LiveOrders.Add(order)
		}
	}

	return result, nil
}

func (c *ScreenRecognitionClient) RecognizeLivePositions(ctx context.Context) ([]*eventmodels.Position, error) {
	lines, err := c.Extractor.ExtractPositionLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("ScreenRecognitionClient.RecognizeLivePositions: failed to extract text: %w", err)
	}

	dataStart, err := validateHeaders(lines, positionHeadersRegex, "positions")
	if err != nil {
		return nil, err
	}

	var positions []*eventmodels.Position

	builder := NewPositionBuilder()
	for _, line := range lines[dataStart:] {
		for _, token := range line.Tokens {
			builder.TakeNextToken(token)
			if builder.Done() {
				positions = append(positions, builder.BuildAndReset())
			}
		}
	}

	return positions, nil
}

// validateHeaders locates the column header block and checks it against the
// expected layout. It returns the index of the first data line.
func validateHeaders(lines []TextLine, headers *regexp.Regexp, view string) (int, error) {
	indexOfSymbol := 0
	for i, line := range lines {
		if line.Text == "Symbol" {
			indexOfSymbol = i
			break
		}
	}

	if indexOfSymbol+headerLineCount > len(lines) {
		return 0, invalidHeaders(lines, view)
	}

	texts := make([]string, 0, headerLineCount)
	for _, line := range lines[indexOfSymbol : indexOfSymbol+headerLineCount] {
		texts = append(texts, line.Text)
	}

	if !headers.MatchString(strings.Join(texts, " ")) {
		return 0, invalidHeaders(lines, view)
	}

	return indexOfSymbol + headerLineCount, nil
}

func invalidHeaders(lines []TextLine, view string) error {
	texts := make([]string, 0, len(lines))
	for _, line := range lines {
		texts = append(texts, line.Text)
	}

	err := eventmodels.NewInvalidPortfolioStateError(fmt.Sprintf("unrecognized %s header layout", view))
	log.Warnf("ScreenRecognitionClient: %v, extracted text: %v", err, texts)

	return err
}
