package recognition

import "context"

// Token is a single recognized word on the portfolio screen. Width is the
// rendered width in pixels, used to sanity check numeric fields.
type Token struct {
	Text  string
	Width float64
}

// TextLine is one line of recognized text with its constituent tokens in
// left-to-right order.
type TextLine struct {
	Text   string
	Tokens []Token
}

// TextExtractor produces recognized text from the live portfolio views. The
// capture and character recognition pipeline behind it is interchangeable.
type TextExtractor interface {
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ExtractPositionLines(ctx context.Context) ([]TextLine, error)
	ExtractOrderLines(ctx context.Context) ([]TextLine, error)
}
