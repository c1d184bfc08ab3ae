package detector

import (
	"errors"

	"CrossWatch/internal/model"
)

// ErrInsufficientHistory is returned when the RSI series does not hold enough
// computed values around the two most recently closed bars. It marks a normal
// skip, not a fault.
var ErrInsufficientHistory = errors.New("insufficient rsi history")

// Event is a detected threshold crossover on the most recently closed bar.
type Event struct {
	Kind  model.AlertKind
	Index int     // index of the closed bar the cross was confirmed on
	Value float64 // rsi at that bar
	Prev  float64 // rsi one bar earlier
}

// Detect inspects the second-to-last and third-to-last RSI values for a
// threshold cross. The very last value is deliberately ignored: that bar may
// still be forming. Returns (nil, nil) when no cross occurred. Overbought is
// evaluated first, so it wins if both conditions somehow hold.
func Detect(rsi model.Series, overbought, oversold float64) (*Event, error) {
	n := len(rsi)
	if n < 3 || !rsi.DefinedAt(n-2) || !rsi.DefinedAt(n-3) {
		return nil, ErrInsufficientHistory
	}
	cur, prev := rsi[n-2].V, rsi[n-3].V

	if cur > overbought && prev <= overbought {
		return &Event{Kind: model.AlertOverbought, Index: n - 2, Value: cur, Prev: prev}, nil
	}
	if cur < oversold && prev >= oversold {
		return &Event{Kind: model.AlertOversold, Index: n - 2, Value: cur, Prev: prev}, nil
	}
	return nil, nil
}
