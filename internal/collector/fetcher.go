package collector

import (
	"context"
	"time"

	"CrossWatch/internal/model"
)

// Fetcher defines the interface for fetching an OHLCV series. Bars are
// returned in chronological order; an empty slice means no data was
// available for the window, which is not an error.
type Fetcher interface {
	FetchBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error)
	Name() string
}
