package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"CrossWatch/internal/calculator"
	"CrossWatch/internal/collector"
	"CrossWatch/internal/dedup"
	"CrossWatch/internal/detector"
	"CrossWatch/internal/model"
	"CrossWatch/internal/notifier"
	"CrossWatch/internal/recorder"
)

// Renderer produces a chart image from a series and its indicators.
type Renderer interface {
	Render(bars []model.OHLCV, ind *model.IndicatorSet, symbol, title string) ([]byte, error)
}

// Notifier delivers alert text and images.
type Notifier interface {
	Send(text string) error
	SendPhoto(caption string, image []byte) error
}

// Options configures a Dispatcher.
type Options struct {
	Symbols    []string
	Lookback   time.Duration
	MinBars    int
	Windows    calculator.Windows
	Overbought float64
	Oversold   float64
}

// Dispatcher runs one poll cycle per call: for every configured symbol it
// fetches the series, computes indicators, detects crossovers and dispatches
// deduplicated alerts. Failures are isolated per symbol.
type Dispatcher struct {
	fetcher  collector.Fetcher
	renderer Renderer
	notifier Notifier
	recorder recorder.Recorder
	dedup    *dedup.Memory
	opts     Options
	log      *zap.Logger

	cycleMu sync.Mutex
}

// New creates a Dispatcher.
func New(fetcher collector.Fetcher, r Renderer, n Notifier, rec recorder.Recorder, mem *dedup.Memory, opts Options, log *zap.Logger) *Dispatcher {
	if opts.MinBars == 0 {
		opts.MinBars = opts.Windows.MinBars()
	}
	if opts.Lookback == 0 {
		opts.Lookback = 7 * 24 * time.Hour
	}
	return &Dispatcher{
		fetcher:  fetcher,
		renderer: r,
		notifier: n,
		recorder: rec,
		dedup:    mem,
		opts:     opts,
		log:      log,
	}
}

// RunCycle processes all configured symbols once, sequentially. A failure on
// one symbol never aborts the others. Cycles are mutually exclusive: a manual
// trigger that overlaps the interval loop waits its turn, so the dedup
// check-then-commit pair never races with itself.
func (d *Dispatcher) RunCycle(ctx context.Context) {
	d.cycleMu.Lock()
	defer d.cycleMu.Unlock()
	for _, symbol := range d.opts.Symbols {
		err := d.processSymbol(ctx, symbol)
		switch {
		case err == nil:
		case errors.Is(err, ErrDataUnavailable):
			d.log.Warn("no data this cycle", zap.String("symbol", symbol), zap.Error(err))
		case errors.Is(err, ErrInsufficientHistory):
			d.log.Debug("insufficient history", zap.String("symbol", symbol), zap.Error(err))
		case errors.Is(err, ErrDispatchFailed):
			d.log.Error("alert dispatch failed", zap.String("symbol", symbol), zap.Error(err))
		default:
			d.log.Error("symbol processing failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}
}

func (d *Dispatcher) processSymbol(ctx context.Context, symbol string) error {
	end := time.Now()
	start := end.Add(-d.opts.Lookback)

	bars, err := d.fetcher.FetchBars(ctx, symbol, start, end)
	if err != nil {
		return fmt.Errorf("%w: fetch: %v", ErrDataUnavailable, err)
	}
	if err := validate(bars, d.opts.MinBars); err != nil {
		return err
	}

	ind := calculator.Compute(bars, d.opts.Windows)

	ev, err := detector.Detect(ind.RSI, d.opts.Overbought, d.opts.Oversold)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInsufficientHistory, err)
	}
	if ev == nil {
		return nil
	}

	text := notifier.FormatAlert(symbol, ev, bars)
	if !d.dedup.ShouldSend(symbol, text) {
		d.log.Debug("duplicate alert suppressed",
			zap.String("symbol", symbol), zap.String("kind", string(ev.Kind)))
		return nil
	}

	title := fmt.Sprintf("%s | %s", symbol, end.UTC().Format("2006-01-02 15:04"))
	image, err := d.renderer.Render(bars, ind, symbol, title)
	if err != nil {
		return fmt.Errorf("%w: render: %v", ErrDispatchFailed, err)
	}
	if err := d.notifier.Send(text); err != nil {
		return fmt.Errorf("%w: send text: %v", ErrDispatchFailed, err)
	}
	if err := d.notifier.SendPhoto(symbol, image); err != nil {
		// Text already went out; dedup stays unadvanced so the alert retries
		// fully on the next cycle.
		return fmt.Errorf("%w: send photo: %v", ErrDispatchFailed, err)
	}
	d.dedup.Commit(symbol, text)

	d.log.Info("alert dispatched",
		zap.String("symbol", symbol),
		zap.String("kind", string(ev.Kind)),
		zap.Float64("rsi", ev.Value))

	if err := d.recorder.RecordAlert(&recorder.AlertRecord{
		ID:      uuid.NewString(),
		Symbol:  symbol,
		Kind:    ev.Kind,
		Message: text,
		RSI:     ev.Value,
		PrevRSI: ev.Prev,
		BarTime: bars[ev.Index].Time,
	}); err != nil {
		d.log.Error("record alert", zap.String("symbol", symbol), zap.Error(err))
	}
	return nil
}

// validate checks the fetched series for sufficiency. An empty series counts
// as unavailable data; a short one as insufficient history. Neither is a
// fault.
func validate(bars []model.OHLCV, minBars int) error {
	if len(bars) == 0 {
		return fmt.Errorf("%w: empty series", ErrDataUnavailable)
	}
	if len(bars) < minBars {
		return fmt.Errorf("%w: %d bars, need %d", ErrInsufficientHistory, len(bars), minBars)
	}
	return nil
}
