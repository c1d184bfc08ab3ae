package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"CrossWatch/internal/calculator"
	"CrossWatch/internal/collector"
	"CrossWatch/internal/dedup"
	"CrossWatch/internal/model"
	"CrossWatch/internal/recorder"
)

// Close sequence whose 14-period RSI sits near 50 through the warm-up, then
// crosses the 60 threshold between the third-to-last and second-to-last bars
// (48.1 -> 61.4). The final bar plays the still-forming period.
var overboughtCloses = []float64{
	100, 101, 100, 101, 100, 101, 100, 101, 100, 101,
	100, 101, 100, 101, 100, 99.5, 100, 99.5, 103.5, 104.5,
}

// Mirror image of the above: RSI falls through 40 (51.9 -> 38.6).
var oversoldCloses = []float64{
	100, 99, 100, 99, 100, 99, 100, 99, 100, 99,
	100, 99, 100, 99, 100, 100.5, 100, 100.5, 96.5, 95.5,
}

type fakeRenderer struct {
	fail  bool
	calls int
}

func (f *fakeRenderer) Render(_ []model.OHLCV, _ *model.IndicatorSet, _, _ string) ([]byte, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("renderer down")
	}
	return []byte("png"), nil
}

type fakeNotifier struct {
	texts     []string
	photos    int
	failText  bool
	failPhoto bool
}

func (f *fakeNotifier) Send(text string) error {
	if f.failText {
		return errors.New("telegram down")
	}
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeNotifier) SendPhoto(_ string, _ []byte) error {
	if f.failPhoto {
		return errors.New("telegram down")
	}
	f.photos++
	return nil
}

type fakeRecorder struct {
	records []*recorder.AlertRecord
}

func (f *fakeRecorder) RecordAlert(rec *recorder.AlertRecord) error {
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeRecorder) Close() error { return nil }

func newTestDispatcher(fetcher collector.Fetcher, rend *fakeRenderer, not *fakeNotifier, rec *fakeRecorder, symbols ...string) *Dispatcher {
	return New(fetcher, rend, not, rec, dedup.NewMemory(), Options{
		Symbols:    symbols,
		Windows:    calculator.DefaultWindows(),
		Overbought: 60,
		Oversold:   40,
	}, zap.NewNop())
}

func mockBars(closes []float64) []model.OHLCV {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return collector.GenerateBars(start, closes, 1000)
}

func TestRunCycle_OverboughtAlertOnceThenDeduped(t *testing.T) {
	fetcher := &collector.MockFetcher{Bars: map[string][]model.OHLCV{
		"BTCUSDT": mockBars(overboughtCloses),
	}}
	rend := &fakeRenderer{}
	not := &fakeNotifier{}
	rec := &fakeRecorder{}
	d := newTestDispatcher(fetcher, rend, not, rec, "BTCUSDT")

	d.RunCycle(context.Background())
	require.Len(t, not.texts, 1)
	require.Equal(t, 1, not.photos)
	require.Contains(t, not.texts[0], "overbought")
	require.Len(t, rec.records, 1)
	require.Equal(t, model.AlertOverbought, rec.records[0].Kind)

	// Re-feeding the identical series must not alert again.
	d.RunCycle(context.Background())
	require.Len(t, not.texts, 1)
	require.Equal(t, 1, not.photos)
	require.Len(t, rec.records, 1)
}

func TestRunCycle_OversoldAlert(t *testing.T) {
	fetcher := &collector.MockFetcher{Bars: map[string][]model.OHLCV{
		"ETHUSDT": mockBars(oversoldCloses),
	}}
	not := &fakeNotifier{}
	d := newTestDispatcher(fetcher, &fakeRenderer{}, not, &fakeRecorder{}, "ETHUSDT")

	d.RunCycle(context.Background())
	require.Len(t, not.texts, 1)
	require.Contains(t, not.texts[0], "oversold")
}

func TestRunCycle_EmptySeriesIsolated(t *testing.T) {
	// One symbol has no data; the other must still be processed.
	fetcher := &collector.MockFetcher{Bars: map[string][]model.OHLCV{
		"DEAD":    nil,
		"BTCUSDT": mockBars(overboughtCloses),
	}}
	not := &fakeNotifier{}
	d := newTestDispatcher(fetcher, &fakeRenderer{}, not, &fakeRecorder{}, "DEAD", "BTCUSDT")

	d.RunCycle(context.Background())
	require.Len(t, not.texts, 1)
	require.Contains(t, not.texts[0], "BTCUSDT")
}

func TestRunCycle_FetchErrorIsolated(t *testing.T) {
	fetcher := &collector.MockFetcher{Err: errors.New("provider down")}
	not := &fakeNotifier{}
	d := newTestDispatcher(fetcher, &fakeRenderer{}, not, &fakeRecorder{}, "BTCUSDT")

	d.RunCycle(context.Background())
	require.Empty(t, not.texts)
}

func TestRunCycle_ShortSeriesSkipped(t *testing.T) {
	fetcher := &collector.MockFetcher{Bars: map[string][]model.OHLCV{
		"BTCUSDT": mockBars([]float64{100, 101, 102, 103, 104}),
	}}
	rend := &fakeRenderer{}
	not := &fakeNotifier{}
	d := newTestDispatcher(fetcher, rend, not, &fakeRecorder{}, "BTCUSDT")

	d.RunCycle(context.Background())
	require.Empty(t, not.texts)
	require.Zero(t, rend.calls)
}

func TestRunCycle_NoCrossNoAlert(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i%2)
	}
	fetcher := &collector.MockFetcher{Bars: map[string][]model.OHLCV{
		"BTCUSDT": mockBars(closes),
	}}
	not := &fakeNotifier{}
	d := newTestDispatcher(fetcher, &fakeRenderer{}, not, &fakeRecorder{}, "BTCUSDT")

	d.RunCycle(context.Background())
	require.Empty(t, not.texts)
}

func TestRunCycle_DispatchFailureRetriesNextCycle(t *testing.T) {
	fetcher := &collector.MockFetcher{Bars: map[string][]model.OHLCV{
		"BTCUSDT": mockBars(overboughtCloses),
	}}
	not := &fakeNotifier{failPhoto: true}
	rec := &fakeRecorder{}
	d := newTestDispatcher(fetcher, &fakeRenderer{}, not, rec, "BTCUSDT")

	// Photo upload fails: the alert is not committed or recorded.
	d.RunCycle(context.Background())
	require.Zero(t, not.photos)
	require.Empty(t, rec.records)

	// Next cycle the channel is healthy again and the same alert goes out.
	not.failPhoto = false
	d.RunCycle(context.Background())
	require.Equal(t, 1, not.photos)
	require.Len(t, rec.records, 1)

	// And only once.
	d.RunCycle(context.Background())
	require.Equal(t, 1, not.photos)
	require.Len(t, rec.records, 1)
}

func TestRunCycle_ConcurrentCyclesAlertOnce(t *testing.T) {
	// A manual trigger can fire while the interval loop is mid-cycle. Both
	// cycles see the same crossing series; exactly one alert may go out.
	fetcher := &collector.MockFetcher{Bars: map[string][]model.OHLCV{
		"BTCUSDT": mockBars(overboughtCloses),
	}}
	not := &fakeNotifier{}
	rec := &fakeRecorder{}
	d := newTestDispatcher(fetcher, &fakeRenderer{}, not, rec, "BTCUSDT")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.RunCycle(context.Background())
		}()
	}
	wg.Wait()

	require.Len(t, not.texts, 1)
	require.Equal(t, 1, not.photos)
	require.Len(t, rec.records, 1)
}

func TestValidate(t *testing.T) {
	require.ErrorIs(t, validate(nil, 15), ErrDataUnavailable)
	require.ErrorIs(t, validate(mockBars([]float64{100, 101}), 15), ErrInsufficientHistory)
	require.NoError(t, validate(mockBars(overboughtCloses), 15))
}

func TestCrossoverSurvivesTrailingBar(t *testing.T) {
	// Appending a forming bar after the cross keeps pointing the detector at
	// the same closed bars, so the message text and dedup behavior hold.
	withForming := append(append([]float64{}, overboughtCloses...), 104.0)
	fetcher := &collector.MockFetcher{Bars: map[string][]model.OHLCV{
		"BTCUSDT": mockBars(withForming),
	}}
	not := &fakeNotifier{}
	d := newTestDispatcher(fetcher, &fakeRenderer{}, not, &fakeRecorder{}, "BTCUSDT")

	d.RunCycle(context.Background())
	// The cross moved one position away from the tail; nothing fires now.
	require.Empty(t, not.texts)
}
