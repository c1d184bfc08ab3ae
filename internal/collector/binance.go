package collector

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"

	"CrossWatch/internal/model"
)

// BinanceFetcher implements Fetcher using the Binance spot klines API.
type BinanceFetcher struct {
	client   *binance.Client
	interval string
}

// NewBinanceFetcher creates a Binance fetcher. API credentials may be empty:
// kline endpoints are public.
func NewBinanceFetcher(apiKey, apiSecret, interval string) *BinanceFetcher {
	return &BinanceFetcher{
		client:   binance.NewClient(apiKey, apiSecret),
		interval: interval,
	}
}

func (f *BinanceFetcher) Name() string { return "binance" }

// FetchBars retrieves klines for the [start, end] window.
func (f *BinanceFetcher) FetchBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	klines, err := f.client.NewKlinesService().
		Symbol(symbol).
		Interval(f.interval).
		StartTime(start.UnixMilli()).
		EndTime(end.UnixMilli()).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("binance klines: %w", err)
	}

	bars := make([]model.OHLCV, 0, len(klines))
	for _, k := range klines {
		bar, err := klineToBar(k)
		if err != nil {
			return nil, fmt.Errorf("binance kline at %d: %w", k.OpenTime, err)
		}
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func klineToBar(k *binance.Kline) (model.OHLCV, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return model.OHLCV{}, fmt.Errorf("parse open: %w", err)
	}
	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return model.OHLCV{}, fmt.Errorf("parse high: %w", err)
	}
	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return model.OHLCV{}, fmt.Errorf("parse low: %w", err)
	}
	closePrice, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return model.OHLCV{}, fmt.Errorf("parse close: %w", err)
	}
	volume, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return model.OHLCV{}, fmt.Errorf("parse volume: %w", err)
	}
	return model.OHLCV{
		Time:   time.Unix(k.OpenTime/1000, 0),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}, nil
}
