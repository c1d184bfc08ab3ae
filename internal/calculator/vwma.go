package calculator

import "CrossWatch/internal/model"

// VWMA computes the volume-weighted moving average of the close price over
// the given window. Values are undefined for the first window-1 bars and
// wherever the window's total volume is zero.
func VWMA(bars []model.OHLCV, window int) model.Series {
	out := make(model.Series, len(bars))
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(bars); i++ {
		var weighted, volume float64
		for j := i - window + 1; j <= i; j++ {
			weighted += bars[j].Close * bars[j].Volume
			volume += bars[j].Volume
		}
		if volume == 0 {
			continue
		}
		out[i] = model.Point{V: weighted / volume, Defined: true}
	}
	return out
}
