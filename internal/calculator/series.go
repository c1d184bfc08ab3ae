package calculator

import "CrossWatch/internal/model"

// RollingMean computes the simple moving average of a series over the given
// window. A value is defined only when all `window` inputs ending at that
// index are defined.
func RollingMean(s model.Series, window int) model.Series {
	out := make(model.Series, len(s))
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(s); i++ {
		sum := 0.0
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if !s[j].Defined {
				ok = false
				break
			}
			sum += s[j].V
		}
		if ok {
			out[i] = model.Point{V: sum / float64(window), Defined: true}
		}
	}
	return out
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
