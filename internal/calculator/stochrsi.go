package calculator

import (
	"math"

	"CrossWatch/internal/model"
)

// StochRSI computes the smoothed Stochastic RSI. The raw oscillator is
// (rsi - min) / (max - min) over `window` RSI values, scaled to [0,100];
// %K is the rolling mean of the raw value over smoothK and %D the rolling
// mean of %K over smoothD. A flat RSI window (max == min) yields an
// undefined value rather than a fault.
func StochRSI(rsi model.Series, window, smoothK, smoothD int) (k, d model.Series) {
	raw := make(model.Series, len(rsi))
	if window <= 0 {
		return raw, make(model.Series, len(rsi))
	}
	for i := window - 1; i < len(rsi); i++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if !rsi[j].Defined {
				ok = false
				break
			}
			lo = math.Min(lo, rsi[j].V)
			hi = math.Max(hi, rsi[j].V)
		}
		if !ok || hi == lo {
			continue
		}
		raw[i] = model.Point{V: (rsi[i].V - lo) / (hi - lo) * 100.0, Defined: true}
	}
	k = RollingMean(raw, smoothK)
	d = RollingMean(k, smoothD)
	return k, d
}
