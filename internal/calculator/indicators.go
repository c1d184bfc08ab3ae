package calculator

import "CrossWatch/internal/model"

// Windows holds the window sizes for all indicator computations.
type Windows struct {
	VWMAShort    int
	VWMALong     int
	RSI          int
	RSIMA        int
	Stoch        int
	StochSmoothK int
	StochSmoothD int
}

// DefaultWindows returns the standard window configuration.
func DefaultWindows() Windows {
	return Windows{
		VWMAShort:    1,
		VWMALong:     3,
		RSI:          14,
		RSIMA:        9,
		Stoch:        14,
		StochSmoothK: 3,
		StochSmoothD: 3,
	}
}

// MinBars returns the minimum series length required before any downstream
// threshold inspection makes sense: the largest warm-up window plus one bar
// of margin.
func (w Windows) MinBars() int {
	return w.RSI + 1
}

// Compute derives all indicator series from the given bars. It is a pure
// function: same bars and windows always produce the same output.
func Compute(bars []model.OHLCV, w Windows) *model.IndicatorSet {
	closes := extractCloses(bars)
	set := &model.IndicatorSet{
		VWMAShort: VWMA(bars, w.VWMAShort),
		VWMALong:  VWMA(bars, w.VWMALong),
		RSI:       RSI(closes, w.RSI),
	}
	set.RSIMA = RollingMean(set.RSI, w.RSIMA)
	set.StochK, set.StochD = StochRSI(set.RSI, w.Stoch, w.StochSmoothK, w.StochSmoothD)
	return set
}
