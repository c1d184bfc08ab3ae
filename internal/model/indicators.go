package model

// IndicatorSet holds all indicator series computed from one OHLCV series.
// Every Series has the same length as the source bars.
type IndicatorSet struct {
	VWMAShort Series
	VWMALong  Series
	RSI       Series
	RSIMA     Series
	StochK    Series
	StochD    Series
}
