package model

// Point is a single indicator value. Defined is false while the rolling
// window behind the indicator has not yet accumulated enough bars, which is
// distinct from a value of zero.
type Point struct {
	V       float64
	Defined bool
}

// Series is an indicator series aligned 1:1 by index with the OHLCV bars it
// was computed from.
type Series []Point

// DefinedAt reports whether the series holds a computed value at index i.
func (s Series) DefinedAt(i int) bool {
	return i >= 0 && i < len(s) && s[i].Defined
}
