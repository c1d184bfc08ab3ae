package calculator

import "CrossWatch/internal/model"

// RSI computes the Wilder-smoothed Relative Strength Index over the given
// window. The first value appears at index == window, once `window` close
// deltas are available; everything before that is undefined. Output is
// bounded to [0,100].
func RSI(closes []float64, window int) model.Series {
	out := make(model.Series, len(closes))
	if window <= 0 || len(closes) < window+1 {
		return out
	}

	// Initial average gain/loss over the first `window` changes.
	var avgGain, avgLoss float64
	for i := 1; i <= window; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(window)
	avgLoss /= float64(window)
	out[window] = model.Point{V: rsiValue(avgGain, avgLoss), Defined: true}

	// Wilder smoothing for the remaining bars.
	for i := window + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(window-1) + gain) / float64(window)
		avgLoss = (avgLoss*float64(window-1) + loss) / float64(window)
		out[i] = model.Point{V: rsiValue(avgGain, avgLoss), Defined: true}
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
