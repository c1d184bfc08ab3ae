package notifier

import (
	"fmt"
	"strings"

	"CrossWatch/internal/detector"
	"CrossWatch/internal/model"
)

// FormatAlert formats a crossover event into a Telegram message. The output
// depends only on the symbol and the closed bar the event refers to, so the
// same unresolved condition produces the same text on every cycle and the
// deduplicator can suppress repeats.
func FormatAlert(symbol string, ev *detector.Event, bars []model.OHLCV) string {
	var b strings.Builder

	switch ev.Kind {
	case model.AlertOverbought:
		b.WriteString(fmt.Sprintf("📈 <b>%s</b> RSI crossed overbought\n\n", symbol))
	case model.AlertOversold:
		b.WriteString(fmt.Sprintf("📉 <b>%s</b> RSI crossed oversold\n\n", symbol))
	default:
		b.WriteString(fmt.Sprintf("🔔 <b>%s</b> RSI signal\n\n", symbol))
	}

	b.WriteString(fmt.Sprintf("RSI: %.1f → %.1f\n", ev.Prev, ev.Value))
	if ev.Index >= 0 && ev.Index < len(bars) {
		bar := bars[ev.Index]
		b.WriteString(fmt.Sprintf("Close: %.2f\n", bar.Close))
		b.WriteString(fmt.Sprintf("Bar: %s\n", bar.Time.UTC().Format("2006-01-02 15:04")))
	}
	return b.String()
}
