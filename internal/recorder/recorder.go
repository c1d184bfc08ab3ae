package recorder

import (
	"time"

	"CrossWatch/internal/model"
)

// AlertRecord is one dispatched alert, journaled for later inspection.
// The journal is write-only from the bot's perspective: dedup state never
// reads it back, so restarts start with a clean slate by design of the
// in-memory deduplicator.
type AlertRecord struct {
	ID      string
	Symbol  string
	Kind    model.AlertKind
	Message string
	RSI     float64
	PrevRSI float64
	BarTime time.Time
}

// Recorder persists dispatched alerts.
type Recorder interface {
	RecordAlert(rec *AlertRecord) error
	Close() error
}
