package dispatch

import "errors"

// Per-stage error conditions. All of them mean "skip this symbol for this
// cycle"; none of them aborts the cycle for other symbols or the polling
// loop.
var (
	// ErrDataUnavailable marks a failed or empty fetch.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrInsufficientHistory marks a series too short for the configured
	// windows, or too few computed RSI points for crossover inspection.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrDispatchFailed marks a render or notify failure. Dedup state is not
	// advanced, so the same alert retries on the next cycle.
	ErrDispatchFailed = errors.New("dispatch failed")
)
