package dedup

import "sync"

// Memory remembers the last successfully dispatched message text per symbol
// and suppresses exact repeats. State lives for the process lifetime only;
// it is intentionally lost on restart.
type Memory struct {
	mu   sync.Mutex
	last map[string]string
}

// NewMemory returns an empty dedup memory.
func NewMemory() *Memory {
	return &Memory{last: make(map[string]string)}
}

// ShouldSend reports whether the candidate text differs from the last
// dispatched message for the symbol. It does not record anything: callers
// must Commit after the dispatch actually succeeded.
func (m *Memory) ShouldSend(symbol, text string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last[symbol] != text
}

// Commit records the text as dispatched for the symbol.
func (m *Memory) Commit(symbol, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last[symbol] = text
}
