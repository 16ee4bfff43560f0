// Package history keeps the reports generated during one session.
package history

import (
	"sync"
	"time"
)

// Report is one generated summary and the keyword it was generated for.
type Report struct {
	Query     string    `json:"query"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// Log is an append-only, insertion-ordered list of reports. It is safe for
// concurrent use. Entries are never edited or removed.
type Log struct {
	mu      sync.RWMutex
	entries []Report
}

func NewLog() *Log {
	return &Log{}
}

// Append adds r at the end of the log. A zero CreatedAt is set to now.
func (l *Log) Append(r Report) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	l.mu.Lock()
	l.entries = append(l.entries, r)
	l.mu.Unlock()
}

// Entries returns a copy of all reports in append order.
func (l *Log) Entries() []Report {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Report, len(l.entries))
	copy(out, l.entries)
	return out
}

// Get returns the report at zero-based index i.
func (l *Log) Get(i int) (Report, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.entries) {
		return Report{}, false
	}
	return l.entries[i], true
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
