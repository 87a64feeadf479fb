package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Tracer writes specialization and generator events for debugging.
// A nil *Tracer is valid and discards everything, so callers never need to
// guard their calls.
type Tracer struct {
	enabled bool
	filters []string
	writer  io.Writer
	mu      sync.Mutex
}

// New creates a tracer writing to writer (stderr when nil).
// filters are glob patterns matched against "function.slot" names.
func New(enabled bool, filters []string, writer io.Writer) *Tracer {
	if writer == nil {
		writer = os.Stderr
	}
	return &Tracer{
		enabled: enabled,
		filters: filters,
		writer:  writer,
	}
}

// IsEnabled returns whether tracing is enabled
func (t *Tracer) IsEnabled() bool {
	return t != nil && t.enabled
}

// matchesFilter checks if a qualified slot name matches any filter pattern
func (t *Tracer) matchesFilter(name string) bool {
	if len(t.filters) == 0 {
		return true // No filters = trace everything
	}

	for _, pattern := range t.filters {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

func (t *Tracer) printf(format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.writer, format, args...)
}

// Widen logs a slot kind transition in a frame descriptor
func (t *Tracer) Widen(owner, slot string, from, to fmt.Stringer) {
	if !t.IsEnabled() || !t.matchesFilter(owner+"."+slot) {
		return
	}
	t.printf("[TRACE] WIDEN %s.%s %s -> %s\n", owner, slot, from, to)
}

// Respecialize logs a write node replacing its cached specialization
func (t *Tracer) Respecialize(owner, slot string, from, to fmt.Stringer) {
	if !t.IsEnabled() || !t.matchesFilter(owner+"."+slot) {
		return
	}
	t.printf("[TRACE] RESPECIALIZE %s.%s %s -> %s\n", owner, slot, from, to)
}

// Generator logs a generator activation state change
func (t *Tracer) Generator(id int64, function string, from, to fmt.Stringer) {
	if !t.IsEnabled() {
		return
	}
	t.printf("[TRACE] GENERATOR #%d %s %s -> %s\n", id, function, from, to)
}
