package diag

import (
	"sort"
	"sync"
)

// Bag collects diagnostics up to a fixed limit. Safe for concurrent use.
type Bag struct {
	mu      sync.Mutex
	items   []Diagnostic
	max     int
	dropped int
}

func NewBag(max int) *Bag {
	if max < 0 {
		max = 0
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 64)),
		max:   max,
	}
}

// Add appends a diagnostic unless the limit is reached.
// Returns false when the diagnostic was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Dropped reports how many diagnostics did not fit.
func (b *Bag) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// HasErrors reports whether any collected diagnostic is an error.
func (b *Bag) HasErrors() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// Items returns a copy of the collected diagnostics.
func (b *Bag) Items() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	return out
}

// Sort orders diagnostics by input line, symbol, offset and code so
// output does not depend on worker scheduling.
func (b *Bag) Sort() {
	b.mu.Lock()
	defer b.mu.Unlock()
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Symbol != dj.Symbol {
			return di.Symbol < dj.Symbol
		}
		if di.Offset != dj.Offset {
			return di.Offset < dj.Offset
		}
		return di.Code < dj.Code
	})
}
