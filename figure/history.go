package figure

import (
	"fmt"
	"sync"
)

const noSelection = -1

// History is the ordered list of received figures together with the
// currently selected one.
type History struct {
	mu      sync.RWMutex
	records []*Record
	current int
}

func NewHistory() *History {
	return &History{current: noSelection}
}

// Append adds r at the end of the history and selects it.
func (h *History) Append(r *Record) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, r)
	h.current = len(h.records) - 1
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

func (h *History) At(i int) (*Record, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.records) {
		return nil, fmt.Errorf("%w: %d (history has %d figures)", ErrIndexOutOfRange, i, len(h.records))
	}
	return h.records[i], nil
}

// Records returns a snapshot of the history in insertion order.
func (h *History) Records() []*Record {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*Record, len(h.records))
	copy(out, h.records)
	return out
}

// Current returns the selected record, or nil when the history is empty.
func (h *History) Current() *Record {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.current == noSelection {
		return nil
	}
	return h.records[h.current]
}

// CurrentIndex returns the index of the selected record, or -1.
func (h *History) CurrentIndex() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

func (h *History) Select(i int) (*Record, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if i < 0 || i >= len(h.records) {
		return nil, fmt.Errorf("%w: %d (history has %d figures)", ErrIndexOutOfRange, i, len(h.records))
	}
	h.current = i
	return h.records[i], nil
}

// Step moves the selection by delta positions, wrapping at both ends.
func (h *History) Step(delta int) *Record {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.records)
	if n == 0 {
		return nil
	}
	h.current = ((h.current+delta)%n + n) % n
	return h.records[h.current]
}

// RemoveCurrent drops the selected record. The selection moves to the record
// that took its place, or to the new last record.
func (h *History) RemoveCurrent() (*Record, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current == noSelection {
		return nil, ErrEmptyHistory
	}
	removed := h.records[h.current]
	h.records = append(h.records[:h.current], h.records[h.current+1:]...)
	switch {
	case len(h.records) == 0:
		h.current = noSelection
	case h.current >= len(h.records):
		h.current = len(h.records) - 1
	}
	return removed, nil
}

func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = nil
	h.current = noSelection
}
