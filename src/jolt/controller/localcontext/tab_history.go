package localcontext

import (
	"sync"
)

// MaxTabHistory is the number of recently focused files remembered per workspace.
const MaxTabHistory = 10

// TabHistory is a bounded set of paths ordered by when they were last added.
type TabHistory struct {
	mu       sync.Mutex
	capacity int
	// items is ordered from least to most recent.
	items []string
}

// NewTabHistory returns an empty history holding at most capacity paths.
func NewTabHistory(capacity int) *TabHistory {
	if capacity <= 0 {
		capacity = MaxTabHistory
	}
	return &TabHistory{capacity: capacity}
}

// Add marks path as the most recent entry, evicting the least recent one when full.
func (h *TabHistory) Add(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.remove(path)
	if len(h.items) == h.capacity {
		h.items = h.items[1:]
	}
	h.items = append(h.items, path)
}

// Remove drops path and reports whether it was present.
func (h *TabHistory) Remove(path string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.remove(path)
}

func (h *TabHistory) remove(path string) bool {
	for i, item := range h.items {
		if item == path {
			h.items = append(h.items[:i:i], h.items[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether path is in the history.
func (h *TabHistory) Contains(path string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, item := range h.items {
		if item == path {
			return true
		}
	}
	return false
}

// Recent returns the paths from most to least recent.
func (h *TabHistory) Recent() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]string, 0, len(h.items))
	for i := len(h.items) - 1; i >= 0; i-- {
		result = append(result, h.items[i])
	}
	return result
}
