package tail

import (
	"slices"

	"github.com/eventsieve/eventsieve/pkg/analyzer"
)

// DefaultWindowSize is how many reported activities are remembered for
// duplicate suppression.
const DefaultWindowSize = 100

// Window is a bounded FIFO of recently reported activities. Once full, the
// oldest entries are evicted first. Lookups are linear; the window is small.
type Window struct {
	items []analyzer.Activity
	size  int
}

// NewWindow creates a window holding at most size activities.
func NewWindow(size int) *Window {
	if size <= 0 {
		size = DefaultWindowSize
	}
	return &Window{items: make([]analyzer.Activity, 0, size), size: size}
}

// Contains reports whether an Equal activity is in the window.
func (w *Window) Contains(a analyzer.Activity) bool {
	return slices.ContainsFunc(w.items, a.Equal)
}

// Add appends activities in order and evicts the oldest beyond capacity.
func (w *Window) Add(activities ...analyzer.Activity) {
	w.items = append(w.items, activities...)
	if over := len(w.items) - w.size; over > 0 {
		w.items = slices.Delete(w.items, 0, over)
	}
}

// Len returns the number of remembered activities.
func (w *Window) Len() int {
	return len(w.items)
}

// Cap returns the window capacity.
func (w *Window) Cap() int {
	return w.size
}

// Items returns a copy of the window, oldest first.
func (w *Window) Items() []analyzer.Activity {
	return slices.Clone(w.items)
}
