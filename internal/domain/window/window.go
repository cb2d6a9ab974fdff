// Package window keeps the most recent records of a dashboard in insertion order.
package window

// Window is a fixed-capacity ring buffer; appending to a full window evicts the oldest entry.
// It is not safe for concurrent use.
type Window[T any] struct {
	buf   []T
	start int
	size  int
}

// New returns an empty window. Capacities below 1 are treated as 1.
func New[T any](capacity int) *Window[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Window[T]{buf: make([]T, capacity)}
}

// Append adds v as the newest entry.
func (w *Window[T]) Append(v T) {
	if w.size < len(w.buf) {
		w.buf[(w.start+w.size)%len(w.buf)] = v
		w.size++
		return
	}
	w.buf[w.start] = v
	w.start = (w.start + 1) % len(w.buf)
}

func (w *Window[T]) Len() int { return w.size }
func (w *Window[T]) Cap() int { return len(w.buf) }

// All returns a copy of the retained entries, oldest first.
func (w *Window[T]) All() []T {
	return w.Last(w.size)
}

// Last returns a copy of the most recent min(m, Len) entries, oldest first.
func (w *Window[T]) Last(m int) []T {
	if m > w.size {
		m = w.size
	}
	if m <= 0 {
		return []T{}
	}
	out := make([]T, m)
	offset := w.size - m
	for i := range m {
		out[i] = w.buf[(w.start+offset+i)%len(w.buf)]
	}
	return out
}

// Newest returns the most recently appended entry.
func (w *Window[T]) Newest() (T, bool) {
	var zero T
	if w.size == 0 {
		return zero, false
	}
	return w.buf[(w.start+w.size-1)%len(w.buf)], true
}
