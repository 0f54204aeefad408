package common

import "sync"

// Queue is a FIFO that may be pushed from any goroutine and drained from one.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// Push adds an item.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
}

// Drain swaps out everything queued so far. Items pushed while the caller is
// processing the result land in the next drain.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	out := q.items
	q.items = nil
	q.mu.Unlock()
	return out
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
