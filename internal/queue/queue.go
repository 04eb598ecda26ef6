// Package queue provides the write buffer used by the database store.
package queue

import (
	"sync"
)

// Batch is a thread-safe buffer of pending rows. It reports when it has
// reached its flush threshold so the writer can drain it early.
type Batch[T any] struct {
	mu        sync.Mutex
	items     []T
	threshold int
	dropped   int
}

// New creates an empty batch. threshold <= 0 disables early flush signalling.
func New[T any](threshold int) *Batch[T] {
	return &Batch[T]{threshold: threshold}
}

// Push appends items and reports whether the batch is at or over its threshold.
func (b *Batch[T]) Push(items ...T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, items...)
	return b.threshold > 0 && len(b.items) >= b.threshold
}

// Len returns the number of pending items.
func (b *Batch[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Drain returns all pending items and empties the batch.
func (b *Batch[T]) Drain() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.items
	b.items = make([]T, 0, cap(out))
	return out
}

// Requeue puts items that failed to write back in front of the batch. Items
// beyond limit are discarded and counted; limit <= 0 keeps everything.
func (b *Batch[T]) Requeue(items []T, limit int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	merged := make([]T, 0, len(items)+len(b.items))
	merged = append(merged, items...)
	merged = append(merged, b.items...)
	if limit > 0 && len(merged) > limit {
		b.dropped += len(merged) - limit
		merged = merged[len(merged)-limit:]
	}
	b.items = merged
}

// Dropped returns how many items Requeue has discarded.
func (b *Batch[T]) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
