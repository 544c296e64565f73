package utils

import (
	"errors"
	"iter"

	"github.com/oomph-ac/locomotion/oerror"
)

// CircularQueue is a fixed capacity FIFO. Appending to a full queue overwrites its oldest item.
type CircularQueue[T any] struct {
	items []T
	head  int
	tail  int
	size  int
}

// NewCircularQueue returns an empty queue able to hold capacity items.
func NewCircularQueue[T any](capacity int) *CircularQueue[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &CircularQueue[T]{items: make([]T, capacity)}
}

// Get returns the element at logical position index (0 = oldest), or an error if out of range.
func (q *CircularQueue[T]) Get(index int) (T, error) {
	var zero T
	if index < 0 || index >= q.size {
		return zero, errors.New("circularqueue: get out of range")
	}
	return q.items[(q.head+index)%len(q.items)], nil
}

// Last returns the most recently appended element. ok is false if the queue is empty.
func (q *CircularQueue[T]) Last() (item T, ok bool) {
	if q.size == 0 {
		return item, false
	}
	return q.items[(q.head+q.size-1)%len(q.items)], true
}

// Iter yields the queued elements from oldest to newest.
func (q *CircularQueue[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for index := range q.size {
			if !yield(q.items[(q.head+index)%len(q.items)]) {
				return
			}
		}
	}
}

// Len returns the number of items currently queued.
func (q *CircularQueue[T]) Len() int {
	return q.size
}

// Cap returns the maximum number of items the queue can hold.
func (q *CircularQueue[T]) Cap() int {
	return len(q.items)
}

// Full returns true if the next Append will overwrite the oldest item.
func (q *CircularQueue[T]) Full() bool {
	return q.size == len(q.items)
}

// Pop removes and returns the oldest element. The boolean ok is false if the
// queue is empty.
func (q *CircularQueue[T]) Pop() (item T, ok bool) {
	if q.size == 0 {
		return item, false
	}
	item = q.items[q.head]
	var zero T
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.size--
	return item, true
}

// Clear drops every queued item.
func (q *CircularQueue[T]) Clear() {
	clear(q.items)
	q.head, q.tail, q.size = 0, 0, 0
}

// Append appends an item or returns an error if the queue has zero capacity.
func (q *CircularQueue[T]) Append(item T) error {
	if len(q.items) == 0 {
		return oerror.New("circularQueue: append on zero-capacity queue")
	}

	q.items[q.tail] = item
	if q.size == len(q.items) {
		// Full, the write above replaced the oldest element.
		q.head = (q.head + 1) % len(q.items)
	} else {
		q.size++
	}
	q.tail = (q.tail + 1) % len(q.items)
	return nil
}
