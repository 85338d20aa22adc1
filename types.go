// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package heapq

// PriorityQueue is the combined interface of a min-priority queue.
//
// Example:
//
//	var pq heapq.PriorityQueue[int] = q
//	pq.Enqueue(42)
//	v, err := pq.Dequeue()
type PriorityQueue[T any] interface {
	Producer[T]
	Consumer[T]
	Reader[T]
	Cap() int
}

// Producer is the interface for adding elements.
type Producer[T any] interface {
	// Enqueue copies v into the queue, growing storage when full.
	// Returns the allocator's error if growth fails; the queue is then
	// unchanged.
	Enqueue(v T) error
}

// Consumer is the interface for removing the highest-priority element.
type Consumer[T any] interface {
	// Dequeue removes and returns the minimum.
	// Returns (zero-value, ErrEmptyQueue) if the queue is empty.
	Dequeue() (T, error)

	// TryDequeue removes and returns the minimum.
	// Returns (zero-value, false) if the queue is empty.
	TryDequeue() (T, bool)
}

// Reader is the interface for non-mutating access.
//
// Indices address heap slots, not sorted positions: index 0 is the
// minimum, the order of the others follows the heap layout.
type Reader[T any] interface {
	Len() int
	Peek() (T, error)
	Get(index int) (T, error)
	FindElement(v T) int
	Contains(v T) bool
}

var (
	_ PriorityQueue[int] = (*Queue[int])(nil)
	_ Reader[int]        = ReadOnly[int]{}
)
