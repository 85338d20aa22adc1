// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package heapq

import "code.hybscloud.com/heapq/alloc"

// Queue is a growable binary min-heap whose elements live in memory drawn
// from an [alloc.Allocator].
//
// A Queue is not safe for concurrent use. Sharing one with scheduled jobs
// goes through ScheduleWrite and ScheduleRead, which hand each job a view of
// the same storage; the job graph, not the queue, keeps writers exclusive.
// The attached [Guard] detects violations of that discipline and panics
// with ErrUnsafeConcurrentAccess.
//
// Storage is released only by Dispose, DisposeAfter or Release, never by
// the garbage collector. A Queue that is dropped without disposal leaks its
// region.
//
// Element types must not contain pointers, strings, slices, maps, channels,
// funcs or interfaces: allocator memory is not scanned by the garbage
// collector. Constructors panic for such types.
type Queue[T any] struct {
	c     *core[T]
	g     *Guard
	lease uint64 // 0 for the owning handle, the job's lease for views
}

func newQueue[T any](a alloc.Allocator, capacity int, compare func(a, b T) int) (*Queue[T], error) {
	if capacity < 0 {
		panic("heapq: capacity must be >= 0")
	}
	if a == nil {
		panic("heapq: nil allocator")
	}
	if compare == nil {
		panic("heapq: nil compare func")
	}
	checkElem[T]()

	buf, err := newBuffer[T](a, capacity)
	if err != nil {
		return nil, err
	}
	return &Queue[T]{
		c: &core[T]{buf: buf, cmp: compare},
		g: newGuard(),
	}, nil
}

func (q *Queue[T]) read() *core[T] {
	q.g.enterRead(q.lease)
	return q.c
}

func (q *Queue[T]) write() *core[T] {
	q.g.enterWrite(q.lease)
	return q.c
}

// IsCreated reports whether q holds storage that has not been disposed.
// A job view is created only while its job runs.
func (q *Queue[T]) IsCreated() bool {
	if q == nil || q.c == nil || q.g == nil {
		return false
	}
	if q.lease != 0 {
		return q.g.holds(q.lease)
	}
	return q.g.disposed.Load() == 0
}

// Guard returns the safety guard shared by q and its views.
func (q *Queue[T]) Guard() *Guard {
	return q.g
}

// Len returns the number of elements.
func (q *Queue[T]) Len() int {
	c := q.read()
	defer q.g.exitRead()
	return c.buf.length
}

// Cap returns the number of elements storage can hold before growing.
func (q *Queue[T]) Cap() int {
	c := q.read()
	defer q.g.exitRead()
	return c.buf.capacity
}

// IsEmpty reports whether q has no elements. A queue that is not created
// is empty.
func (q *Queue[T]) IsEmpty() bool {
	return !q.IsCreated() || q.Len() == 0
}

// Enqueue adds v. When storage is full it doubles first (from 0 to 1 for an
// empty buffer); if the allocator fails, the error is returned and the
// queue is unchanged.
//
// If the new region was obtained but the old one could not be freed, v is
// enqueued anyway and the returned error wraps ErrLeakedRegion.
func (q *Queue[T]) Enqueue(v T) error {
	c := q.write()
	defer q.g.exitWrite()
	return c.enqueue(v)
}

// Dequeue removes and returns the minimum.
// Returns ErrEmptyQueue if the queue is empty.
func (q *Queue[T]) Dequeue() (T, error) {
	v, ok := q.TryDequeue()
	if !ok {
		return v, ErrEmptyQueue
	}
	return v, nil
}

// TryDequeue removes and returns the minimum, or reports false if the queue
// is empty.
func (q *Queue[T]) TryDequeue() (T, bool) {
	if q.Len() == 0 {
		var zero T
		return zero, false
	}
	c := q.write()
	defer q.g.exitWrite()
	return c.tryDequeue()
}

// Peek returns the minimum without removing it.
// Returns ErrEmptyQueue if the queue is empty.
func (q *Queue[T]) Peek() (T, error) {
	c := q.read()
	defer q.g.exitRead()
	v, ok := c.peek()
	if !ok {
		return v, ErrEmptyQueue
	}
	return v, nil
}

// Get returns the element in heap slot index.
// Returns ErrIndexOutOfRange unless 0 <= index < Len().
func (q *Queue[T]) Get(index int) (T, error) {
	c := q.read()
	defer q.g.exitRead()
	v, ok := c.get(index)
	if !ok {
		return v, indexError(index, c.buf.length)
	}
	return v, nil
}

// ReplaceElement overwrites heap slot index with v.
//
// If v compares equal to the old value nothing moves. Otherwise the slot is
// swapped with the last slot and sifted down from index. Values that gain
// priority are not sifted up, so a replacement smaller than its ancestors
// can leave the heap out of order.
//
// Returns ErrIndexOutOfRange unless 0 <= index < Len().
func (q *Queue[T]) ReplaceElement(index int, v T) error {
	c := q.write()
	defer q.g.exitWrite()
	if index < 0 || index >= c.buf.length {
		return indexError(index, c.buf.length)
	}
	c.replace(index, v)
	return nil
}

// FindElement returns the first heap slot holding a value equal to v under
// the queue's order, or -1. The scan is linear.
func (q *Queue[T]) FindElement(v T) int {
	return q.FindElementFunc(v, nil)
}

// FindElementFunc is like FindElement but uses compare for equality.
// A nil compare falls back to the queue's order.
func (q *Queue[T]) FindElementFunc(v T, compare func(a, b T) int) int {
	c := q.read()
	defer q.g.exitRead()
	return c.find(v, compare)
}

// Contains reports whether a value equal to v is queued.
func (q *Queue[T]) Contains(v T) bool {
	return q.FindElementFunc(v, nil) >= 0
}

// ContainsFunc is like Contains but uses compare for equality.
func (q *Queue[T]) ContainsFunc(v T, compare func(a, b T) int) bool {
	return q.FindElementFunc(v, compare) >= 0
}

// Lookup returns the queued value equal to v, which may differ from v in
// fields the order ignores.
func (q *Queue[T]) Lookup(v T) (T, bool) {
	return q.LookupFunc(v, nil)
}

// LookupFunc is like Lookup but uses compare for equality.
func (q *Queue[T]) LookupFunc(v T, compare func(a, b T) int) (T, bool) {
	c := q.read()
	defer q.g.exitRead()
	if i := c.find(v, compare); i >= 0 {
		return c.buf.slots()[i], true
	}
	var zero T
	return zero, false
}
