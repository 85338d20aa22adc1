// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package heapq

// ReadOnly is a lightweight read view of a Queue.
//
// A view taken with AsReadOnly records the guard's generation; once the
// queue is structurally written, using the view panics with
// ErrUnsafeConcurrentAccess. Views handed to ScheduleRead jobs are valid
// for as long as the job runs.
type ReadOnly[T any] struct {
	c     *core[T]
	g     *Guard
	gen   uint64
	lease uint64
}

// AsReadOnly returns a read view of q valid until the next structural
// write.
func (q *Queue[T]) AsReadOnly() ReadOnly[T] {
	c := q.read()
	defer q.g.exitRead()
	return ReadOnly[T]{c: c, g: q.g, gen: q.g.Generation(), lease: q.lease}
}

func (r ReadOnly[T]) enter() *core[T] {
	r.g.enterRead(r.lease)
	if ChecksEnabled && r.lease == 0 && r.g.Generation() != r.gen {
		r.g.exitRead()
		raise(ErrUnsafeConcurrentAccess, "stale view: queue written since the view was taken")
	}
	return r.c
}

// Len returns the number of elements.
func (r ReadOnly[T]) Len() int {
	c := r.enter()
	defer r.g.exitRead()
	return c.buf.length
}

// Peek returns the minimum. Returns ErrEmptyQueue if there is none.
func (r ReadOnly[T]) Peek() (T, error) {
	c := r.enter()
	defer r.g.exitRead()
	v, ok := c.peek()
	if !ok {
		return v, ErrEmptyQueue
	}
	return v, nil
}

// Get returns the element in heap slot index.
// Returns ErrIndexOutOfRange unless 0 <= index < Len().
func (r ReadOnly[T]) Get(index int) (T, error) {
	c := r.enter()
	defer r.g.exitRead()
	v, ok := c.get(index)
	if !ok {
		return v, indexError(index, c.buf.length)
	}
	return v, nil
}

// FindElement returns the first heap slot equal to v, or -1.
func (r ReadOnly[T]) FindElement(v T) int {
	c := r.enter()
	defer r.g.exitRead()
	return c.find(v, nil)
}

// Contains reports whether a value equal to v is queued.
func (r ReadOnly[T]) Contains(v T) bool {
	return r.FindElement(v) >= 0
}

// All calls yield for every element in heap slot order until yield
// returns false.
func (r ReadOnly[T]) All(yield func(index int, v T) bool) {
	c := r.enter()
	defer r.g.exitRead()
	for i, v := range c.buf.live() {
		if !yield(i, v) {
			return
		}
	}
}
