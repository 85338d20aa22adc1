// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package runq provides the bounded run queue that feeds scheduler workers.
//
// Queue is a CAS-based multi-producer multi-consumer ring with per-slot
// sequence numbers. Any goroutine may Push; every worker may Pop.
// A full or empty ring reports [iox.ErrWouldBlock] instead of blocking,
// leaving overflow and idling policy to the caller.
package runq

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// Queue is a bounded MPMC ring of T.
//
// Memory: n slots, each padded to its own cache line.
type Queue[T any] struct {
	_      pad
	tail   atomix.Uint64 // Next push position
	_      pad
	head   atomix.Uint64 // Next pop position
	_      pad
	slots  []slot[T]
	mask   uint64
	size   uint64
	queued atomix.Int64 // Approximate occupancy, for stats only
}

type slot[T any] struct {
	seq  atomix.Uint64
	item T
	_    padShort
}

// New creates a run queue holding at least capacity items.
// Capacity rounds up to the next power of 2. Panics if capacity < 2.
func New[T any](capacity int) *Queue[T] {
	if capacity < 2 {
		panic("runq: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	q := &Queue[T]{
		slots: make([]slot[T], n),
		mask:  n - 1,
		size:  n,
	}
	for i := range n {
		q.slots[i].seq.StoreRelaxed(i)
	}
	return q
}

// Push appends item. Returns iox.ErrWouldBlock when the ring is full.
func (q *Queue[T]) Push(item T) error {
	sw := spin.Wait{}
	for {
		tail := q.tail.LoadAcquire()
		s := &q.slots[tail&q.mask]
		seq := s.seq.LoadAcquire()
		switch diff := int64(seq) - int64(tail); {
		case diff == 0:
			if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
				s.item = item
				s.seq.StoreRelease(tail + 1)
				q.queued.Add(1)
				return nil
			}
		case diff < 0:
			return iox.ErrWouldBlock
		}
		sw.Once()
	}
}

// Pop removes the oldest item. Returns iox.ErrWouldBlock when empty.
func (q *Queue[T]) Pop() (T, error) {
	sw := spin.Wait{}
	for {
		head := q.head.LoadAcquire()
		s := &q.slots[head&q.mask]
		seq := s.seq.LoadAcquire()
		switch diff := int64(seq) - int64(head+1); {
		case diff == 0:
			if q.head.CompareAndSwapAcqRel(head, head+1) {
				item := s.item
				var zero T
				s.item = zero
				s.seq.StoreRelease(head + q.size)
				q.queued.Add(-1)
				return item, nil
			}
		case diff < 0:
			var zero T
			return zero, iox.ErrWouldBlock
		}
		sw.Once()
	}
}

// Len reports an approximate number of queued items.
func (q *Queue[T]) Len() int {
	n := q.queued.Load()
	if n < 0 {
		return 0
	}
	return int(n)
}

// Cap returns the ring capacity.
func (q *Queue[T]) Cap() int {
	return int(q.size)
}

func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

type pad [64]byte

type padShort [64 - 8 - unsafe.Sizeof(uintptr(0))]byte
