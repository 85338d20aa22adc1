// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package heapq

import (
	"cmp"

	"code.hybscloud.com/heapq/alloc"
)

// DefaultCapacity is the initial capacity used when none is given.
const DefaultCapacity = 16

// defaultAllocator serves builders configured without an allocator.
var defaultAllocator = alloc.NewHeap()

// Options configures queue creation.
type Options struct {
	// Initial element capacity; 0 defers allocation to the first Enqueue
	capacity int

	// Source of element storage
	allocator alloc.Allocator
}

// Builder creates queues with fluent configuration.
//
// Example:
//
//	// Off-heap queue with room for 4096 elements
//	q, err := heapq.Build[uint64](heapq.New(4096).Allocator(alloc.NewMmap()))
//
//	// Arena-backed queue with a custom order
//	arena := alloc.NewArena(1 << 20)
//	q, err := heapq.BuildFunc(heapq.New(64).Allocator(arena), byDeadline)
type Builder struct {
	opts Options
}

// New creates a queue builder with the given initial capacity.
//
// Capacity 0 is legal: nothing is allocated until the first Enqueue, which
// grows the buffer to 1 element and doubles from there.
//
// Panics if capacity < 0.
func New(capacity int) *Builder {
	if capacity < 0 {
		panic("heapq: capacity must be >= 0")
	}
	return &Builder{opts: Options{capacity: capacity}}
}

// Allocator selects where element storage comes from.
// Without it, queues draw from a shared Go-heap allocator.
func (b *Builder) Allocator(a alloc.Allocator) *Builder {
	b.opts.allocator = a
	return b
}

func (b *Builder) allocator() alloc.Allocator {
	if b.opts.allocator == nil {
		return defaultAllocator
	}
	return b.opts.allocator
}

// Build creates a min-queue ordered by [cmp.Compare].
func Build[T cmp.Ordered](b *Builder) (*Queue[T], error) {
	return newQueue(b.allocator(), b.opts.capacity, cmp.Compare[T])
}

// BuildFunc creates a min-queue ordered by compare, which returns a
// negative number when a has higher priority than b, zero when they are
// equal and a positive number otherwise.
func BuildFunc[T any](b *Builder, compare func(a, b T) int) (*Queue[T], error) {
	return newQueue(b.allocator(), b.opts.capacity, compare)
}

// NewQueue creates a min-queue ordered by [cmp.Compare] with storage from a.
// Panics if capacity < 0 or a is nil.
func NewQueue[T cmp.Ordered](a alloc.Allocator, capacity int) (*Queue[T], error) {
	return newQueue(a, capacity, cmp.Compare[T])
}

// NewQueueFunc creates a min-queue ordered by compare with storage from a.
// Panics if capacity < 0, a is nil or compare is nil.
func NewQueueFunc[T any](a alloc.Allocator, capacity int, compare func(a, b T) int) (*Queue[T], error) {
	return newQueue(a, capacity, compare)
}
