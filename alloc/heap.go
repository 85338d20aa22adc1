// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alloc

import (
	"fmt"
	"sync"
	"unsafe"

	"code.hybscloud.com/atomix"
)

const wordSize = int(unsafe.Sizeof(uint64(0)))

// Heap allocates regions from the Go heap and keeps them reachable until
// freed. Live regions are tracked, which makes Heap the allocator of choice
// for leak checks in tests.
type Heap struct {
	mu      sync.Mutex
	regions map[uintptr][]uint64

	live      atomix.Int64
	liveBytes atomix.Int64
	allocs    atomix.Uint64
	frees     atomix.Uint64
}

// NewHeap creates a Heap allocator.
func NewHeap() *Heap {
	return &Heap{regions: make(map[uintptr][]uint64)}
}

// Allocate returns a zeroed region of size bytes.
func (h *Heap) Allocate(size, align int) (unsafe.Pointer, error) {
	checkAlign(align)
	if size < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrOutOfMemory, size)
	}
	if size == 0 {
		return nil, nil
	}

	// uint64 backing is 8-byte aligned; over-allocate for wider alignment.
	extra := 0
	if align > wordSize {
		extra = align
	}
	words := (size + extra + wordSize - 1) / wordSize
	backing := make([]uint64, words)
	base := unsafe.Pointer(unsafe.SliceData(backing))
	p := unsafe.Add(base, alignUp(int(uintptr(base)), align)-int(uintptr(base)))

	h.mu.Lock()
	h.regions[uintptr(p)] = backing
	h.mu.Unlock()

	h.live.Add(1)
	h.liveBytes.Add(int64(size))
	h.allocs.Add(1)
	return p, nil
}

// Free releases p. Freeing an unknown or already freed region returns
// ErrDoubleFree.
func (h *Heap) Free(p unsafe.Pointer, size int) error {
	if p == nil {
		return nil
	}
	h.mu.Lock()
	_, ok := h.regions[uintptr(p)]
	if ok {
		delete(h.regions, uintptr(p))
	}
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %p", ErrDoubleFree, p)
	}

	h.live.Add(-1)
	h.liveBytes.Add(-int64(size))
	h.frees.Add(1)
	return nil
}

// Label returns HeapLabel.
func (h *Heap) Label() Label {
	return HeapLabel
}

// Live returns the number of regions not yet freed.
func (h *Heap) Live() int {
	return int(h.live.Load())
}

// LiveBytes returns the bytes held by regions not yet freed.
func (h *Heap) LiveBytes() int {
	return int(h.liveBytes.Load())
}

// Stats returns the total allocate and free counts.
func (h *Heap) Stats() (allocs, frees uint64) {
	return h.allocs.Load(), h.frees.Load()
}
