// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alloc

import (
	"fmt"
	"sync"
	"unsafe"
)

// Arena is a bump allocator over one fixed block.
//
// Free only reclaims the most recent allocation; everything else is
// reclaimed at once by Reset. Containers therefore cannot release arena
// memory on their own: an Arena carries a user label and its owner decides
// when the block is recycled.
type Arena struct {
	mu     sync.Mutex
	block  []uint64
	base   unsafe.Pointer
	size   int
	offset int
	last   int // Offset of the most recent allocation, -1 if none
	label  Label
}

// NewArena creates an arena of size bytes with a fresh user label.
// Panics if size < 0.
func NewArena(size int) *Arena {
	if size < 0 {
		panic("alloc: arena size must be >= 0")
	}
	block := make([]uint64, (size+wordSize-1)/wordSize)
	return &Arena{
		block: block,
		base:  unsafe.Pointer(unsafe.SliceData(block)),
		size:  size,
		last:  -1,
		label: NewUserLabel(),
	}
}

// Allocate bumps the arena offset. Returns ErrOutOfMemory when the block
// is exhausted.
func (a *Arena) Allocate(size, align int) (unsafe.Pointer, error) {
	checkAlign(align)
	if size == 0 {
		return nil, nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	start := alignUp(a.offset, align)
	if size < 0 || start+size > a.size {
		return nil, fmt.Errorf("%w: arena has %d of %d bytes free, need %d",
			ErrOutOfMemory, a.size-a.offset, a.size, size)
	}
	a.last = start
	a.offset = start + size
	return unsafe.Add(a.base, start), nil
}

// Free rolls the offset back when p is the most recent allocation.
// Other regions stay in place until Reset.
func (a *Arena) Free(p unsafe.Pointer, size int) error {
	if p == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	off := int(uintptr(p) - uintptr(a.base))
	if off < 0 || off >= a.size {
		return fmt.Errorf("%w: %p outside arena", ErrDoubleFree, p)
	}
	if off == a.last && off+size == a.offset {
		a.offset = off
		a.last = -1
	}
	return nil
}

// Reallocate grows or shrinks p in place when it is the most recent
// allocation, and moves it otherwise.
func (a *Arena) Reallocate(p unsafe.Pointer, oldSize, newSize, align int) (unsafe.Pointer, error) {
	checkAlign(align)
	if p == nil {
		return a.Allocate(newSize, align)
	}
	a.mu.Lock()
	off := int(uintptr(p) - uintptr(a.base))
	if off == a.last && off+oldSize == a.offset && off+newSize <= a.size {
		a.offset = off + newSize
		a.mu.Unlock()
		return p, nil
	}
	a.mu.Unlock()

	np, err := a.Allocate(newSize, align)
	if err != nil {
		return nil, err
	}
	copy(unsafe.Slice((*byte)(np), newSize), unsafe.Slice((*byte)(p), min(oldSize, newSize)))
	return np, nil
}

// Label returns the arena's user label.
func (a *Arena) Label() Label {
	return a.label
}

// Used returns the bytes currently bumped past.
func (a *Arena) Used() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.offset
}

// Reset reclaims every region at once. The caller must guarantee no
// container still references arena memory.
func (a *Arena) Reset() {
	a.mu.Lock()
	a.offset = 0
	a.last = -1
	a.mu.Unlock()
	clear(a.block)
}
