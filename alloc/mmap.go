// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alloc

import (
	"fmt"
	"os"
	"sync"
	"unsafe"
)

// Mmap allocates every region as its own anonymous OS mapping, outside the
// Go heap. Sizes round up to whole pages; alignment up to the page size is
// always satisfied.
type Mmap struct {
	mu       sync.Mutex
	mappings map[uintptr]int // Mapped length by base address
	page     int
}

// NewMmap creates an Mmap allocator. On platforms without anonymous
// mappings every Allocate returns ErrUnsupported.
func NewMmap() *Mmap {
	return &Mmap{
		mappings: make(map[uintptr]int),
		page:     os.Getpagesize(),
	}
}

// Allocate maps a fresh zeroed region.
func (m *Mmap) Allocate(size, align int) (unsafe.Pointer, error) {
	checkAlign(align)
	if size == 0 {
		return nil, nil
	}
	if align > m.page {
		return nil, fmt.Errorf("%w: align %d exceeds page size %d", ErrUnsupported, align, m.page)
	}
	length := alignUp(size, m.page)
	p, err := mapRegion(length)
	if err != nil {
		return nil, fmt.Errorf("%w: map %d bytes: %w", ErrOutOfMemory, length, err)
	}

	m.mu.Lock()
	m.mappings[uintptr(p)] = length
	m.mu.Unlock()
	return p, nil
}

// Free unmaps p.
func (m *Mmap) Free(p unsafe.Pointer, size int) error {
	if p == nil {
		return nil
	}
	m.mu.Lock()
	length, ok := m.mappings[uintptr(p)]
	if ok {
		delete(m.mappings, uintptr(p))
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %p", ErrDoubleFree, p)
	}
	return unmapRegion(p, length)
}

// Label returns MmapLabel.
func (m *Mmap) Label() Label {
	return MmapLabel
}

// Mapped returns the number of live mappings.
func (m *Mmap) Mapped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.mappings)
}
