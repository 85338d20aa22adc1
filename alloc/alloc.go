// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alloc

import (
	"errors"
	"fmt"
	"unsafe"

	"code.hybscloud.com/atomix"
)

var (
	// ErrOutOfMemory reports that a region of the requested size could not
	// be obtained.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrDoubleFree reports a Free of a region the allocator does not own,
	// typically one that was already released.
	ErrDoubleFree = errors.New("alloc: region not owned or already freed")

	// ErrUnsupported reports an allocator not available on this platform.
	ErrUnsupported = errors.New("alloc: unsupported on this platform")
)

// Label identifies an allocator instance.
type Label int32

const (
	// Invalid is the zero Label. Memory cannot be released through it.
	Invalid Label = iota
	// HeapLabel marks regions from a Heap allocator.
	HeapLabel
	// MmapLabel marks regions from an Mmap allocator.
	MmapLabel

	// FirstUserLabel is the first label handed to caller-managed allocators.
	FirstUserLabel Label = 64
)

// IsUser reports whether memory under l must be released by the caller.
func (l Label) IsUser() bool {
	return l >= FirstUserLabel
}

func (l Label) String() string {
	switch {
	case l == Invalid:
		return "invalid"
	case l == HeapLabel:
		return "heap"
	case l == MmapLabel:
		return "mmap"
	case l.IsUser():
		return fmt.Sprintf("user(%d)", int32(l-FirstUserLabel))
	default:
		return fmt.Sprintf("label(%d)", int32(l))
	}
}

var nextUserLabel atomix.Int32

// NewUserLabel reserves a fresh caller-managed label.
func NewUserLabel() Label {
	return FirstUserLabel + Label(nextUserLabel.Add(1)-1)
}

// Allocator hands out aligned raw regions.
//
// Allocate returns a region of at least size bytes aligned to align, which
// must be a power of 2. A zero size returns (nil, nil).
// Free releases a region previously returned by Allocate with the same size.
// Implementations must be safe for concurrent use.
type Allocator interface {
	Allocate(size, align int) (unsafe.Pointer, error)
	Free(p unsafe.Pointer, size int) error
	Label() Label
}

// Reallocator is implemented by allocators that can resize a region,
// possibly in place. On failure the original region is left untouched.
// The first min(oldSize, newSize) bytes are preserved.
type Reallocator interface {
	Reallocate(p unsafe.Pointer, oldSize, newSize, align int) (unsafe.Pointer, error)
}

func checkAlign(align int) {
	if align <= 0 || align&(align-1) != 0 {
		panic("alloc: align must be a power of 2")
	}
}

func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}
