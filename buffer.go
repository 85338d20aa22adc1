// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package heapq

import (
	"fmt"
	"math"
	"reflect"
	"unsafe"

	"code.hybscloud.com/heapq/alloc"
)

// buffer is a contiguous run of T in allocator-owned memory.
//
// Invariants: length <= capacity; ptr != nil iff capacity > 0.
type buffer[T any] struct {
	ptr      unsafe.Pointer
	capacity int
	length   int
	alloc    alloc.Allocator
}

func sizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

func alignOf[T any]() int {
	var zero T
	return int(unsafe.Alignof(zero))
}

// newBuffer allocates room for capacity elements.
func newBuffer[T any](a alloc.Allocator, capacity int) (buffer[T], error) {
	b := buffer[T]{alloc: a}
	if capacity == 0 {
		return b, nil
	}
	size, err := bytesFor[T](capacity)
	if err != nil {
		return b, err
	}
	p, err := a.Allocate(size, alignOf[T]())
	if err != nil {
		return b, fmt.Errorf("heapq: allocate %d elements: %w", capacity, err)
	}
	b.ptr = p
	b.capacity = capacity
	return b, nil
}

func bytesFor[T any](n int) (int, error) {
	size := sizeOf[T]()
	if n > math.MaxInt/size {
		return 0, fmt.Errorf("heapq: %d elements of %d bytes: %w", n, size, alloc.ErrOutOfMemory)
	}
	return n * size, nil
}

// slots returns the whole capacity as a slice. The slice aliases
// allocator memory and must not outlive the buffer.
func (b *buffer[T]) slots() []T {
	if b.ptr == nil {
		return nil
	}
	return unsafe.Slice((*T)(b.ptr), b.capacity)
}

// live returns the occupied prefix.
func (b *buffer[T]) live() []T {
	return b.slots()[:b.length]
}

// grow doubles the capacity (minimum 1), keeping elements in place.
// On failure the buffer is unchanged, except for ErrLeakedRegion: the
// buffer has grown and only the old region could not be freed.
func (b *buffer[T]) grow() error {
	newCap := max(1, b.capacity*2)
	newSize, err := bytesFor[T](newCap)
	if err != nil {
		return err
	}
	oldSize := b.capacity * sizeOf[T]()

	if r, ok := b.alloc.(alloc.Reallocator); ok && b.ptr != nil {
		p, err := r.Reallocate(b.ptr, oldSize, newSize, alignOf[T]())
		if err != nil {
			return fmt.Errorf("heapq: grow to %d elements: %w", newCap, err)
		}
		b.ptr = p
		b.capacity = newCap
		return nil
	}

	p, err := b.alloc.Allocate(newSize, alignOf[T]())
	if err != nil {
		return fmt.Errorf("heapq: grow to %d elements: %w", newCap, err)
	}
	copy(unsafe.Slice((*T)(p), newCap), b.live())
	old := b.ptr
	b.ptr = p
	b.capacity = newCap
	if old != nil {
		if err := b.alloc.Free(old, oldSize); err != nil {
			return fmt.Errorf("%w: %w", ErrLeakedRegion, err)
		}
	}
	return nil
}

// free releases the region through the originating allocator.
// A second call is a no-op.
func (b *buffer[T]) free() error {
	return b.freeWith(b.alloc)
}

func (b *buffer[T]) freeWith(a alloc.Allocator) error {
	p, size := b.ptr, b.capacity*sizeOf[T]()
	b.ptr = nil
	b.capacity = 0
	b.length = 0
	if p == nil {
		return nil
	}
	return a.Free(p, size)
}

// checkElem panics unless T can live in memory the garbage collector does
// not scan.
func checkElem[T any]() {
	t := reflect.TypeFor[T]()
	if t.Size() == 0 {
		panic("heapq: element type " + t.String() + " has zero size")
	}
	if !pointerFree(t) {
		panic("heapq: element type " + t.String() + " contains pointers")
	}
}

func pointerFree(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return t.Len() == 0 || pointerFree(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if !pointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
