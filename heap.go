// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package heapq

import "errors"

// core is the binary min-heap over a buffer. It knows nothing about
// safety checks or lifetime.
//
// Heap property: for every i with children 2i+1 and 2i+2 inside
// [0, length), cmp(e[i], child) <= 0. It holds after every completed
// operation, not while one runs.
type core[T any] struct {
	buf buffer[T]
	cmp func(a, b T) int
}

func parent(i int) int { return (i - 1) / 2 }
func left(i int) int   { return 2*i + 1 }
func right(i int) int  { return 2*i + 2 }

// enqueue appends v and sifts it up. Growth failure leaves the heap as it
// was; ErrLeakedRegion is reported after v is in place.
func (c *core[T]) enqueue(v T) error {
	var leaked error
	if c.buf.length >= c.buf.capacity {
		if err := c.buf.grow(); err != nil {
			if !errors.Is(err, ErrLeakedRegion) {
				return err
			}
			leaked = err
		}
	}
	e := c.buf.slots()
	e[c.buf.length] = v
	c.buf.length++
	c.siftUp(e[:c.buf.length], c.buf.length-1)
	return leaked
}

// tryDequeue removes the root. The former last element moves to the root
// and sifts down.
func (c *core[T]) tryDequeue() (T, bool) {
	var zero T
	if c.buf.length == 0 {
		return zero, false
	}
	e := c.buf.live()
	top := e[0]
	last := len(e) - 1
	e[0] = e[last]
	e[last] = zero
	c.buf.length--
	c.siftDown(e[:last], 0)
	return top, true
}

func (c *core[T]) peek() (T, bool) {
	if c.buf.length == 0 {
		var zero T
		return zero, false
	}
	return c.buf.slots()[0], true
}

// find scans linearly; heap order gives no faster lookup for arbitrary
// values. Returns the first i with cmp(target, e[i]) == 0, or -1.
func (c *core[T]) find(target T, cmp func(a, b T) int) int {
	if cmp == nil {
		cmp = c.cmp
	}
	for i, v := range c.buf.live() {
		if cmp(target, v) == 0 {
			return i
		}
	}
	return -1
}

func (c *core[T]) get(index int) (T, bool) {
	if index < 0 || index >= c.buf.length {
		var zero T
		return zero, false
	}
	return c.buf.slots()[index], true
}

// replace overwrites e[index]. Unless the new value compares equal to the
// old one, the slot is swapped with the last element and sifted down from
// index. It never sifts up: a value that now belongs nearer the root can
// end up below larger ancestors.
func (c *core[T]) replace(index int, v T) {
	e := c.buf.live()
	old := e[index]
	e[index] = v
	if c.cmp(old, v) == 0 {
		return
	}
	last := len(e) - 1
	e[index], e[last] = e[last], e[index]
	c.siftDown(e, index)
}

func (c *core[T]) siftUp(e []T, i int) {
	for i > 0 {
		p := parent(i)
		if c.cmp(e[i], e[p]) >= 0 {
			return
		}
		e[i], e[p] = e[p], e[i]
		i = p
	}
}

func (c *core[T]) siftDown(e []T, i int) {
	n := len(e)
	for {
		m := i
		if l := left(i); l < n && c.cmp(e[m], e[l]) > 0 {
			m = l
		}
		if r := right(i); r < n && c.cmp(e[m], e[r]) > 0 {
			m = r
		}
		if m == i {
			return
		}
		e[i], e[m] = e[m], e[i]
		i = m
	}
}
