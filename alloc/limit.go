// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alloc

import (
	"fmt"
	"unsafe"

	"code.hybscloud.com/atomix"
)

// Limit caps the bytes an underlying allocator may hand out.
type Limit struct {
	a    Allocator
	max  int64
	used atomix.Int64
}

// NewLimit wraps a with a budget of max bytes.
func NewLimit(a Allocator, max int) *Limit {
	return &Limit{a: a, max: int64(max)}
}

// Allocate reserves size bytes of budget, then delegates.
func (l *Limit) Allocate(size, align int) (unsafe.Pointer, error) {
	if size == 0 {
		return nil, nil
	}
	if used := l.used.Add(int64(size)); used > l.max {
		l.used.Add(-int64(size))
		return nil, fmt.Errorf("%w: limit %d bytes, in use %d, need %d",
			ErrOutOfMemory, l.max, used-int64(size), size)
	}
	p, err := l.a.Allocate(size, align)
	if err != nil {
		l.used.Add(-int64(size))
		return nil, err
	}
	return p, nil
}

// Free delegates and returns size bytes to the budget.
func (l *Limit) Free(p unsafe.Pointer, size int) error {
	if p == nil {
		return nil
	}
	if err := l.a.Free(p, size); err != nil {
		return err
	}
	l.used.Add(-int64(size))
	return nil
}

// Label returns the wrapped allocator's label.
func (l *Limit) Label() Label {
	return l.a.Label()
}

// Used returns the bytes currently allocated through l.
func (l *Limit) Used() int {
	return int(l.used.Load())
}
