// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package heapq

import (
	"fmt"

	"code.hybscloud.com/heapq/alloc"
	"code.hybscloud.com/heapq/job"
)

// Dispose frees q's storage now. q is no longer created afterwards, and
// every view of it panics with ErrDisposed when used.
//
// Disposing a queue that is not created is a no-op. Dispose returns
// ErrInvalidLifecycleState while scheduled jobs still hold the queue (await
// them, or use DisposeAfter), when called through a job view, and when the
// storage belongs to a caller-managed allocator (use Release).
func (q *Queue[T]) Dispose() error {
	if q != nil && q.lease != 0 {
		return errViewDispose
	}
	if !q.IsCreated() {
		return nil
	}
	if err := q.checkDisposable(); err != nil {
		return err
	}
	if !q.g.covered(job.Handle{}) {
		return fmt.Errorf("%w: scheduled jobs still hold the queue", ErrInvalidLifecycleState)
	}
	return q.disposeNow(q.c.buf.alloc)
}

// DisposeAfter schedules freeing q's storage on s once deps completes and
// returns the Handle of that work.
//
// q is no longer created as soon as DisposeAfter returns, even though the
// memory is released later; neither q nor its views may be used again.
// deps must depend on every job still holding the queue.
//
// For a queue that is not created, DisposeAfter returns deps unchanged.
// Lifecycle errors are the same as for Dispose.
func (q *Queue[T]) DisposeAfter(s job.Scheduler, deps job.Handle) (job.Handle, error) {
	if q != nil && q.lease != 0 {
		return deps, errViewDispose
	}
	if !q.IsCreated() {
		return deps, nil
	}
	if err := q.checkDisposable(); err != nil {
		return deps, err
	}
	if !q.g.covered(deps) {
		return deps, fmt.Errorf("%w: dispose does not depend on jobs holding the queue", ErrInvalidLifecycleState)
	}
	if ChecksEnabled && q.g.active.Load() != 0 {
		raise(ErrUnsafeConcurrentAccess, "dispose while an operation is running")
	}
	if !q.g.markDisposed() {
		return deps, nil
	}

	t := &disposeTask[T]{c: q.c}
	q.c = nil
	return s.Schedule(t.run, deps), nil
}

// Release frees storage that a caller-managed allocator handed to q.
// a must carry the same label as the allocator q was built with;
// otherwise Release returns ErrInvalidLifecycleState and q is untouched.
// Queues on built-in allocators may be released this way as well.
func Release[T any](q *Queue[T], a alloc.Allocator) error {
	if q != nil && q.lease != 0 {
		return errViewDispose
	}
	if !q.IsCreated() {
		return nil
	}
	if a == nil || a.Label() != q.c.buf.alloc.Label() {
		return fmt.Errorf("%w: allocator mismatch", ErrInvalidLifecycleState)
	}
	if !q.g.covered(job.Handle{}) {
		return fmt.Errorf("%w: scheduled jobs still hold the queue", ErrInvalidLifecycleState)
	}
	return q.disposeNow(a)
}

var errViewDispose = fmt.Errorf("%w: dispose through a job view", ErrInvalidLifecycleState)

func (q *Queue[T]) checkDisposable() error {
	switch l := q.c.buf.alloc.Label(); {
	case l == alloc.Invalid:
		return fmt.Errorf("%w: storage was not allocated with a valid allocator", ErrInvalidLifecycleState)
	case l.IsUser():
		return fmt.Errorf("%w: storage from caller-managed allocator %v, use Release", ErrInvalidLifecycleState, l)
	}
	return nil
}

func (q *Queue[T]) disposeNow(a alloc.Allocator) error {
	if ChecksEnabled && q.g.active.Load() != 0 {
		raise(ErrUnsafeConcurrentAccess, "dispose while an operation is running")
	}
	if !q.g.markDisposed() {
		return nil
	}
	err := q.c.buf.freeWith(a)
	q.c = nil
	return err
}

// disposeTask owns storage detached from its queue and frees it when the
// scheduler runs it. Job views scheduled earlier share the same core.
type disposeTask[T any] struct {
	c *core[T]
}

func (t *disposeTask[T]) run() error {
	return t.c.buf.free()
}
