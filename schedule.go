// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package heapq

import "code.hybscloud.com/heapq/job"

// ScheduleWrite runs fn on s after deps, handing it a view of q that may
// read and write.
//
// deps must depend on every job already scheduled against q (see
// [job.Handle.DependsOn]); otherwise ScheduleWrite panics with
// ErrUnsafeConcurrentAccess. Scheduling bumps the guard's generation.
// Until fn returns, q itself may not be used: await the returned Handle
// first. The view must not be kept after fn returns.
//
// Example:
//
//	fill := q.ScheduleWrite(pool, job.Handle{}, func(w *heapq.Queue[int]) error {
//	    for _, v := range batch {
//	        if err := w.Enqueue(v); err != nil {
//	            return err
//	        }
//	    }
//	    return nil
//	})
//	if err := fill.Complete(); err != nil {
//	    return err
//	}
//	top, _ := q.Peek()
func (q *Queue[T]) ScheduleWrite(s job.Scheduler, deps job.Handle, fn func(w *Queue[T]) error) job.Handle {
	q.mustOwn()
	id := q.g.acquire(true, deps)
	view := &Queue[T]{c: q.c, g: q.g, lease: id}
	h := s.Schedule(func() error {
		defer q.g.release(id)
		return fn(view)
	}, deps)
	q.g.bind(id, h)
	return h
}

// ScheduleRead runs fn on s after deps, handing it a read-only view of q.
//
// Read jobs may overlap each other. deps must depend on every write job
// already scheduled against q; otherwise ScheduleRead panics with
// ErrUnsafeConcurrentAccess. Until fn returns, q may be read but not
// written.
func (q *Queue[T]) ScheduleRead(s job.Scheduler, deps job.Handle, fn func(r ReadOnly[T]) error) job.Handle {
	q.mustOwn()
	id := q.g.acquire(false, deps)
	view := ReadOnly[T]{c: q.c, g: q.g, gen: q.g.Generation(), lease: id}
	h := s.Schedule(func() error {
		defer q.g.release(id)
		return fn(view)
	}, deps)
	q.g.bind(id, h)
	return h
}

func (q *Queue[T]) mustOwn() {
	q.g.checkAlive()
	if q.lease != 0 {
		raise(ErrUnsafeConcurrentAccess, "job views cannot schedule or dispose")
	}
}
