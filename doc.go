// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package heapq provides a binary min-heap priority queue whose storage
// lives in allocator-managed memory and can be shared with scheduled jobs.
//
// Elements are kept in one contiguous region obtained from an
// [alloc.Allocator] (Go heap, anonymous mappings, arenas). The region grows
// by doubling and is released only by explicit disposal, so the queue
// suits long-lived, high-churn priority structures that should stay out of
// the garbage collector's way.
//
// # Quick Start
//
//	q, err := heapq.NewQueue[int](alloc.NewHeap(), heapq.DefaultCapacity)
//	if err != nil {
//	    return err
//	}
//	defer q.Dispose()
//
//	q.Enqueue(100)
//	q.Enqueue(2)
//	q.Enqueue(45)
//
//	v, err := q.Dequeue() // 2
//
// Builder API:
//
//	q, err := heapq.Build[uint64](heapq.New(4096).Allocator(alloc.NewMmap()))
//	q, err := heapq.BuildFunc(heapq.New(0), func(a, b Order) int {
//	    return cmp.Compare(a.Deadline, b.Deadline)
//	})
//
// # Operations
//
//	Enqueue(v)            O(log n), grows storage when full
//	Dequeue / TryDequeue  O(log n), strict or found-flag on empty
//	Peek                  O(1)
//	FindElement/Contains  O(n) linear scan, optional equality func
//	Get / ReplaceElement  indexed by heap slot
//
// ReplaceElement swaps the changed slot with the last one and sifts down.
// It does not sift up, so lowering a value below its ancestors can break
// heap order; prefer Dequeue and Enqueue when a priority increases.
//
// # Element Types
//
// Storage is not scanned by the garbage collector, so element types must
// be pointer-free: numbers, booleans, arrays and structs of those.
// Constructors panic otherwise.
//
// # Jobs and the Safety Guard
//
// A Queue performs no locking. To use one from parallel work, schedule the
// work through the queue so it can track who holds it:
//
//	pool := job.New(4).Start()
//
//	w := q.ScheduleWrite(pool, job.Handle{}, func(w *heapq.Queue[int]) error {
//	    return w.Enqueue(7)
//	})
//	r1 := q.ScheduleRead(pool, w, countEven)
//	r2 := q.ScheduleRead(pool, w, sumAll)
//	done, err := q.DisposeAfter(pool, job.Combine(r1, r2))
//
// The [Guard] verifies that every scheduled job depends on the jobs
// already holding the queue, that the owner does not touch the queue while
// a write job holds it, and that no two operations overlap. Violations
// panic with [ErrUnsafeConcurrentAccess], the way the runtime reports
// concurrent map writes. The guard detects; it does not serialize.
// Build with -tags heapq_nochecks to compile the checks out.
//
// # Disposal
//
// Dispose frees storage immediately. DisposeAfter detaches the storage at
// once and frees it from a job that runs after the given dependencies;
// the queue counts as disposed from the moment DisposeAfter returns.
// Storage from caller-managed allocators (labels at or above
// [alloc.FirstUserLabel], such as arenas) is freed with [Release].
//
// # Error Handling
//
// Data conditions are returned as errors: [ErrEmptyQueue],
// [ErrIndexOutOfRange], [ErrInvalidLifecycleState] and allocator errors.
// ErrEmptyQueue is a would-block signal sourced from
// [code.hybscloud.com/iox]:
//
//	heapq.IsWouldBlock(err)  // true for ErrEmptyQueue
//	heapq.IsSemantic(err)    // true if control flow signal
//	heapq.IsNonFailure(err)  // true if nil or would-block
//
// Misuse (invalid capacity, pointer-bearing element types, guard
// violations, use after dispose) panics with an error value.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors and
// [code.hybscloud.com/atomix] for the guard's counters. The [job] package's
// worker pool runs on a lock-free run queue built with atomix and
// [code.hybscloud.com/spin].
package heapq
