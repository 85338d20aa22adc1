// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package heapq

import (
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/heapq/job"
)

// GuardState is the logical access state of a queue.
type GuardState int32

const (
	// Idle: nothing reads or writes the queue.
	Idle GuardState = iota
	// Readable: reads are in progress or scheduled.
	Readable
	// WriteLocked: a write is in progress or scheduled.
	WriteLocked
	// Disposed: the queue has been disposed.
	Disposed
)

func (s GuardState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Readable:
		return "readable"
	case WriteLocked:
		return "write-locked"
	case Disposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Guard is the advisory access tracker shared by a queue and every view of
// it. It detects unsynchronized use; it never blocks and never serializes.
//
// Two kinds of access are tracked:
//   - in-flight operations: active is the number of running reads, or -1
//     while a write runs;
//   - scheduled jobs: each job holding a view owns a lease until it returns.
//
// The generation increases on every structural write and every scheduled
// write, which invalidates ReadOnly views taken earlier.
type Guard struct {
	active     atomix.Int64
	disposed   atomix.Uint64 // 1 once disposed
	generation atomix.Uint64
	writers    atomix.Int64 // Outstanding write leases
	readers    atomix.Int64 // Outstanding read leases
	nextLease  atomix.Uint64

	mu     sync.Mutex
	leases map[uint64]*lease
}

type lease struct {
	write bool
	bound bool
	h     job.Handle
}

func newGuard() *Guard {
	return &Guard{leases: make(map[uint64]*lease)}
}

// State returns the current logical state.
func (g *Guard) State() GuardState {
	if g.writers.Load() > 0 || g.readers.Load() > 0 {
		g.mu.Lock()
		g.prune()
		g.mu.Unlock()
	}
	switch {
	case g.disposed.Load() != 0:
		return Disposed
	case g.active.Load() < 0 || g.writers.Load() > 0:
		return WriteLocked
	case g.active.Load() > 0 || g.readers.Load() > 0:
		return Readable
	default:
		return Idle
	}
}

// Generation returns the current generation.
func (g *Guard) Generation() uint64 {
	return g.generation.Load()
}

func (g *Guard) checkAlive() {
	if g == nil || g.disposed.Load() != 0 {
		raise(ErrDisposed, "access")
	}
}

// checkHolder verifies that the caller identified by id may touch the
// queue right now. id 0 is the owning handle; any other id is a lease.
func (g *Guard) checkHolder(id uint64, write bool) {
	if id == 0 {
		if g.writers.Load() > 0 || (write && g.readers.Load() > 0) {
			g.mu.Lock()
			g.prune()
			g.mu.Unlock()
		}
		if g.writers.Load() > 0 {
			raise(ErrUnsafeConcurrentAccess, "queue is held by a scheduled write job")
		}
		if write && g.readers.Load() > 0 {
			raise(ErrUnsafeConcurrentAccess, "write while scheduled read jobs hold the queue")
		}
		return
	}
	g.mu.Lock()
	l, ok := g.leases[id]
	g.mu.Unlock()
	if !ok {
		raise(ErrUnsafeConcurrentAccess, "view used after its job finished")
	}
	if write && !l.write {
		raise(ErrUnsafeConcurrentAccess, "write through a read-only job view")
	}
}

// enter checks lifecycle for holder id. Job views stay usable after the
// owner disposes with DisposeAfter, since the free waits for their jobs.
func (g *Guard) enter(id uint64) {
	if id == 0 || g == nil {
		g.checkAlive()
	}
}

// enterRead starts a read by holder id.
func (g *Guard) enterRead(id uint64) {
	g.enter(id)
	if !ChecksEnabled {
		return
	}
	g.checkHolder(id, false)
	for {
		n := g.active.Load()
		if n < 0 {
			raise(ErrUnsafeConcurrentAccess, "read overlaps a running write")
		}
		if g.active.CompareAndSwapAcqRel(n, n+1) {
			return
		}
	}
}

func (g *Guard) exitRead() {
	if ChecksEnabled {
		g.active.Add(-1)
	}
}

// enterWrite starts a structural write by holder id and bumps the
// generation.
func (g *Guard) enterWrite(id uint64) {
	g.enter(id)
	if !ChecksEnabled {
		return
	}
	g.checkHolder(id, true)
	if !g.active.CompareAndSwapAcqRel(0, -1) {
		raise(ErrUnsafeConcurrentAccess, "write overlaps a running read or write")
	}
	g.generation.Add(1)
}

func (g *Guard) exitWrite() {
	if ChecksEnabled {
		g.active.StoreRelease(0)
	}
}

// acquire registers a lease for a job about to be scheduled after deps.
// deps must depend on every outstanding write lease, and for a write
// lease on every outstanding lease.
func (g *Guard) acquire(write bool, deps job.Handle) uint64 {
	g.checkAlive()
	if ChecksEnabled && g.active.Load() != 0 {
		raise(ErrUnsafeConcurrentAccess, "scheduling while an operation is running")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.prune()
	if ChecksEnabled {
		for _, l := range g.leases {
			if !write && !l.write {
				continue
			}
			if !l.bound || !deps.DependsOn(l.h) {
				raise(ErrUnsafeConcurrentAccess, "scheduled job does not depend on jobs already using the queue")
			}
		}
	}
	id := g.nextLease.Add(1)
	g.leases[id] = &lease{write: write}
	if write {
		g.writers.Add(1)
		g.generation.Add(1)
	} else {
		g.readers.Add(1)
	}
	return id
}

// bind attaches the scheduled job's handle to lease id.
func (g *Guard) bind(id uint64, h job.Handle) {
	g.mu.Lock()
	if l, ok := g.leases[id]; ok {
		l.h = h
		l.bound = true
	}
	g.mu.Unlock()
}

// release ends lease id. Called by the job when its function returns.
func (g *Guard) release(id uint64) {
	g.mu.Lock()
	g.drop(id)
	g.mu.Unlock()
}

// holds reports whether lease id is still outstanding.
func (g *Guard) holds(id uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prune()
	_, ok := g.leases[id]
	return ok
}

// prune drops leases whose job completed without running, such as work
// rejected by a closed scheduler. g.mu must be held.
func (g *Guard) prune() {
	for id, l := range g.leases {
		if l.bound && l.h.IsCompleted() {
			g.drop(id)
		}
	}
}

// drop removes lease id. g.mu must be held.
func (g *Guard) drop(id uint64) {
	l, ok := g.leases[id]
	if !ok {
		return
	}
	delete(g.leases, id)
	if l.write {
		g.writers.Add(-1)
	} else {
		g.readers.Add(-1)
	}
}

// covered reports whether every outstanding lease completes before deps.
func (g *Guard) covered(deps job.Handle) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prune()
	for _, l := range g.leases {
		if !l.bound || !deps.DependsOn(l.h) {
			return false
		}
	}
	return true
}

// markDisposed flips the guard to Disposed. Only the first call wins.
func (g *Guard) markDisposed() bool {
	return g.disposed.CompareAndSwapAcqRel(0, 1)
}
