// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package heapq_test

import (
	"errors"
	"testing"
	"time"

	"code.hybscloud.com/heapq"
	"code.hybscloud.com/heapq/alloc"
	"code.hybscloud.com/iox"
)

// =============================================================================
// Test Helpers
// =============================================================================

// newIntQueue creates an int queue on a fresh tracked heap allocator.
func newIntQueue(t *testing.T, capacity int) (*heapq.Queue[int], *alloc.Heap) {
	t.Helper()
	h := alloc.NewHeap()
	q, err := heapq.NewQueue[int](h, capacity)
	if err != nil {
		t.Fatalf("NewQueue(%d): %v", capacity, err)
	}
	return q, h
}

// enqueueAll enqueues vs in order.
func enqueueAll[T any](t *testing.T, q *heapq.Queue[T], vs ...T) {
	t.Helper()
	for _, v := range vs {
		if err := q.Enqueue(v); err != nil {
			t.Fatalf("Enqueue(%v): %v", v, err)
		}
	}
}

// checkHeap verifies the min-heap property slot by slot.
func checkHeap(t *testing.T, q *heapq.Queue[int]) {
	t.Helper()
	n := q.Len()
	for i := range n {
		parent, _ := q.Get(i)
		for _, c := range []int{2*i + 1, 2*i + 2} {
			if c >= n {
				continue
			}
			child, _ := q.Get(c)
			if parent > child {
				t.Fatalf("heap property: slot %d (%d) > slot %d (%d)", i, parent, c, child)
			}
		}
	}
}

// mustPanic runs f and requires a panic whose value is an error matching
// target.
func mustPanic(t *testing.T, target error, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with %v", target)
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value %v (%T), want error", r, r)
		}
		if !errors.Is(err, target) {
			t.Fatalf("panic: got %v, want %v", err, target)
		}
	}()
	f()
}

// waitFor retries f until it returns true or timeout expires.
func waitFor(t *testing.T, timeout time.Duration, f func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	backoff := iox.Backoff{}
	for !f() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout after %v: %s", timeout, msg)
		}
		backoff.Wait()
	}
}

func requireChecks(t *testing.T) {
	t.Helper()
	if !heapq.ChecksEnabled {
		t.Skip("safety checks compiled out (heapq_nochecks)")
	}
}

// skipRace skips tests that share a queue with pool workers. atomix
// accesses in the guard and run queue look unsynchronized to the race
// detector.
func skipRace(t *testing.T) {
	t.Helper()
	if heapq.RaceEnabled {
		t.Skip("skip: cross-goroutine queue access under the race detector")
	}
}
