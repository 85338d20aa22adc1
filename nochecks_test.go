// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build heapq_nochecks

package heapq_test

import (
	"context"
	"errors"
	"testing"

	"code.hybscloud.com/heapq"
	"code.hybscloud.com/heapq/job"
)

// TestNoChecksDisposeWhileJobHolds keeps lifecycle rules with the
// concurrency checks compiled out.
func TestNoChecksDisposeWhileJobHolds(t *testing.T) {
	skipRace(t)
	q, h := newIntQueue(t, 4)

	pool := job.New(1).Start()
	defer pool.Close(context.Background())

	gate := make(chan struct{})
	w := q.ScheduleWrite(pool, job.Handle{}, func(w *heapq.Queue[int]) error {
		<-gate
		return w.Enqueue(1)
	})

	if err := q.Dispose(); !errors.Is(err, heapq.ErrInvalidLifecycleState) {
		t.Fatalf("Dispose with job outstanding: got %v, want ErrInvalidLifecycleState", err)
	}
	if _, err := q.DisposeAfter(pool, job.Handle{}); !errors.Is(err, heapq.ErrInvalidLifecycleState) {
		t.Fatalf("DisposeAfter without dependency: got %v, want ErrInvalidLifecycleState", err)
	}

	close(gate)
	if err := w.Complete(); err != nil {
		t.Fatalf("write job: %v", err)
	}
	if err := q.Dispose(); err != nil {
		t.Fatalf("Dispose after job: %v", err)
	}
	if h.Live() != 0 {
		t.Fatalf("Live regions: got %d, want 0", h.Live())
	}
}
