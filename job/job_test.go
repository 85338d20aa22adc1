// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !race

// Pool workers hand tasks over through atomix-based rings, which the race
// detector does not recognize as synchronization.

package job_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/heapq/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroHandle(t *testing.T) {
	var h job.Handle
	assert.True(t, h.IsCompleted())
	assert.NoError(t, h.Err())
	assert.NoError(t, h.Complete())
	assert.NoError(t, h.Wait(context.Background()))

	select {
	case <-h.Done():
	default:
		t.Fatal("zero Handle Done channel not closed")
	}
}

func TestInline(t *testing.T) {
	ran := false
	h := job.Inline{}.Schedule(func() error {
		ran = true
		return nil
	}, job.Handle{})
	assert.True(t, ran)
	assert.True(t, h.IsCompleted())
	assert.NoError(t, h.Err())

	boom := errors.New("boom")
	h = job.Inline{}.Schedule(func() error { return boom }, job.Handle{})
	assert.ErrorIs(t, h.Err(), boom)
}

func TestInlineRunsAfterDependency(t *testing.T) {
	pool := job.New(1).Start()
	defer pool.Close(context.Background())

	gate := make(chan struct{})
	first := pool.Schedule(func() error {
		<-gate
		return nil
	}, job.Handle{})

	var ran atomix.Int64
	second := job.Inline{}.Schedule(func() error {
		ran.Add(1)
		return nil
	}, first)
	assert.False(t, second.IsCompleted())
	assert.Zero(t, ran.Load())

	close(gate)
	require.NoError(t, second.Complete())
	assert.Equal(t, int64(1), ran.Load())
}

func TestInlinePanic(t *testing.T) {
	h := job.Inline{}.Schedule(func() error { panic("bad") }, job.Handle{})
	assert.ErrorIs(t, h.Err(), job.ErrPanic)
	assert.Contains(t, h.Err().Error(), "bad")

	cause := errors.New("cause")
	h = job.Inline{}.Schedule(func() error { panic(cause) }, job.Handle{})
	assert.ErrorIs(t, h.Err(), job.ErrPanic)
	assert.ErrorIs(t, h.Err(), cause)
}

func TestWaitContext(t *testing.T) {
	pool := job.New(1).Start()
	defer pool.Close(context.Background())

	gate := make(chan struct{})
	h := pool.Schedule(func() error {
		<-gate
		return nil
	}, job.Handle{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, h.Wait(ctx), context.DeadlineExceeded)
	assert.NoError(t, h.Err(), "Err is nil while running")

	close(gate)
	assert.NoError(t, h.Wait(context.Background()))
}

func TestDependsOn(t *testing.T) {
	pool := job.New(2).Start()
	defer pool.Close(context.Background())

	gate := make(chan struct{})
	noop := func() error { return nil }
	a := pool.Schedule(func() error {
		<-gate
		return nil
	}, job.Handle{})
	b := pool.Schedule(noop, a)
	c := pool.Schedule(noop, b)
	other := pool.Schedule(func() error {
		<-gate
		return nil
	}, job.Handle{})

	assert.True(t, a.DependsOn(a))
	assert.True(t, c.DependsOn(a), "transitive")
	assert.True(t, c.DependsOn(b))
	assert.False(t, a.DependsOn(c))
	assert.False(t, c.DependsOn(other))
	assert.False(t, job.Handle{}.DependsOn(a))
	assert.True(t, c.DependsOn(job.Handle{}), "completed work is always covered")

	both := job.Combine(c, other)
	assert.True(t, both.DependsOn(a))
	assert.True(t, both.DependsOn(other))

	close(gate)
	require.NoError(t, both.Complete())
	assert.True(t, job.Handle{}.DependsOn(a))
}

func TestCombine(t *testing.T) {
	assert.True(t, job.Combine().IsCompleted())

	h := job.Inline{}.Schedule(func() error { return nil }, job.Handle{})
	assert.True(t, job.Combine(h, job.Handle{}).IsCompleted())

	pool := job.New(2).Start()
	defer pool.Close(context.Background())

	gate := make(chan struct{})
	e1, e2 := errors.New("e1"), errors.New("e2")
	a := pool.Schedule(func() error {
		<-gate
		return e1
	}, job.Handle{})
	b := pool.Schedule(func() error {
		<-gate
		return e2
	}, job.Handle{})

	all := job.Combine(a, b, job.Handle{})
	assert.False(t, all.IsCompleted())
	assert.Equal(t, a, job.Combine(a), "a single pending handle is returned as is")

	close(gate)
	err := all.Complete()
	assert.ErrorIs(t, err, e1)
	assert.ErrorIs(t, err, e2)

	failed := job.Combine(a, h)
	assert.True(t, failed.IsCompleted())
	assert.ErrorIs(t, failed.Err(), e1)
}

func TestPoolOrdering(t *testing.T) {
	pool := job.New(4).Start()
	defer pool.Close(context.Background())

	var mu sync.Mutex
	var order []int
	step := func(i int) func() error {
		return func() error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		}
	}

	var h job.Handle
	for i := range 50 {
		h = pool.Schedule(step(i), h)
	}
	require.NoError(t, h.Complete())

	require.Len(t, order, 50)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestPoolOverflow(t *testing.T) {
	pool := job.New(1).RunQueue(2).Start()

	gate := make(chan struct{})
	var count atomix.Int64
	blocker := pool.Schedule(func() error {
		<-gate
		return nil
	}, job.Handle{})

	hs := []job.Handle{blocker}
	for range 100 {
		hs = append(hs, pool.Schedule(func() error {
			count.Add(1)
			return nil
		}, job.Handle{}))
	}
	close(gate)
	require.NoError(t, job.Combine(hs...).Complete())
	assert.Equal(t, int64(100), count.Load())

	require.NoError(t, pool.Close(context.Background()))
	executed, spilled, panics := pool.Stats()
	assert.Equal(t, uint64(101), executed)
	assert.NotZero(t, spilled)
	assert.Zero(t, panics)
}

func TestPoolPanic(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	pool := job.New(1).Logger(log).Start()

	h := pool.Schedule(func() error { panic("kaboom") }, job.Handle{})
	assert.ErrorIs(t, h.Complete(), job.ErrPanic)

	after := pool.Schedule(func() error { return nil }, h)
	assert.NoError(t, after.Complete(), "dependents run after a failed dependency")

	require.NoError(t, pool.Close(context.Background()))
	_, _, panics := pool.Stats()
	assert.Equal(t, uint64(1), panics)
	assert.Contains(t, buf.String(), "kaboom")
}

func TestPoolClose(t *testing.T) {
	pool := job.New(2).Start()

	var count atomix.Int64
	for range 10 {
		pool.Schedule(func() error {
			time.Sleep(time.Millisecond)
			count.Add(1)
			return nil
		}, job.Handle{})
	}
	require.NoError(t, pool.Close(context.Background()))
	assert.Equal(t, int64(10), count.Load(), "Close drains scheduled work")

	h := pool.Schedule(func() error { return nil }, job.Handle{})
	assert.ErrorIs(t, h.Complete(), job.ErrClosed)
	assert.NoError(t, pool.Close(context.Background()), "second Close is a no-op")
}

func TestPoolCloseTimeout(t *testing.T) {
	pool := job.New(1).Start()

	gate := make(chan struct{})
	blocked := pool.Schedule(func() error {
		<-gate
		return nil
	}, job.Handle{})

	// Workers stop only after the running function returns.
	time.AfterFunc(100*time.Millisecond, func() { close(gate) })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, pool.Close(ctx), context.DeadlineExceeded)
	assert.True(t, blocked.IsCompleted())
}

func TestPoolCloseAbortsPending(t *testing.T) {
	upstream := job.New(1).Start()
	defer upstream.Close(context.Background())

	gate := make(chan struct{})
	dep := upstream.Schedule(func() error {
		<-gate
		return nil
	}, job.Handle{})

	pool := job.New(1).Start()
	ran := false
	pending := pool.Schedule(func() error {
		ran = true
		return nil
	}, dep)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, pool.Close(ctx), context.DeadlineExceeded)

	close(gate)
	assert.ErrorIs(t, pending.Complete(), job.ErrClosed)
	assert.False(t, ran)
}

func TestBuilderPanics(t *testing.T) {
	assert.Panics(t, func() { job.New(0) })
	assert.Panics(t, func() { job.New(1).RunQueue(1) })
}

var (
	_ job.Scheduler = job.Inline{}
	_ job.Scheduler = (*job.Pool)(nil)
)
