// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package job

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/heapq/internal/runq"
	"code.hybscloud.com/iox"
	"github.com/eapache/queue"
	"golang.org/x/sync/errgroup"
)

// idleSpins is how many backoff rounds an idle worker takes before parking.
const idleSpins = 8

// Builder configures a Pool.
//
// Example:
//
//	pool := job.New(runtime.GOMAXPROCS(0)).RunQueue(4096).Logger(logger).Start()
type Builder struct {
	workers  int
	runQueue int
	logger   *slog.Logger
}

// New creates a pool builder with the given number of workers.
// Panics if workers < 1.
func New(workers int) *Builder {
	if workers < 1 {
		panic("job: workers must be >= 1")
	}
	return &Builder{workers: workers, runQueue: 1024}
}

// RunQueue sets the capacity of the lock-free run queue. Ready work that
// does not fit spills into an unbounded overflow FIFO.
// Capacity rounds up to the next power of 2. Panics if n < 2.
func (b *Builder) RunQueue(n int) *Builder {
	if n < 2 {
		panic("job: run queue capacity must be >= 2")
	}
	b.runQueue = n
	return b
}

// Logger sets the logger for recovered panics and shutdown.
func (b *Builder) Logger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// Start launches the workers.
func (b *Builder) Start() *Pool {
	log := b.logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	p := &Pool{
		ready:    runq.New[*task](b.runQueue),
		overflow: queue.New(),
		wake:     make(chan struct{}, b.workers),
		quit:     make(chan struct{}),
		log:      log,
	}
	for range b.workers {
		p.group.Go(p.worker)
	}
	return p
}

// Pool is a Scheduler backed by a fixed set of worker goroutines.
//
// Ready work goes to a bounded lock-free run queue; when that is full it
// spills into a mutex-protected overflow FIFO, which workers drain once the
// run queue is empty.
type Pool struct {
	ready *runq.Queue[*task]

	mu       sync.Mutex
	overflow *queue.Queue

	life     sync.RWMutex
	closed   bool // No new work is accepted
	stopped  bool // Workers have exited
	inflight sync.WaitGroup

	wake  chan struct{}
	quit  chan struct{}
	group errgroup.Group
	log   *slog.Logger

	executed atomix.Uint64
	spilled  atomix.Uint64
	panics   atomix.Uint64
}

type task struct {
	fn func() error
	s  *state
}

// Schedule implements Scheduler. Work scheduled on a closed pool never
// runs; its Handle completes with ErrClosed.
func (p *Pool) Schedule(fn func() error, deps Handle) Handle {
	s := newState(deps)

	p.life.RLock()
	if p.closed {
		p.life.RUnlock()
		s.finish(ErrClosed)
		return Handle{s}
	}
	p.inflight.Add(1)
	p.life.RUnlock()

	t := &task{fn: fn, s: s}
	after(deps, func() { p.submit(t) })
	return Handle{s}
}

func (p *Pool) submit(t *task) {
	p.life.RLock()
	if p.stopped {
		p.life.RUnlock()
		p.abort(t)
		return
	}
	if err := p.ready.Push(t); err != nil {
		p.mu.Lock()
		p.overflow.Add(t)
		p.mu.Unlock()
		p.spilled.Add(1)
	}
	p.life.RUnlock()
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Pool) next() *task {
	if t, err := p.ready.Pop(); err == nil {
		return t
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.overflow.Length() == 0 {
		return nil
	}
	return p.overflow.Remove().(*task)
}

func (p *Pool) worker() error {
	backoff := iox.Backoff{}
	idle := 0
	for {
		if t := p.next(); t != nil {
			p.run(t)
			backoff.Reset()
			idle = 0
			continue
		}
		if idle < idleSpins {
			idle++
			backoff.Wait()
			continue
		}
		select {
		case <-p.wake:
			idle = 0
		case <-p.quit:
			return nil
		}
	}
}

func (p *Pool) run(t *task) {
	err := call(t.fn)
	if errors.Is(err, ErrPanic) {
		p.panics.Add(1)
		p.log.Error("scheduled function panicked", "err", err)
	}
	p.executed.Add(1)
	t.s.finish(err)
	p.inflight.Done()
}

func (p *Pool) abort(t *task) {
	t.s.finish(ErrClosed)
	p.inflight.Done()
}

// Close stops accepting work, waits for scheduled work to finish, then
// stops the workers. If ctx ends first, workers are stopped anyway and
// work that has not started completes with ErrClosed instead of running.
func (p *Pool) Close(ctx context.Context) error {
	p.life.Lock()
	if p.closed {
		p.life.Unlock()
		return nil
	}
	p.closed = true
	p.life.Unlock()

	drained := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(drained)
	}()

	var err error
	select {
	case <-drained:
	case <-ctx.Done():
		err = ctx.Err()
		p.log.Warn("pool closed before scheduled work drained", "err", err)
	}
	close(p.quit)
	if werr := p.group.Wait(); werr != nil && err == nil {
		err = werr
	}

	// Work left in the queues, or released by dependencies later, completes
	// with ErrClosed.
	p.life.Lock()
	p.stopped = true
	p.life.Unlock()
	for t := p.next(); t != nil; t = p.next() {
		p.abort(t)
	}
	p.log.Debug("pool closed", "executed", p.executed.Load(), "spilled", p.spilled.Load())
	return err
}

// Stats reports executed tasks, tasks that spilled to the overflow FIFO and
// recovered panics.
func (p *Pool) Stats() (executed, spilled, panics uint64) {
	return p.executed.Load(), p.spilled.Load(), p.panics.Load()
}
