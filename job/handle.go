// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package job

import (
	"context"
	"errors"
	"sync"

	"code.hybscloud.com/atomix"
)

// ErrPanic wraps a panic recovered from a scheduled function.
var ErrPanic = errors.New("job: panic in scheduled function")

// ErrClosed is reported by handles of work scheduled on a closed scheduler.
var ErrClosed = errors.New("job: scheduler closed")

var closedChan = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

// Handle represents the completion of scheduled work.
// Handles are small values; copies refer to the same completion.
type Handle struct {
	s *state
}

type state struct {
	done chan struct{}

	mu      sync.Mutex
	waiters []func()
	deps    []Handle // Cleared on completion
	err     error
}

func newState(deps ...Handle) *state {
	s := &state{done: make(chan struct{})}
	for _, d := range deps {
		if !d.IsCompleted() {
			s.deps = append(s.deps, d)
		}
	}
	return s
}

// onComplete runs f once s completes, immediately if it already has.
func (s *state) onComplete(f func()) {
	s.mu.Lock()
	select {
	case <-s.done:
		s.mu.Unlock()
		f()
		return
	default:
	}
	s.waiters = append(s.waiters, f)
	s.mu.Unlock()
}

func (s *state) finish(err error) {
	s.mu.Lock()
	s.err = err
	s.deps = nil
	waiters := s.waiters
	s.waiters = nil
	close(s.done)
	s.mu.Unlock()

	for _, f := range waiters {
		f()
	}
}

// IsCompleted reports whether the work has finished.
func (h Handle) IsCompleted() bool {
	if h.s == nil {
		return true
	}
	select {
	case <-h.s.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed on completion.
func (h Handle) Done() <-chan struct{} {
	if h.s == nil {
		return closedChan
	}
	return h.s.done
}

// Complete blocks until the work has finished and returns its error.
func (h Handle) Complete() error {
	<-h.Done()
	return h.Err()
}

// Wait blocks until the work has finished or ctx is done.
func (h Handle) Wait(ctx context.Context) error {
	select {
	case <-h.Done():
		return h.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the error of completed work, or nil while it is running.
func (h Handle) Err() error {
	if h.s == nil || !h.IsCompleted() {
		return nil
	}
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	return h.s.err
}

// DependsOn reports whether h cannot complete before o does: either o is
// already complete, or o is h itself or one of its transitive dependencies.
func (h Handle) DependsOn(o Handle) bool {
	if o.IsCompleted() {
		return true
	}
	if h.s == nil {
		return false
	}
	seen := map[*state]bool{}
	stack := []*state{h.s}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s == o.s {
			return true
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		s.mu.Lock()
		for _, d := range s.deps {
			stack = append(stack, d.s)
		}
		s.mu.Unlock()
	}
	return false
}

// Combine returns a Handle that completes once every handle in hs has.
// Its error joins the errors of hs.
func Combine(hs ...Handle) Handle {
	s := newState(hs...)
	switch len(s.deps) {
	case 0:
		var errs []error
		for _, h := range hs {
			errs = append(errs, h.Err())
		}
		if err := errors.Join(errs...); err != nil {
			s.finish(err)
			return Handle{s}
		}
		return Handle{}
	case 1:
		if len(hs) == 1 {
			return hs[0]
		}
	}

	var remaining atomix.Int64
	remaining.Store(int64(len(s.deps)))
	for _, d := range s.deps {
		d.s.onComplete(func() {
			if remaining.Add(-1) == 0 {
				var errs []error
				for _, h := range hs {
					errs = append(errs, h.Err())
				}
				s.finish(errors.Join(errs...))
			}
		})
	}
	return Handle{s}
}

// after runs f once deps completes.
func after(deps Handle, f func()) {
	if deps.s == nil {
		f()
		return
	}
	deps.s.onComplete(f)
}
