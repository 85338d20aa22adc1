// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package job

import "fmt"

// Scheduler runs fn once deps has completed and returns a Handle for the
// completion of fn. Work scheduled after a failed dependency still runs;
// the failure is observable through the dependency's Handle.
type Scheduler interface {
	Schedule(fn func() error, deps Handle) Handle
}

// Inline runs scheduled work synchronously: immediately when deps is
// complete, otherwise on the goroutine that completes deps.
type Inline struct{}

// Schedule implements Scheduler.
func (Inline) Schedule(fn func() error, deps Handle) Handle {
	s := newState(deps)
	after(deps, func() {
		s.finish(call(fn))
	})
	return Handle{s}
}

// call runs fn, converting a panic into an ErrPanic error. Error panic
// values stay matchable with errors.Is.
func call(fn func() error) (err error) {
	defer func() {
		switch r := recover().(type) {
		case nil:
		case error:
			err = fmt.Errorf("%w: %w", ErrPanic, r)
		default:
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn()
}
