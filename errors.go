// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package heapq

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrEmptyQueue reports a strict read (Dequeue, Peek) on a queue with no
// elements.
//
// ErrEmptyQueue wraps [iox.ErrWouldBlock], so consumers can poll a heap
// with the same retry loops used for lock-free queues:
//
//	backoff := iox.Backoff{}
//	for {
//	    v, err := q.Dequeue()
//	    if heapq.IsWouldBlock(err) {
//	        backoff.Wait()
//	        continue
//	    }
//	    backoff.Reset()
//	    process(v)
//	}
var ErrEmptyQueue = fmt.Errorf("heapq: queue is empty: %w", iox.ErrWouldBlock)

// ErrIndexOutOfRange reports indexed access outside [0, Len()).
var ErrIndexOutOfRange = errors.New("heapq: index out of range")

// ErrLeakedRegion reports that storage grew but the allocator refused to
// free the previous region. The operation that triggered growth still took
// effect; only the old region is lost.
var ErrLeakedRegion = errors.New("heapq: previous storage region not freed")

// ErrUnsafeConcurrentAccess is raised (as a panic value) when the safety
// guard detects overlapping reads and writes, access from the owner while a
// scheduled job holds the queue, a stale view, or scheduling that does not
// depend on the jobs already using the queue.
var ErrUnsafeConcurrentAccess = errors.New("heapq: unsafe concurrent access")

// ErrInvalidLifecycleState reports disposal misuse: disposing while
// scheduled jobs still use the queue, disposing memory that must be
// released by the caller, or an allocator mismatch on Release.
var ErrInvalidLifecycleState = errors.New("heapq: invalid lifecycle state")

// ErrDisposed is raised when a disposed or never created queue is used.
// It matches ErrInvalidLifecycleState under errors.Is.
var ErrDisposed = fmt.Errorf("%w: queue disposed or not created", ErrInvalidLifecycleState)

// IsWouldBlock reports whether err indicates the operation found nothing to
// do right now, such as ErrEmptyQueue.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic], looking through the wrapping of
// ErrEmptyQueue.
func IsSemantic(err error) bool {
	return iox.IsSemantic(err) || iox.IsWouldBlock(err)
}

// IsNonFailure reports whether err represents a non-failure condition:
// nil or a would-block signal such as ErrEmptyQueue.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err) || iox.IsWouldBlock(err)
}

func raise(err error, format string, args ...any) {
	panic(fmt.Errorf("%w: "+format, append([]any{err}, args...)...))
}

func indexError(index, length int) error {
	return fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, index, length)
}
