// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package job schedules units of work after the work they depend on.
//
// A [Handle] represents future completion of scheduled work. The zero
// Handle is already complete. Handles compose with [Combine], and a
// [Scheduler] runs a function once a dependency Handle completes:
//
//	pool := job.New(4).Start()
//	defer pool.Close(context.Background())
//
//	fill := pool.Schedule(func() error { return load(q) }, job.Handle{})
//	sort := pool.Schedule(func() error { return rank(q) }, fill)
//	sort.Complete()
//
// Completion of a Handle happens-before any work scheduled after it starts,
// which is the only memory-visibility guarantee callers may rely on when
// passing data between jobs.
package job
