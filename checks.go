// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !heapq_nochecks

package heapq

// ChecksEnabled is true when the safety guard's concurrent-access checks
// are compiled in. Build with -tags heapq_nochecks to remove them.
const ChecksEnabled = true
