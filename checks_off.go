// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build heapq_nochecks

package heapq

// ChecksEnabled is false when built with the heapq_nochecks tag.
// Lifecycle checks (use after dispose) remain active.
const ChecksEnabled = false
