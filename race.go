// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package heapq

// RaceEnabled is true when the race detector is active.
// Tests that share a queue with pool workers skip under the detector,
// which does not see atomix operations as synchronization.
const RaceEnabled = true
