// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package alloc provides the raw memory allocators heapq containers draw
// their element storage from.
//
// An [Allocator] hands out untyped, aligned regions and takes them back.
// Regions are never scanned by the garbage collector, so only pointer-free
// data may be stored in them.
//
// Provided allocators:
//
//	NewHeap()          - Go-heap backed, tracks live regions (tests, portability)
//	NewMmap()          - anonymous OS mappings outside the Go heap
//	NewArena(size)     - bump arena with caller-managed release
//	NewLimit(a, bytes) - budget wrapper that fails once a byte limit is hit
//
// Every allocator carries a [Label]. Built-in labels are released by the
// container that owns the memory; labels at or above [FirstUserLabel] belong
// to allocators whose memory the caller releases explicitly.
package alloc
