// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package alloc

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

func mapRegion(length int) (unsafe.Pointer, error) {
	b, err := unix.Mmap(-1, 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(unsafe.SliceData(b)), nil
}

func unmapRegion(p unsafe.Pointer, length int) error {
	return unix.Munmap(unsafe.Slice((*byte)(p), length))
}
