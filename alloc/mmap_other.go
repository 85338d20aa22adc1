// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly && !windows

package alloc

import "unsafe"

func mapRegion(int) (unsafe.Pointer, error) {
	return nil, ErrUnsupported
}

func unmapRegion(unsafe.Pointer, int) error {
	return ErrUnsupported
}
