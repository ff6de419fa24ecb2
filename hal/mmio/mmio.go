// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago

// Package mmio implements the hal.Bus interface with direct volatile access
// to memory mapped registers.
//
// This package is only meant to be used with `GOOS=tamago` as
// supported by the TamaGo framework for bare metal Go, see
// https://github.com/usbarmory/tamago.
package mmio

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/usbarmory/tamago/dma"

	"github.com/usbarmory/go-spot/hal"
)

// Bus represents the system register bus.
type Bus struct{}

// Read implements hal.Bus.
func (Bus) Read(addr uint32) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(uintptr(addr))))
}

// Write implements hal.Bus.
func (Bus) Write(addr uint32, val uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(uintptr(addr))), val)
}

// Delay implements hal.Bus.
func (Bus) Delay(us uint32) {
	hal.BusyWait(us)
}

// Calibration implements spot.Source by shadowing immutable chip storage
// through a DMA region.
type Calibration struct{}

// Shadow implements spot.Source.
func (Calibration) Shadow(addr uint32, size int) (buf []byte, err error) {
	r, err := dma.NewRegion(uint(addr), size, false)

	if err != nil {
		return nil, fmt.Errorf("block %#08x-%#08x is unmapped, %v", addr, int(addr)+size, err)
	}

	ptr, shadow := r.Reserve(size, 0)
	defer r.Release(ptr)

	return append(buf, shadow...), nil
}
