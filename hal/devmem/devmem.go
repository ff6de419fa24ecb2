// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build linux

// Package devmem implements the hal.Bus interface over a memory mapped
// register window, typically a /dev/mem physical range.
package devmem

import (
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/usbarmory/go-spot/hal"
)

// Order is the register byte order.
var Order = binary.LittleEndian

// Bus represents a mapped register window.
type Bus struct {
	// Base is the physical address of the window
	Base uint32

	f   *os.File
	mem []byte
}

// Open maps size bytes at physical address base from the argument file, base
// must be page aligned.
func Open(path string, base uint32, size int) (b *Bus, err error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0660)

	if err != nil {
		return
	}

	mem, err := unix.Mmap(int(f.Fd()), int64(base), size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)

	if err != nil {
		f.Close()
		return nil, fmt.Errorf("could not map %#08x-%#08x, %v", base, int(base)+size, err)
	}

	return &Bus{
		Base: base,
		f:    f,
		mem:  mem,
	}, nil
}

// Close unmaps the register window.
func (b *Bus) Close() (err error) {
	if b.mem == nil {
		return
	}

	unix.Munmap(b.mem)
	b.mem = nil

	return b.f.Close()
}

func (b *Bus) offset(addr uint32, size int) int {
	if addr < b.Base || int(addr-b.Base)+size > len(b.mem) {
		panic(fmt.Sprintf("devmem: address %#08x outside mapped window", addr))
	}

	return int(addr - b.Base)
}

// Read implements hal.Bus.
func (b *Bus) Read(addr uint32) uint32 {
	off := b.offset(addr, 4)
	return Order.Uint32(b.mem[off : off+4])
}

// Write implements hal.Bus.
func (b *Bus) Write(addr uint32, val uint32) {
	off := b.offset(addr, 4)
	Order.PutUint32(b.mem[off:off+4], val)
}

// Delay implements hal.Bus.
func (b *Bus) Delay(us uint32) {
	hal.BusyWait(us)
}

// Shadow implements spot.Source for calibration blocks within the window.
func (b *Bus) Shadow(addr uint32, size int) ([]byte, error) {
	if addr < b.Base || int(addr-b.Base)+size > len(b.mem) {
		return nil, fmt.Errorf("block %#08x-%#08x is unmapped", addr, int(addr)+size)
	}

	off := int(addr - b.Base)

	return append([]byte(nil), b.mem[off:off+size]...), nil
}
