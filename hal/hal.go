// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package hal defines the register access primitives consumed by the power
// state manager.
//
// The package does not touch hardware by itself, backends are provided by
// hal/mmio (`GOOS=tamago`), hal/devmem (Linux /dev/mem) and hal/sim (hosted
// register file with replay log).
package hal

// Bus represents a memory-mapped 32-bit register bus with a settle-time
// contract expressed in microseconds.
type Bus interface {
	// Read returns the register value at the argument address.
	Read(addr uint32) uint32
	// Write sets the register value at the argument address.
	Write(addr uint32, val uint32)
	// Delay busy waits for the argument number of microseconds.
	Delay(us uint32)
}

// Critical represents a hardware critical section, on target it masks
// interrupts while on a hosted environment it serializes goroutines.
//
// Critical sections are not reentrant.
type Critical interface {
	Enter()
	Exit()
}

// Timer represents a one-shot hardware timer, fn is invoked in interrupt
// context on expiry.
type Timer interface {
	// Start arms the timer, an armed timer is re-armed.
	Start(us uint32, fn func())
	// Stop disarms the timer, it returns false if the timer already
	// expired or was never armed.
	Stop() bool
}
