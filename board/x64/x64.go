// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && amd64

// Package x64 provides hardware initialization, automatically on import, for
// a single x86_64 core with a legacy serial port, used to host the power
// management console.
//
// This package is only meant to be used with `GOOS=tamago` as
// supported by the TamaGo framework for bare metal Go, see
// https://github.com/usbarmory/tamago.
package x64

import (
	"runtime/goos"
	_ "unsafe"

	"github.com/usbarmory/tamago/amd64"
	"github.com/usbarmory/tamago/soc/intel/rtc"
	"github.com/usbarmory/tamago/soc/intel/uart"
)

// Peripheral registers
const (
	// Communication port
	COM1 = 0x3f8
)

// Peripheral instances
var (
	// AMD64 core
	AMD64 = &amd64.CPU{
		// required before Init()
		TimerMultiplier: 1,
	}

	// Real-Time Clock
	RTC = &rtc.RTC{}

	// Serial port
	UART0 = &uart.UART{
		Index: 1,
		Base:  COM1,
		DTR:   true,
		RTS:   true,
	}
)

//go:linkname ramStart runtime.ramStart
var ramStart uint64 = 0x10000000

//go:linkname ramSize runtime.ramSize
var ramSize uint64 = 0x10000000

//go:linkname nanotime runtime/goos.Nanotime
func nanotime() int64 {
	return AMD64.GetTime()
}

//go:linkname printk runtime.printk
func printk(c byte) {
	UART0.Tx(c)

	if c == 0x0a { // LF
		UART0.Tx(0x0d) // CR
	}
}

// Init takes care of the lower level initialization triggered early in runtime
// setup.
//
//go:linkname Init runtime/goos.Hwinit1
func Init() {
	// initialize CPU
	AMD64.Init()

	// disable CPU idle time management
	goos.Idle = nil

	// initialize serial console
	UART0.Init()
}

func init() {
	if t, err := RTC.Now(); err == nil {
		AMD64.SetTime(t.UnixNano())
	}
}
