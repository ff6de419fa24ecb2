// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package spot

import (
	"github.com/usbarmory/go-spot/hal/sim"
)

// FactoryTrim is the register value of each trim field on a simulated bus,
// the row offsets are applied relative to it.
const FactoryTrim = 0x20

// Simulate installs on a simulated bus the hardware side of the registers
// used by the power state manager: performance requests are acknowledged,
// power domains follow their enables, the SIMOBUCK becomes active when
// enabled and trim fields hold FactoryTrim.
func Simulate(b *sim.Bus) {
	b.Mirror(MCUPerfReq, MCUPerfStatus)
	b.Mirror(GPUPerfReq, GPUPerfStatus)

	for _, d := range []Domain{DevDomain, AudioDomain, MemDomain, SSRAMDomain} {
		st := d.Status

		b.OnWrite(d.Enable, func(b *sim.Bus, val uint32) {
			b.Poke(st, val)
		})
	}

	b.OnWrite(PWRCTRL_VRCTRL, func(b *sim.Bus, val uint32) {
		if SimobuckEn.Extract(val) == 1 {
			b.PokeField(SimobuckSt, SimobuckActive)
		} else {
			b.PokeField(SimobuckSt, SimobuckOff)
		}
	})

	for t := Trim(0); t < NumTrims; t++ {
		b.PokeField(t.Field(), FactoryTrim)
	}
}
