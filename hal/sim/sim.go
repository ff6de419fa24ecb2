// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package sim implements a hosted register file for the hal.Bus interface,
// recording every write in a replay log.
//
// Hardware side effects, such as a status register acknowledging a request,
// are modeled with write hooks.
package sim

import (
	"fmt"
	"strings"
	"sync"

	"github.com/usbarmory/go-spot/hal"
)

// Write represents a single logged register write.
type Write struct {
	Addr uint32
	Old  uint32
	Val  uint32
}

// String returns the write in replay log format.
func (w Write) String() string {
	return fmt.Sprintf("%#08x: %#08x -> %#08x", w.Addr, w.Old, w.Val)
}

// Hook represents a write side effect, it is invoked after the written value
// is stored.
type Hook func(b *Bus, val uint32)

// Bus represents a simulated register bus.
type Bus struct {
	mu sync.Mutex

	regs  map[uint32]uint32
	hooks map[uint32]Hook
	log   []Write

	// elapsed microseconds spent in Delay()
	elapsed uint64
}

// New returns an empty simulated register bus, all registers read as zero.
func New() *Bus {
	return &Bus{
		regs:  make(map[uint32]uint32),
		hooks: make(map[uint32]Hook),
	}
}

// Read implements hal.Bus.
func (b *Bus) Read(addr uint32) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.regs[addr]
}

// Write implements hal.Bus, the write is logged and its hook invoked.
func (b *Bus) Write(addr uint32, val uint32) {
	b.mu.Lock()
	b.log = append(b.log, Write{Addr: addr, Old: b.regs[addr], Val: val})
	b.regs[addr] = val
	hook := b.hooks[addr]
	b.mu.Unlock()

	if hook != nil {
		hook(b, val)
	}
}

// Delay implements hal.Bus, no time is actually spent.
func (b *Bus) Delay(us uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.elapsed += uint64(us)
}

// Elapsed returns the total microseconds requested through Delay().
func (b *Bus) Elapsed() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.elapsed
}

// Poke sets a register value without logging it, it models changes
// performed by hardware.
func (b *Bus) Poke(addr uint32, val uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.regs[addr] = val
}

// PokeField sets a field value without logging it.
func (b *Bus) PokeField(f hal.Field, val uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.regs[f.Addr] = f.Value(b.regs[f.Addr], val)
}

// OnWrite installs a write hook for the argument address, a nil hook removes
// it.
func (b *Bus) OnWrite(addr uint32, hook Hook) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if hook == nil {
		delete(b.hooks, addr)
		return
	}

	b.hooks[addr] = hook
}

// Mirror installs a hook which copies field src into field dst whenever the
// src register is written, modeling a status field tracking its request.
func (b *Bus) Mirror(src hal.Field, dst hal.Field) {
	b.OnWrite(src.Addr, func(b *Bus, val uint32) {
		b.PokeField(dst, src.Extract(val))
	})
}

// Log returns a copy of the replay log.
func (b *Bus) Log() []Write {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]Write(nil), b.log...)
}

// Writes returns the number of logged writes.
func (b *Bus) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.log)
}

// ClearLog empties the replay log.
func (b *Bus) ClearLog() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.log = nil
}

// Dump returns the replay log, one write per line.
func (b *Bus) Dump() string {
	var res []string

	for _, w := range b.Log() {
		res = append(res, w.String())
	}

	return strings.Join(res, "\n")
}
