// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package hal

import (
	"github.com/usbarmory/tamago/bits"
)

// Field represents a named bit field within a 32-bit register.
type Field struct {
	Name  string
	Addr  uint32
	Pos   int
	Width int
}

func (f Field) mask() int {
	return 1<<f.Width - 1
}

// Max returns the largest value the field can hold.
func (f Field) Max() uint32 {
	return uint32(f.mask())
}

// Get returns the field value.
func (f Field) Get(b Bus) uint32 {
	r := b.Read(f.Addr)
	return bits.Get(&r, f.Pos, f.mask())
}

// IsSet returns whether a single bit field is set.
func (f Field) IsSet(b Bus) bool {
	r := b.Read(f.Addr)
	return bits.IsSet(&r, f.Pos)
}

// Set performs a read-modify-write of the field, values exceeding the field
// width are truncated.
func (f Field) Set(b Bus, val uint32) {
	r := b.Read(f.Addr)
	bits.SetN(&r, f.Pos, f.mask(), val&f.Max())
	b.Write(f.Addr, r)
}

// SetTo sets or clears a single bit field.
func (f Field) SetTo(b Bus, val bool) {
	r := b.Read(f.Addr)
	bits.SetTo(&r, f.Pos, val)
	b.Write(f.Addr, r)
}

// Value returns the argument register word with the field replaced, without
// any bus access.
func (f Field) Value(reg uint32, val uint32) uint32 {
	bits.SetN(&reg, f.Pos, f.mask(), val&f.Max())
	return reg
}

// Extract returns the field value from the argument register word.
func (f Field) Extract(reg uint32) uint32 {
	return bits.Get(&reg, f.Pos, f.mask())
}
