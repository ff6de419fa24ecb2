// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package spot

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/usbarmory/go-spot/hal"
)

// Calibration block location
const (
	CalibrationBase = 0x42004000
	CalibrationSize = 168
)

// CalibrationMagic identifies a valid calibration block ("SPOT").
const CalibrationMagic = 0x544f5053

// Trim represents a trim adjusted by the state rows.
type Trim int

// Trims, in the order they are applied within a trim delta.
const (
	TrimTVRGC Trim = iota
	TrimTVRGF
	TrimCoreLDO
	TrimMemLDO
	TrimVDDC
	TrimVDDCLV
	TrimVDDF

	NumTrims
)

var trimFields = [NumTrims]*hal.Field{
	TrimTVRGC:   &TVRGCVrefTrim,
	TrimTVRGF:   &TVRGFVrefTrim,
	TrimCoreLDO: &CoreLDOActTrim,
	TrimMemLDO:  &MemLDOActTrim,
	TrimVDDC:    &VddcActTrim,
	TrimVDDCLV:  &VddcLVActTrim,
	TrimVDDF:    &VddfActTrim,
}

// Field returns the register field adjusted by the trim.
func (t Trim) Field() hal.Field {
	return *trimFields[t]
}

func (t Trim) String() string {
	return trimFields[t].Name
}

// TrimRow represents the signed trim offsets of a state row, indexed by Trim.
type TrimRow [NumTrims]int8

// TonConfig represents a turn-on timing configuration.
type TonConfig struct {
	Vddc uint8
	Vddf uint8
}

// TrimSnapshot represents the factory calibration block, it is read once at
// initialization and treated as read-only afterwards.
type TrimSnapshot struct {
	Magic       uint32
	TrimVersion uint32

	// Rows holds per-state trim offsets.
	Rows [NumRows]TrimRow

	// GPU TON tables, indexed by GPUState.
	GPUVddcTon [3]uint8
	GPUVddfTon [3]uint8

	// StmTon applies to CPU high performance without GPU.
	StmTon TonConfig
	// DefaultTon applies to CPU low power without GPU.
	DefaultTon TonConfig

	MemLDOConfig uint8

	// VddcLVAdj holds VDDC-LV trim adjustments, indexed by TempRange.
	VddcLVAdj [NumTempRanges]int8

	// BoostTrim holds boost codes, indexed by boost rail and level.
	BoostTrim [numBoosts]uint8

	_ [2]uint8
}

// MarshalBinary implements the [encoding.BinaryMarshaler] interface.
func (s *TrimSnapshot) MarshalBinary() (data []byte, err error) {
	buf := new(bytes.Buffer)
	err = binary.Write(buf, binary.LittleEndian, s)
	return buf.Bytes(), err
}

// UnmarshalBinary implements the [encoding.BinaryUnmarshaler] interface.
func (s *TrimSnapshot) UnmarshalBinary(data []byte) (err error) {
	_, err = binary.Decode(data, binary.LittleEndian, s)
	return
}

// Source represents a shadow-copy mechanism for immutable chip storage.
type Source interface {
	// Shadow returns a copy of size bytes at the argument address, an
	// error is returned if the block is unmapped.
	Shadow(addr uint32, size int) ([]byte, error)
}

// Image implements Source over a calibration block image located at
// CalibrationBase.
type Image []byte

// Shadow implements Source.
func (img Image) Shadow(addr uint32, size int) ([]byte, error) {
	if addr < CalibrationBase || int(addr-CalibrationBase)+size > len(img) {
		return nil, fmt.Errorf("block %#08x-%#08x is unmapped", addr, addr+uint32(size))
	}

	off := int(addr - CalibrationBase)

	return append([]byte(nil), img[off:off+size]...), nil
}

// LoadSnapshot performs the one-shot transfer of the calibration block into
// RAM. The calibration storage domain is powered on for the read and
// restored to its previous state afterwards.
func LoadSnapshot(b hal.Bus, src Source, timeout uint32) (s *TrimSnapshot, err error) {
	otp := field("OTP", DevDomain.Enable, DEV_OTP, 1)
	otpSt := field("OTPST", DevDomain.Status, DEV_OTP, 1)

	if !otp.IsSet(b) {
		otp.SetTo(b, true)

		defer func() {
			otp.SetTo(b, false)
		}()

		if err = hal.WaitField(b, otpSt, 1, timeout); err != nil {
			return nil, fmt.Errorf("%w, calibration storage power up", err)
		}
	}

	buf, err := src.Shadow(CalibrationBase, CalibrationSize)

	if err != nil {
		return nil, fmt.Errorf("%w, %v", ErrReadFailure, err)
	}

	s = &TrimSnapshot{}

	if err = s.UnmarshalBinary(buf); err != nil {
		return nil, fmt.Errorf("%w, %v", ErrReadFailure, err)
	}

	if s.Magic != CalibrationMagic {
		return nil, fmt.Errorf("%w, invalid magic %#08x", ErrReadFailure, s.Magic)
	}

	return
}
