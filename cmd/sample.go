// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"github.com/usbarmory/go-spot/spot"
)

// SampleSnapshot returns representative calibration data for the argument
// trim revision, for use when no calibration image is available.
func SampleSnapshot(rev spot.Revision) *spot.TrimSnapshot {
	s := &spot.TrimSnapshot{
		Magic:        spot.CalibrationMagic,
		TrimVersion:  uint32(rev),
		GPUVddcTon:   [3]uint8{0, 6, 10},
		GPUVddfTon:   [3]uint8{0, 7, 12},
		StmTon:       spot.TonConfig{Vddc: 4, Vddf: 3},
		DefaultTon:   spot.TonConfig{Vddc: 2, Vddf: 2},
		MemLDOConfig: 0x31,
		VddcLVAdj:    [spot.NumTempRanges]int8{4, 2, 0, -1},
		BoostTrim:    [3]uint8{6, 3, 7},
	}

	for r := range 16 {
		hp, gpu, stmp, ext := r&1, (r>>1)&1, (r>>2)&1, (r>>3)&1

		s.Rows[r][spot.TrimTVRGC] = int8(hp * 2)
		s.Rows[r][spot.TrimTVRGF] = int8(gpu*2 + stmp)
		s.Rows[r][spot.TrimCoreLDO] = int8(hp*4 + ext)
		s.Rows[r][spot.TrimMemLDO] = int8(ext * 3)
		s.Rows[r][spot.TrimVDDC] = int8(hp*5 + gpu*3 + ext)
		s.Rows[r][spot.TrimVDDCLV] = int8(ext * 2)
		s.Rows[r][spot.TrimVDDF] = int8(gpu*6 + stmp*2)
	}

	for r := 16; r < spot.NumRows; r++ {
		hp, stmp := r&1, (r>>1)&1

		s.Rows[r][spot.TrimTVRGF] = int8(4 + stmp)
		s.Rows[r][spot.TrimVDDC] = int8(hp*5 + 7)
		s.Rows[r][spot.TrimVDDF] = int8(10 + stmp*2)
	}

	return s
}

// SampleImage returns the calibration block image of SampleSnapshot.
func SampleImage(rev spot.Revision) (spot.Image, error) {
	buf, err := SampleSnapshot(rev).MarshalBinary()
	return spot.Image(buf), err
}
