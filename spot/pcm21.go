// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package spot

import (
	"github.com/usbarmory/go-spot/hal"
)

// PCM2.1 silicon adds memory LDO trims and configuration and the VDDC-LV
// output trim.
type pcm21 struct {
	pcm10
}

var pcm21Trims = pcm10Trims | trimMask(TrimMemLDO, TrimVDDCLV)

func (h *pcm21) Name() string {
	return PCM2_1.String()
}

func (h *pcm21) ComputeTrimDelta(s *TrimSnapshot, from Row, to Row, _ TempRange, _ TempRange) Delta {
	return diff(rowTrims(s, from, pcm21Trims), rowTrims(s, to, pcm21Trims))
}

// SimobuckInit programs the memory LDO configuration before the SIMOBUCK
// takes over the core rail.
func (h *pcm21) SimobuckInit(b hal.Bus, s *TrimSnapshot, timeout uint32) error {
	if MemLDOConfig.Get(b) != uint32(s.MemLDOConfig) {
		MemLDOConfig.Set(b, uint32(s.MemLDOConfig))
	}

	return h.pcm10.SimobuckInit(b, s, timeout)
}
