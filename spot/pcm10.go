// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package spot

import (
	"github.com/usbarmory/go-spot/hal"
)

// PCM1.0, PCM1.1 and PCM2.0 silicon
type pcm10 struct{}

var pcm10Trims = trimMask(TrimTVRGC, TrimTVRGF, TrimCoreLDO, TrimVDDC, TrimVDDF)

func (h *pcm10) Name() string {
	return "PCM1.0/1.1/2.0"
}

func (h *pcm10) Check(_ PowerStateVector) error {
	return nil
}

func (h *pcm10) ComputeTrimDelta(s *TrimSnapshot, from Row, to Row, _ TempRange, _ TempRange) Delta {
	return diff(rowTrims(s, from, pcm10Trims), rowTrims(s, to, pcm10Trims))
}

func (h *pcm10) ApplyTonConfig(b hal.Bus, s *TrimSnapshot, from PowerStateVector, to PowerStateVector, phase Phase) {
	applyTon(b, s, from, to, phase, true)
}

// SimobuckInit releases the LDO override once the SIMOBUCK is active.
func (h *pcm10) SimobuckInit(b hal.Bus, _ *TrimSnapshot, timeout uint32) (err error) {
	LDOOverride.SetTo(b, true)

	if err = simobuckInit(b, timeout); err != nil {
		return
	}

	LDOOverride.SetTo(b, false)

	return
}
