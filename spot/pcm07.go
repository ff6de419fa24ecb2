// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package spot

import (
	"fmt"

	"github.com/usbarmory/go-spot/hal"
)

// PCM0.7 silicon only trims the core LDO and the SIMOBUCK active outputs, it
// has no GPU turn-on timing tables and runs the GPU in low power only.
type pcm07 struct{}

var pcm07Trims = trimMask(TrimCoreLDO, TrimVDDC, TrimVDDF)

func (h *pcm07) Name() string {
	return PCM0_7.String()
}

func (h *pcm07) Check(to PowerStateVector) error {
	if to.GPU == GPUHighPerformance {
		return fmt.Errorf("%w, GPU HP on %s", ErrUnsupported, h.Name())
	}

	return nil
}

func (h *pcm07) ComputeTrimDelta(s *TrimSnapshot, from Row, to Row, _ TempRange, _ TempRange) Delta {
	return diff(rowTrims(s, from, pcm07Trims), rowTrims(s, to, pcm07Trims))
}

func (h *pcm07) ApplyTonConfig(b hal.Bus, s *TrimSnapshot, from PowerStateVector, to PowerStateVector, phase Phase) {
	applyTon(b, s, from, to, phase, false)
}

// SimobuckInit keeps the LDO override asserted, PCM0.7 cannot release the core
// LDO once the SIMOBUCK is active.
func (h *pcm07) SimobuckInit(b hal.Bus, _ *TrimSnapshot, timeout uint32) error {
	LDOOverride.SetTo(b, true)
	return simobuckInit(b, timeout)
}
