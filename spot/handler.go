// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package spot

import (
	"fmt"

	"github.com/usbarmory/go-spot/hal"
)

// Revision represents a silicon trim revision.
type Revision uint32

// Trim revisions, as found in TrimSnapshot.TrimVersion.
const (
	PCM0_7 Revision = 0x07
	PCM1_0 Revision = 0x10
	PCM1_1 Revision = 0x11
	PCM2_0 Revision = 0x20
	PCM2_1 Revision = 0x21
	PCM2_2 Revision = 0x22
)

func (r Revision) String() string {
	return fmt.Sprintf("PCM%d.%d", r>>4, r&0xf)
}

// Phase represents the position of a configuration step relative to the
// performance change of a transition.
type Phase int

// Transition phases
const (
	BeforePerf Phase = iota
	AfterPerf
)

// Handler represents the revision specific capabilities of the power state
// manager, it is resolved once at initialization.
type Handler interface {
	// Name returns the handler revision family.
	Name() string

	// Check returns ErrUnsupported if the target state is not supported by
	// the revision.
	Check(to PowerStateVector) error

	// ComputeTrimDelta returns the trim changes required to move between
	// the argument rows and temperature ranges.
	ComputeTrimDelta(s *TrimSnapshot, from Row, to Row, fromTemp TempRange, toTemp TempRange) Delta

	// ApplyTonConfig programs turn-on timing and rail selection for the
	// portion of a transition belonging to the argument phase.
	ApplyTonConfig(b hal.Bus, s *TrimSnapshot, from PowerStateVector, to PowerStateVector, phase Phase)

	// SimobuckInit performs the SIMOBUCK/LDO override initialization
	// sequence.
	SimobuckInit(b hal.Bus, s *TrimSnapshot, timeout uint32) error
}

// HandlerFor returns the handler matching the argument trim version, unknown
// or newer versions resolve to the latest known handler.
func HandlerFor(v uint32) Handler {
	switch Revision(v) {
	case PCM0_7:
		return &pcm07{}
	case PCM1_0, PCM1_1, PCM2_0:
		return &pcm10{}
	case PCM2_1:
		return &pcm21{}
	default:
		return &pcm22{}
	}
}

// TrimSet represents the effective signed offset of each trim.
type TrimSet [NumTrims]int

// Adjust represents a signed change of a single trim.
type Adjust struct {
	Trim  Trim
	Delta int
}

func (a Adjust) String() string {
	return fmt.Sprintf("%s%+d", a.Trim, a.Delta)
}

// Delta represents the trim changes of a transition, in application order.
type Delta []Adjust

// Increases returns the adjustments raising drive strength.
func (d Delta) Increases() (inc Delta) {
	for _, a := range d {
		if a.Delta > 0 {
			inc = append(inc, a)
		}
	}

	return
}

// Decreases returns the adjustments lowering drive strength.
func (d Delta) Decreases() (dec Delta) {
	for _, a := range d {
		if a.Delta < 0 {
			dec = append(dec, a)
		}
	}

	return
}

func diff(from TrimSet, to TrimSet) (d Delta) {
	for t := Trim(0); t < NumTrims; t++ {
		if n := to[t] - from[t]; n != 0 {
			d = append(d, Adjust{Trim: t, Delta: n})
		}
	}

	return
}

// rowTrims copies the row offsets of the trims selected by mask.
func rowTrims(s *TrimSnapshot, r Row, mask uint) (t TrimSet) {
	for i := Trim(0); i < NumTrims; i++ {
		if mask&(1<<i) != 0 {
			t[i] = int(s.Rows[r][i])
		}
	}

	return
}

func trimMask(trims ...Trim) (m uint) {
	for _, t := range trims {
		m |= 1 << t
	}

	return
}

// tonFor returns the turn-on timing of an active state vector.
func tonFor(s *TrimSnapshot, v PowerStateVector) TonConfig {
	switch {
	case v.GPU != GPUOff:
		return TonConfig{
			Vddc: s.GPUVddcTon[v.GPU],
			Vddf: s.GPUVddfTon[v.GPU],
		}
	case v.CPU == CPUHighPerformance:
		return s.StmTon
	default:
		return s.DefaultTon
	}
}

func writeTon(b hal.Bus, ton TonConfig) {
	if VddcTon.Get(b) != uint32(ton.Vddc) {
		VddcTon.Set(b, uint32(ton.Vddc))
	}

	if VddfTon.Get(b) != uint32(ton.Vddf) {
		VddfTon.Set(b, uint32(ton.Vddf))
	}
}

// raising reports whether a transition increases performance demand.
func raising(from PowerStateVector, to PowerStateVector) bool {
	if to.GPU != from.GPU {
		return to.GPU > from.GPU
	}

	return to.CPU == CPUHighPerformance && from.CPU != CPUHighPerformance
}

// applyTon implements turn-on timing with glitch-free rail switching: on GPU
// enable TON is set then the rail selector switched, on GPU disable the
// selector is switched then TON cleared.
func applyTon(b hal.Bus, s *TrimSnapshot, from PowerStateVector, to PowerStateVector, phase Phase, gpuTon bool) {
	up := raising(from, to)

	if (phase == BeforePerf) != up {
		return
	}

	enable := from.GPU == GPUOff && to.GPU != GPUOff
	disable := from.GPU != GPUOff && to.GPU == GPUOff

	ton := tonFor(s, to)

	if !gpuTon && to.GPU != GPUOff {
		ton = tonFor(s, PowerStateVector{CPU: to.CPU})
	}

	switch {
	case enable:
		writeTon(b, ton)
		GPURailSel.SetTo(b, true)
	case disable:
		GPURailSel.SetTo(b, false)
		writeTon(b, ton)
	default:
		writeTon(b, ton)
	}
}

// simobuckInit enables the SIMOBUCK and waits for it to become active.
func simobuckInit(b hal.Bus, timeout uint32) (err error) {
	if SimobuckSt.Get(b) == SimobuckActive {
		return
	}

	SimobuckEn.SetTo(b, true)

	if err = hal.WaitField(b, SimobuckSt, SimobuckActive, timeout); err != nil {
		return fmt.Errorf("%w, SIMOBUCK activation", err)
	}

	return
}
