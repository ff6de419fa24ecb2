// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package spot

import (
	"errors"
	"fmt"
	"log"

	"github.com/usbarmory/go-spot/hal"
)

// Manager represents the power state manager context, it must be initialized
// once with Init before any stimulus.
type Manager struct {
	// Bus is the register bus
	Bus hal.Bus
	// Critical guards state shared with the auto-revert timer
	Critical hal.Critical
	// Timer is the auto-revert timer, it is optional
	Timer hal.Timer
	// Config holds timing budgets
	Config Config

	cfg     Config
	snap    *TrimSnapshot
	handler Handler

	// recorded state, CPU sleep included
	state PowerStateVector
	// state applied to hardware, never sleep
	hw PowerStateVector
	// row and temperature range the trims are programmed for
	row  Row
	temp TempRange
	buck bool

	profile Profile
	boost   BoostCounters
	tempco  tempco
	timed   autoRevert
}

// Status represents a copy of the manager state.
type Status struct {
	Revision Revision
	Handler  string
	State    PowerStateVector
	Row      Row
	Profile  Profile
	Boost    BoostCounters
	Buck     bool
	Tempco   string
}

// Init loads the calibration snapshot from the argument source, detects the
// silicon revision and programs the power-on reset state. Initialization can
// be performed only once per power cycle.
func (m *Manager) Init(src Source) (err error) {
	if m.Bus == nil || m.Critical == nil {
		return fmt.Errorf("%w, missing bus or critical section", ErrInvalidArgument)
	}

	if m.snap != nil || InitDone.IsSet(m.Bus) {
		return fmt.Errorf("%w, already initialized", ErrUnsupported)
	}

	m.cfg = normalizeConfig(m.Config)

	snap, err := LoadSnapshot(m.Bus, src, m.cfg.OTPTimeout)

	if err != nil {
		return
	}

	m.Critical.Enter()
	defer m.Critical.Exit()

	m.snap = snap
	m.handler = HandlerFor(snap.TrimVersion)
	m.state = PowerOnReset
	m.hw = PowerOnReset
	m.row = RowFor(PowerOnReset, ProfileDefault)
	m.temp = PowerOnReset.Temp
	m.profile = ProfileDefault
	m.boost = BoostCounters{}
	m.tempco = tempco{}
	m.buck = SimobuckSt.Get(m.Bus) == SimobuckActive

	writeTon(m.Bus, tonFor(snap, PowerOnReset))

	for i, f := range boostFields {
		if f.trim.Get(m.Bus) != uint32(snap.BoostTrim[i]) {
			f.trim.Set(m.Bus, uint32(snap.BoostTrim[i]))
		}
	}

	InitDone.SetTo(m.Bus, true)

	log.Printf("spot: trim revision %s, handler %s, %s",
		Revision(snap.TrimVersion), m.handler.Name(), m.state)

	return
}

var errNotInitialized = fmt.Errorf("%w, not initialized", ErrUnsupported)

// Snapshot returns the calibration snapshot.
func (m *Manager) Snapshot() *TrimSnapshot {
	return m.snap
}

// Status returns a copy of the manager state, the zero value is returned
// before Init.
func (m *Manager) Status() (s Status) {
	if m.snap == nil {
		return
	}

	m.Critical.Enter()
	defer m.Critical.Exit()

	return Status{
		Revision: Revision(m.snap.TrimVersion),
		Handler:  m.handler.Name(),
		State:    m.state,
		Row:      m.row,
		Profile:  m.profile,
		Boost:    m.boost,
		Buck:     m.buck,
		Tempco:   m.tempco.String(),
	}
}

// State returns the current power state vector.
func (m *Manager) State() PowerStateVector {
	if m.snap == nil {
		return PowerStateVector{}
	}

	m.Critical.Enter()
	defer m.Critical.Exit()

	return m.state
}

// SetProfile selects the row selection policy, it takes effect on the next
// non-sleep transition and never re-applies the current row.
func (m *Manager) SetProfile(p Profile) error {
	if p > ProfileCollapseSTMSTMP {
		return fmt.Errorf("%w, invalid profile %d", ErrInvalidArgument, p)
	}

	if m.snap == nil {
		return errNotInitialized
	}

	m.Critical.Enter()
	defer m.Critical.Exit()

	m.profile = p

	return nil
}

// Stimulus routes a power state change request to the revision handler.
//
// Requests matching the current state return immediately without any
// register access. A HardwareTimeout leaves hardware in an unpredictable
// state and should be treated as fatal.
func (m *Manager) Stimulus(req StimulusRequest) (err error) {
	if m.snap == nil {
		return errNotInitialized
	}

	m.Critical.Enter()
	defer m.Critical.Exit()

	// the profile is latched once per stimulus
	return m.stimulus(req, m.profile)
}

func (m *Manager) stimulus(req StimulusRequest, profile Profile) (err error) {
	next, err := m.state.next(req)

	if err != nil {
		return
	}

	if req.Kind == KindTemp {
		p := req.Payload.(*TempParam)
		p.Lower, p.Upper = next.Temp.Bounds()

		if m.tempco.queue(*p, profile) {
			return
		}
	}

	if next == m.state {
		return
	}

	if err = m.transition(next, profile); errors.Is(err, ErrHardwareTimeout) {
		log.Printf("spot: %s stimulus timed out, hardware state is unpredictable (%v)", req.Kind, err)
	}

	return
}

func (m *Manager) transition(next PowerStateVector, profile Profile) (err error) {
	if next.CPU == CPUHighPerformance && m.hw.CPU != CPUHighPerformance && !m.buck {
		return fmt.Errorf("%w, CPU HP requires an active SIMOBUCK", ErrUnsupported)
	}

	if err = m.handler.Check(next); err != nil {
		return
	}

	// hardware is left untouched in sleep and reconciled on wake
	if next.CPU == CPUSleep {
		m.state = next
		return
	}

	from := m.hw
	to := next

	row := RowFor(to, profile)
	delta := m.handler.ComputeTrimDelta(m.snap, m.row, row, m.temp, to.Temp)

	m.apply(delta.Increases())
	m.handler.ApplyTonConfig(m.Bus, m.snap, from, to, BeforePerf)

	if err = m.perf(from, to); err != nil {
		return
	}

	m.handler.ApplyTonConfig(m.Bus, m.snap, from, to, AfterPerf)
	m.apply(delta.Decreases())

	m.state = next
	m.hw = next
	m.row = row
	m.temp = next.Temp

	return
}

// perf requests the CPU or GPU performance change and waits for its
// acknowledgement.
func (m *Manager) perf(from PowerStateVector, to PowerStateVector) (err error) {
	if from.CPU != to.CPU {
		MCUPerfReq.Set(m.Bus, uint32(to.CPU))

		if err = hal.WaitField(m.Bus, MCUPerfStatus, uint32(to.CPU), m.cfg.PerfTimeout); err != nil {
			return fmt.Errorf("%w, CPU %s acknowledgement", err, to.CPU)
		}
	}

	if from.GPU != to.GPU {
		GPUPerfReq.Set(m.Bus, uint32(to.GPU))

		if err = hal.WaitField(m.Bus, GPUPerfStatus, uint32(to.GPU), m.cfg.PerfTimeout); err != nil {
			return fmt.Errorf("%w, GPU %s acknowledgement", err, to.GPU)
		}
	}

	return
}

// apply writes each trim adjustment, clamped to the field range, followed by
// the settle delay.
func (m *Manager) apply(d Delta) {
	for _, a := range d {
		f := a.Trim.Field()
		val := int(f.Get(m.Bus)) + a.Delta

		switch {
		case val < 0:
			log.Printf("spot: %s underflow, clamping", f.Name)
			val = 0
		case val > int(f.Max()):
			log.Printf("spot: %s overflow, clamping", f.Name)
			val = int(f.Max())
		}

		f.Set(m.Bus, uint32(val))
		m.Bus.Delay(m.cfg.SettleDelay)
	}
}

// SimobuckInit runs the SIMOBUCK/LDO override initialization sequence,
// temperature compensation is postponed for its duration. On failure the
// postponed window is left open.
func (m *Manager) SimobuckInit() (err error) {
	if m.snap == nil {
		return errNotInitialized
	}

	m.Critical.Enter()
	defer m.Critical.Exit()

	opened := m.tempco.postpone()

	if err = m.handler.SimobuckInit(m.Bus, m.snap, m.cfg.BuckTimeout); err != nil {
		log.Printf("spot: SIMOBUCK init failed, hardware state is unpredictable (%v)", err)
		return
	}

	m.buck = true

	if opened {
		return m.pendingHandle()
	}

	return
}
