// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package spot

import (
	"fmt"
	"log"
)

// autoRevert represents the boost held on behalf of the auto-revert timer.
type autoRevert struct {
	held  bool
	armed bool
	boost Boost
	// arming generation, expiries of earlier generations are stale
	gen uint64
}

// BoostRequestTimed requests a boost which is released automatically after
// delay microseconds, unless the timer is stopped first. Requesting the boost
// already held by the timer restarts it without a further reference.
func (m *Manager) BoostRequestTimed(b Boost, delay uint32) (err error) {
	if m.Timer == nil {
		return fmt.Errorf("%w, no auto-revert timer", ErrUnsupported)
	}

	if m.snap == nil {
		return errNotInitialized
	}

	m.Critical.Enter()
	defer m.Critical.Exit()

	switch {
	case m.timed.held && m.timed.boost == b:
	case m.timed.held:
		return fmt.Errorf("%w, auto-revert timer busy with %s boost", ErrUnsupported, m.timed.boost)
	default:
		if err = m.request(b); err != nil {
			return
		}

		m.timed = autoRevert{held: true, boost: b, gen: m.timed.gen}
	}

	m.arm(delay)

	return
}

// TimerStart arms the auto-revert timer for the boost held on its behalf.
func (m *Manager) TimerStart(delay uint32) error {
	return m.timerStart(delay, false)
}

// TimerRestart re-arms the auto-revert timer, postponing expiry.
func (m *Manager) TimerRestart(delay uint32) error {
	return m.timerStart(delay, true)
}

func (m *Manager) timerStart(delay uint32, restart bool) error {
	if m.Timer == nil {
		return fmt.Errorf("%w, no auto-revert timer", ErrUnsupported)
	}

	if m.snap == nil {
		return errNotInitialized
	}

	m.Critical.Enter()
	defer m.Critical.Exit()

	if !m.timed.held {
		return fmt.Errorf("%w, no boost held by the auto-revert timer", ErrUnsupported)
	}

	if restart && !m.timed.armed {
		return fmt.Errorf("%w, auto-revert timer not armed", ErrUnsupported)
	}

	m.arm(delay)

	return nil
}

// TimerStop disarms the auto-revert timer and hands the held boost back to
// the caller, which becomes responsible for its release.
func (m *Manager) TimerStop() {
	if m.Timer == nil || m.snap == nil {
		return
	}

	m.Critical.Enter()
	defer m.Critical.Exit()

	m.Timer.Stop()
	m.timed = autoRevert{gen: m.timed.gen}
}

// TimerArmed reports whether the auto-revert timer is armed and for which
// boost.
func (m *Manager) TimerArmed() (b Boost, armed bool) {
	if m.snap == nil {
		return
	}

	m.Critical.Enter()
	defer m.Critical.Exit()

	return m.timed.boost, m.timed.armed
}

// arm (re)starts the timer, an expiry already in flight for an earlier
// arming is ignored as Stop cannot cancel it.
func (m *Manager) arm(delay uint32) {
	m.timed.gen++
	m.timed.armed = true

	gen := m.timed.gen
	m.Timer.Start(delay, func() { m.expire(gen) })
}

// expire runs in interrupt context on timer expiry and takes the same path
// as an explicit boost release.
func (m *Manager) expire(gen uint64) {
	m.Critical.Enter()
	defer m.Critical.Exit()

	if !m.timed.armed || m.timed.gen != gen {
		return
	}

	b := m.timed.boost
	m.timed = autoRevert{gen: gen}

	if err := m.release(b); err != nil {
		log.Printf("spot: auto-revert of %s boost failed, %v", b, err)
	}
}
