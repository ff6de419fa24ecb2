// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package spot

import (
	"fmt"
)

type tempcoState int

const (
	tempcoIdle tempcoState = iota
	tempcoPostponed
)

// tempco represents the temperature compensation scheduler, temperature
// stimuli received while postponed coalesce to the last one.
type tempco struct {
	state tempcoState

	queued  bool
	param   TempParam
	profile Profile
}

func (t *tempco) String() string {
	switch {
	case t.state == tempcoIdle:
		return "idle"
	case t.queued:
		return fmt.Sprintf("postponed (queued %.1f°C)", t.param.Celsius)
	default:
		return "postponed"
	}
}

// postpone opens the postponed window, it returns false if already open.
func (t *tempco) postpone() bool {
	if t.state == tempcoPostponed {
		return false
	}

	t.state = tempcoPostponed
	t.queued = false

	return true
}

// queue records a temperature stimulus if the window is open.
func (t *tempco) queue(p TempParam, profile Profile) bool {
	if t.state != tempcoPostponed {
		return false
	}

	t.queued = true
	t.param = p
	t.profile = profile

	return true
}

// close closes the window and returns the queued stimulus, if any.
func (t *tempco) close() (p TempParam, profile Profile, ok bool) {
	p, profile, ok = t.param, t.profile, t.queued

	t.state = tempcoIdle
	t.queued = false

	return
}

// Postpone defers temperature compensation until PendingHandle, nested
// invocations are no-ops.
func (m *Manager) Postpone() {
	if m.snap == nil {
		return
	}

	m.Critical.Enter()
	defer m.Critical.Exit()

	m.tempco.postpone()
}

// Postponed reports whether temperature compensation is deferred.
func (m *Manager) Postponed() bool {
	if m.snap == nil {
		return false
	}

	m.Critical.Enter()
	defer m.Critical.Exit()

	return m.tempco.state == tempcoPostponed
}

// PendingHandle closes the postponed window and applies the latest
// temperature stimulus received while postponed, with the profile latched
// when it was received.
func (m *Manager) PendingHandle() error {
	if m.snap == nil {
		return errNotInitialized
	}

	m.Critical.Enter()
	defer m.Critical.Exit()

	return m.pendingHandle()
}

func (m *Manager) pendingHandle() error {
	p, profile, ok := m.tempco.close()

	if !ok {
		return nil
	}

	return m.stimulus(StimulusRequest{Kind: KindTemp, Payload: &p}, profile)
}
