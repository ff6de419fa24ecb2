// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package sim

// ManualTimer implements hal.Timer with expiry triggered by Fire(), for
// deterministic replay.
type ManualTimer struct {
	Armed bool
	Delay uint32
	// Starts counts Start() invocations
	Starts int

	fn func()
}

// Start implements hal.Timer.
func (t *ManualTimer) Start(us uint32, fn func()) {
	t.Armed = true
	t.Delay = us
	t.Starts++
	t.fn = fn
}

// Stop implements hal.Timer.
func (t *ManualTimer) Stop() bool {
	armed := t.Armed
	t.Armed = false
	return armed
}

// Fire expires an armed timer, invoking its callback.
func (t *ManualTimer) Fire() bool {
	if !t.Armed {
		return false
	}

	t.Armed = false
	t.fn()

	return true
}
