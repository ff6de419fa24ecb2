// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package hal

import (
	"errors"
)

// PollStep is the delay, in microseconds, between two predicate evaluations.
const PollStep = 1

// ErrTimeout is returned when a polled condition is not met within its
// budget.
var ErrTimeout = errors.New("hardware timeout")

// Poll evaluates fn until it returns true or until timeout microseconds have
// been spent waiting. The predicate is evaluated at most timeout/PollStep+1
// times, the worst-case bound is therefore timeout microseconds plus the
// predicate cost for each evaluation.
func Poll(b Bus, timeout uint32, fn func() bool) error {
	for waited := uint32(0); ; waited += PollStep {
		if fn() {
			return nil
		}

		if waited >= timeout {
			return ErrTimeout
		}

		b.Delay(PollStep)
	}
}

// WaitField polls until the argument field equals val.
func WaitField(b Bus, f Field, val uint32, timeout uint32) error {
	return Poll(b, timeout, func() bool {
		return f.Get(b) == val
	})
}
