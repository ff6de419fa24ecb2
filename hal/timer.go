// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package hal

import (
	"sync"
	"time"
)

// Mutex implements Critical with a mutex, it is suitable for environments
// where interrupt handlers run as goroutines.
type Mutex struct {
	mu sync.Mutex
}

// Enter implements Critical.
func (c *Mutex) Enter() {
	c.mu.Lock()
}

// Exit implements Critical.
func (c *Mutex) Exit() {
	c.mu.Unlock()
}

// AfterTimer implements Timer on top of time.AfterFunc.
type AfterTimer struct {
	mu       sync.Mutex
	t        *time.Timer
	deadline time.Time
}

// Start implements Timer.
func (t *AfterTimer) Start(us uint32, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.t != nil {
		t.t.Stop()
	}

	d := time.Duration(us) * time.Microsecond
	t.deadline = time.Now().Add(d)
	t.t = time.AfterFunc(d, fn)
}

// Stop implements Timer.
func (t *AfterTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.t == nil {
		return false
	}

	stopped := t.t.Stop()
	t.t = nil

	return stopped
}

// Remaining returns the time left before expiry, zero if the timer is not
// armed or already expired.
func (t *AfterTimer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.t == nil {
		return 0
	}

	if d := time.Until(t.deadline); d > 0 {
		return d
	}

	return 0
}

// BusyWait spins for the argument number of microseconds, it backs Delay()
// in register bus implementations.
func BusyWait(us uint32) {
	d := time.Duration(us) * time.Microsecond

	for start := time.Now(); time.Since(start) < d; {
	}
}
