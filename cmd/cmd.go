// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package cmd implements the power management console commands.
package cmd

import (
	"io"
	"strings"

	"github.com/usbarmory/go-spot/hal/sim"
	"github.com/usbarmory/go-spot/pwrctrl"
	"github.com/usbarmory/go-spot/shell"
)

var (
	// Banner is the console welcome message
	Banner string

	// Power is the power control instance driven by console commands
	Power *pwrctrl.Controller

	// Sim is the simulated register bus, when in use
	Sim *sim.Bus
)

// Console returns a terminal interface over the argument connection, the
// prompt reflects the current CPU and GPU modes.
func Console(rw io.ReadWriter, vt100 bool) *shell.Interface {
	return &shell.Interface{
		Banner:     Banner,
		ReadWriter: rw,
		VT100:      vt100,
		Prompt:     prompt,
	}
}

func prompt() string {
	if Power == nil || Power.SPOT == nil {
		return ""
	}

	s := Power.SPOT.State()

	return strings.ToLower(s.CPU.String() + "/" + s.GPU.String())
}
