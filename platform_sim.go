// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && amd64 && !mmio

package main

import (
	"github.com/usbarmory/go-spot/cmd"
	"github.com/usbarmory/go-spot/hal"
	"github.com/usbarmory/go-spot/hal/sim"
	"github.com/usbarmory/go-spot/spot"
)

// Trim is the trim revision of the built-in sample calibration.
var Trim = spot.PCM2_2

func platform() (b hal.Bus, src spot.Source, err error) {
	s := sim.New()
	spot.Simulate(s)

	cmd.Sim = s

	src, err = cmd.SampleImage(Trim)

	return s, src, err
}
