// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build linux && !tamago

package main

import (
	"os"

	"github.com/usbarmory/go-spot/hal"
	"github.com/usbarmory/go-spot/hal/devmem"
	"github.com/usbarmory/go-spot/spot"
)

// register window covering MCUCTRL and PWRCTRL
const regsSize = 0x2000

func openDevmem(path string) (b hal.Bus, src spot.Source, err error) {
	regs, err := devmem.Open(path, spot.MCUCTRL_BASE, regsSize)

	if err != nil {
		return
	}

	calib, err := devmem.Open(path, spot.CalibrationBase, os.Getpagesize())

	if err != nil {
		regs.Close()
		return
	}

	return regs, calib, nil
}
