// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && amd64 && mmio

package main

import (
	"github.com/usbarmory/go-spot/hal"
	"github.com/usbarmory/go-spot/hal/mmio"
	"github.com/usbarmory/go-spot/spot"
)

func platform() (hal.Bus, spot.Source, error) {
	return mmio.Bus{}, mmio.Calibration{}, nil
}
