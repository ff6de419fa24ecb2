// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build !linux && !tamago

package main

import (
	"errors"

	"github.com/usbarmory/go-spot/hal"
	"github.com/usbarmory/go-spot/spot"
)

func openDevmem(_ string) (hal.Bus, spot.Source, error) {
	return nil, nil, errors.New("physical memory access is only supported on linux")
}
