// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && amd64

package main

import (
	"fmt"
	"log"
	"runtime"

	"github.com/usbarmory/go-spot/board/x64"
	"github.com/usbarmory/go-spot/cmd"
	"github.com/usbarmory/go-spot/hal"
	"github.com/usbarmory/go-spot/pwrctrl"
	"github.com/usbarmory/go-spot/spot"
)

func init() {
	log.SetFlags(0)

	cmd.Banner = fmt.Sprintf("%s/%s (%s) • SPOT power management",
		runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func main() {
	b, src, err := platform()

	if err != nil {
		log.Fatal(err)
	}

	m := &spot.Manager{
		Bus:      b,
		Critical: &hal.Mutex{},
		Timer:    &hal.AfterTimer{},
	}

	if err = m.Init(src); err != nil {
		log.Printf("could not initialize power state manager, %v", err)
	} else {
		cmd.Power = &pwrctrl.Controller{SPOT: m}
	}

	cmd.Console(x64.UART0, true).Start()

	log.Print("console closed, resetting")
	x64.AMD64.Reset()
}
