// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build !tamago

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"golang.org/x/term"

	"github.com/usbarmory/go-spot/cmd"
	"github.com/usbarmory/go-spot/hal"
	"github.com/usbarmory/go-spot/hal/sim"
	"github.com/usbarmory/go-spot/pwrctrl"
	"github.com/usbarmory/go-spot/spot"
)

var (
	otpPath    = flag.String("otp", "", "calibration block image (default: built-in sample)")
	trim       = flag.Uint("trim", uint(spot.PCM2_2), "trim revision of the built-in sample calibration")
	devmemPath = flag.String("devmem", "", "physical memory device for register access (default: simulator)")
	sshAddr    = flag.String("ssh", "", "serve the console over SSH on this address")
	hostKey    = flag.String("hostkey", "", "SSH host key (default: generated)")
	authKeys   = flag.String("authorized-keys", "", "SSH authorized keys, required with -ssh")
	debugAddr  = flag.String("debug", "", "serve runtime statistics on this address")
	logPath    = flag.String("log", "", "log file")
)

func init() {
	log.SetFlags(0)

	cmd.Banner = fmt.Sprintf("%s/%s (%s) • SPOT power management",
		runtime.GOOS, runtime.GOARCH, runtime.Version())
}

type stdio struct {
	io.Reader
	io.Writer
}

func platform() (b hal.Bus, src spot.Source, err error) {
	if len(*devmemPath) > 0 {
		if b, src, err = openDevmem(*devmemPath); err != nil {
			return
		}
	} else {
		s := sim.New()
		spot.Simulate(s)

		cmd.Sim = s
		b = s
	}

	switch {
	case len(*otpPath) > 0:
		buf, err := os.ReadFile(*otpPath)

		if err != nil {
			return nil, nil, fmt.Errorf("could not read calibration image, %v", err)
		}

		src = spot.Image(buf)
	case src == nil:
		src, err = cmd.SampleImage(spot.Revision(*trim))
	}

	return
}

func main() {
	flag.Parse()

	if len(*logPath) > 0 {
		logFile, err := os.OpenFile(*logPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)

		if err != nil {
			log.Fatalf("could not open log file, %v", err)
		}

		defer logFile.Close()

		log.SetOutput(io.MultiWriter(os.Stdout, logFile))
	}

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
		log.Fatalf("could not initialize power state manager, %v", err)
	}

	cmd.Power = &pwrctrl.Controller{SPOT: m}

	if len(*sshAddr) > 0 {
		go func() {
			if err := cmd.StartSSH(*sshAddr, *hostKey, *authKeys); err != nil {
				log.Printf("ssh: %v", err)
			}
		}()
	}

	if len(*debugAddr) > 0 {
		go func() {
			if err := cmd.StartDebug(*debugAddr); err != nil {
				log.Printf("debug: %v", err)
			}
		}()
	}

	fd := int(os.Stdin.Fd())
	vt100 := term.IsTerminal(fd)

	if vt100 {
		oldState, err := term.MakeRaw(fd)

		if err != nil {
			log.Fatalf("could not set terminal raw mode, %v", err)
		}

		defer term.Restore(fd, oldState)
	}

	cmd.Console(stdio{os.Stdin, os.Stdout}, vt100).Start()
}
