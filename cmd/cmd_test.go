// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/usbarmory/go-spot/hal"
	"github.com/usbarmory/go-spot/hal/sim"
	"github.com/usbarmory/go-spot/pwrctrl"
	"github.com/usbarmory/go-spot/spot"
)

func testConsole(t *testing.T) func(line string) string {
	t.Helper()

	b := sim.New()
	spot.Simulate(b)

	img, err := SampleImage(spot.PCM2_2)

	if err != nil {
		t.Fatal(err)
	}

	m := &spot.Manager{
		Bus:      b,
		Critical: &hal.Mutex{},
		Timer:    &sim.ManualTimer{},
	}

	if err = m.Init(img); err != nil {
		t.Fatal(err)
	}

	Sim = b
	Power = &pwrctrl.Controller{SPOT: m}

	t.Cleanup(func() {
		Sim = nil
		Power = nil
	})

	iface := Console(nil, false)

	return func(line string) string {
		t.Helper()

		buf := new(bytes.Buffer)

		if err := iface.Exec(line, buf); err != nil && err != io.EOF {
			t.Fatalf("%s: %v", line, err)
		}

		return buf.String()
	}
}

func TestSampleSnapshot(t *testing.T) {
	img, err := SampleImage(spot.PCM2_1)

	if err != nil {
		t.Fatal(err)
	}

	if len(img) != spot.CalibrationSize {
		t.Fatalf("unexpected image size %d", len(img))
	}

	s, err := spot.LoadSnapshot(sim.New(), img, 0)

	if err == nil {
		t.Fatal("expected calibration storage power up timeout")
	}

	b := sim.New()
	spot.Simulate(b)

	if s, err = spot.LoadSnapshot(b, img, spot.DefaultOTPTimeout); err != nil {
		t.Fatal(err)
	}

	if spot.Revision(s.TrimVersion) != spot.PCM2_1 || *s != *SampleSnapshot(spot.PCM2_1) {
		t.Fatal("snapshot mismatch")
	}
}

func TestPowerCommands(t *testing.T) {
	exec := testConsole(t)

	if out := exec("status"); !strings.Contains(out, "PCM2.2") || !strings.Contains(out, "LP/OFF") {
		t.Fatalf("unexpected status %q", out)
	}

	if p := prompt(); p != "lp/off" {
		t.Fatalf("unexpected prompt %q", p)
	}

	exec("buck; cpu hp; gpu lp")
	exec("periph usb on")

	if p := prompt(); p != "hp/lp" {
		t.Fatalf("unexpected prompt %q", p)
	}

	s := Power.Status()

	if s.State.CPU != spot.CPUHighPerformance || s.State.GPU != spot.GPULowPower || s.State.DevPeriph != 1<<spot.DEV_USB {
		t.Fatalf("unexpected state %s", s.State)
	}

	if out := exec("periph"); !strings.Contains(out, "usb") {
		t.Fatalf("unexpected peripheral list %q", out)
	}

	if out := exec("temp 60"); !strings.Contains(out, "[50°C, 125°C)") {
		t.Fatalf("unexpected thresholds %q", out)
	}

	if out := exec("profile collapse"); !strings.Contains(out, "collapse") {
		t.Fatalf("unexpected profile %q", out)
	}

	if out := exec("log"); !strings.Contains(out, "->") {
		t.Fatalf("unexpected log %q", out)
	}

	if out := exec("log"); !strings.Contains(out, "no register writes") {
		t.Fatalf("log not cleared %q", out)
	}
}

func TestBoostCommands(t *testing.T) {
	exec := testConsole(t)

	exec("boost vddc on")
	exec("boost vddf1 250")

	if out := exec("timer"); !strings.Contains(out, "armed for vddf1") {
		t.Fatalf("unexpected timer %q", out)
	}

	exec("timer stop")

	if out := exec("timer"); !strings.Contains(out, "disarmed") {
		t.Fatalf("unexpected timer %q", out)
	}

	if c := Power.Status().Boost; c.VDDC() != 1 || c.VDDF1() != 1 {
		t.Fatalf("unexpected counters %v", c)
	}

	exec("boost vddc off")
	exec("boost vddf1 off")

	if c := Power.Status().Boost; c.VDDC() != 0 || c.VDDF1() != 0 {
		t.Fatalf("unexpected counters %v", c)
	}
}

func TestTempcoCommands(t *testing.T) {
	exec := testConsole(t)

	exec("postpone")
	exec("temp -30")

	if out := exec("status"); !strings.Contains(out, "postponed") {
		t.Fatalf("unexpected status %q", out)
	}

	exec("pending")

	if Power.Status().State.Temp != spot.TempExtLow {
		t.Fatalf("unexpected range %s", Power.Status().State.Temp)
	}
}

func TestRegCommand(t *testing.T) {
	exec := testConsole(t)

	if out := exec("reg 40020150"); !strings.Contains(out, "0x40020150") {
		t.Fatalf("unexpected output %q", out)
	}

	exec("reg 400201b0 0")

	if spot.InitDone.IsSet(Sim) {
		t.Fatal("register not written")
	}
}

func TestCalibCommand(t *testing.T) {
	exec := testConsole(t)

	out := exec("calib")

	if !strings.Contains(out, "PCM2.2") || strings.Count(out, "\n") < spot.NumRows {
		t.Fatalf("unexpected output %q", out)
	}
}
