// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package spot

import (
	"errors"
	"testing"

	"github.com/usbarmory/go-spot/hal/sim"
)

var otpEn = field("OTP", PWRCTRL_DEVPWREN, DEV_OTP, 1)

func TestSnapshotSize(t *testing.T) {
	buf, err := testSnapshot(PCM2_2).MarshalBinary()

	if err != nil {
		t.Fatal(err)
	}

	if len(buf) != CalibrationSize {
		t.Fatalf("calibration block size %d, want %d", len(buf), CalibrationSize)
	}
}

func TestLoadSnapshot(t *testing.T) {
	b := sim.New()
	Simulate(b)

	want := testSnapshot(PCM2_1)

	s, err := LoadSnapshot(b, testImage(t, want), DefaultOTPTimeout)

	if err != nil {
		t.Fatal(err)
	}

	if *s != *want {
		t.Fatalf("snapshot mismatch\ngot  %+v\nwant %+v", s, want)
	}

	// storage powered for the read and released afterwards
	if w := writesTo(b.Log(), otpEn); len(w) != 2 {
		t.Fatalf("expected OTP power on/off, got %d writes", len(w))
	}

	if otpEn.IsSet(b) {
		t.Fatal("calibration storage left powered")
	}
}

func TestLoadSnapshotStoragePowered(t *testing.T) {
	b := sim.New()
	Simulate(b)

	otpEn.SetTo(b, true)
	b.ClearLog()

	if _, err := LoadSnapshot(b, testImage(t, testSnapshot(PCM2_1)), DefaultOTPTimeout); err != nil {
		t.Fatal(err)
	}

	if n := b.Writes(); n != 0 {
		t.Fatalf("expected no writes, got %d", n)
	}

	if !otpEn.IsSet(b) {
		t.Fatal("calibration storage powered down")
	}
}

func TestLoadSnapshotUnmapped(t *testing.T) {
	b := sim.New()
	Simulate(b)

	img := testImage(t, testSnapshot(PCM2_1))

	if _, err := LoadSnapshot(b, img[:CalibrationSize-1], DefaultOTPTimeout); !errors.Is(err, ErrReadFailure) {
		t.Fatalf("expected ErrReadFailure, got %v", err)
	}

	if otpEn.IsSet(b) {
		t.Fatal("calibration storage left powered")
	}
}

func TestLoadSnapshotInvalidMagic(t *testing.T) {
	b := sim.New()
	Simulate(b)

	s := testSnapshot(PCM2_1)
	s.Magic = 0xffffffff

	if _, err := LoadSnapshot(b, testImage(t, s), DefaultOTPTimeout); !errors.Is(err, ErrReadFailure) {
		t.Fatalf("expected ErrReadFailure, got %v", err)
	}
}

func TestLoadSnapshotTimeout(t *testing.T) {
	// no domain acknowledgement
	b := sim.New()

	_, err := LoadSnapshot(b, testImage(t, testSnapshot(PCM2_1)), 20)

	if !errors.Is(err, ErrHardwareTimeout) {
		t.Fatalf("expected ErrHardwareTimeout, got %v", err)
	}

	if b.Elapsed() != 20 {
		t.Fatalf("expected 20us budget, spent %d", b.Elapsed())
	}
}

func TestImageShadow(t *testing.T) {
	img := Image{1, 2, 3, 4}

	buf, err := img.Shadow(CalibrationBase+1, 2)

	if err != nil {
		t.Fatal(err)
	}

	if buf[0] != 2 || buf[1] != 3 {
		t.Fatalf("unexpected shadow %v", buf)
	}

	buf[0] = 0xff

	if img[1] != 2 {
		t.Fatal("shadow aliases the image")
	}

	if _, err = img.Shadow(CalibrationBase-4, 2); err == nil {
		t.Fatal("expected unmapped error")
	}
}
