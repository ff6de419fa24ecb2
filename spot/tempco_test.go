// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package spot

import (
	"errors"
	"testing"
)

func temp(celsius float32) StimulusRequest {
	return StimulusRequest{Kind: KindTemp, Payload: &TempParam{Celsius: celsius}}
}

func TestTempcoCoalesce(t *testing.T) {
	tm := newTestManager(t, PCM2_2, true)

	tm.Postpone()

	if !tm.Postponed() {
		t.Fatal("expected postponed window")
	}

	for _, c := range []float32{60, -30, 10, 70} {
		tm.stimulus(t, temp(c))
	}

	if n := tm.bus.Writes(); n != 0 {
		t.Fatalf("expected no register writes while postponed, got %d", n)
	}

	if tm.State().Temp != TempMid {
		t.Fatalf("temperature range applied while postponed")
	}

	if err := tm.PendingHandle(); err != nil {
		t.Fatal(err)
	}

	if tm.Postponed() {
		t.Fatal("window not closed")
	}

	changes := trimChanges(tm.bus.Log())

	if len(changes) != 1 || changes[0].trim != TrimVDDCLV || changes[0].delta != -2 {
		t.Fatalf("expected single VDDC-LV adjustment, got %+v", changes)
	}

	if tm.State().Temp != TempHigh {
		t.Fatalf("unexpected range %s", tm.State().Temp)
	}
}

func TestTempcoNested(t *testing.T) {
	tm := newTestManager(t, PCM2_2, true)

	tm.Postpone()
	tm.Postpone()
	tm.stimulus(t, temp(-30))

	if err := tm.PendingHandle(); err != nil {
		t.Fatal(err)
	}

	if tm.Postponed() {
		t.Fatal("window not closed")
	}

	if tm.State().Temp != TempExtLow {
		t.Fatalf("unexpected range %s", tm.State().Temp)
	}

	// nothing queued
	tm.bus.ClearLog()

	if err := tm.PendingHandle(); err != nil {
		t.Fatal(err)
	}

	if n := tm.bus.Writes(); n != 0 {
		t.Fatalf("expected no register writes, got %d", n)
	}
}

func TestTempcoProfileLatch(t *testing.T) {
	tm := newTestManager(t, PCM2_2, true)

	tm.stimulus(t, devPwr(true, 1<<DEV_USB))
	tm.Postpone()
	tm.stimulus(t, temp(70))

	if err := tm.SetProfile(ProfileCollapseSTMSTMP); err != nil {
		t.Fatal(err)
	}

	tm.bus.ClearLog()

	if err := tm.PendingHandle(); err != nil {
		t.Fatal(err)
	}

	// applied with the profile in effect when received
	if tm.Status().Row != 4 {
		t.Fatalf("unexpected row %d", tm.Status().Row)
	}

	changes := trimChanges(tm.bus.Log())

	if len(changes) != 1 || changes[0].trim != TrimVDDCLV {
		t.Fatalf("unexpected changes %+v", changes)
	}
}

func TestTempcoOtherStimuli(t *testing.T) {
	tm := newTestManager(t, PCM2_2, true)

	tm.Postpone()
	tm.stimulus(t, temp(70))
	tm.stimulus(t, cpuState(CPUHighPerformance))

	if tm.State().CPU != CPUHighPerformance || tm.State().Temp != TempMid {
		t.Fatalf("unexpected state %s", tm.State())
	}

	if err := tm.PendingHandle(); err != nil {
		t.Fatal(err)
	}

	if tm.State().Temp != TempHigh {
		t.Fatalf("unexpected range %s", tm.State().Temp)
	}
}

func TestSimobuckInit(t *testing.T) {
	tm := newTestManager(t, PCM2_2, false)

	if err := tm.SimobuckInit(); err != nil {
		t.Fatal(err)
	}

	if !tm.Status().Buck || SimobuckSt.Get(tm.bus) != SimobuckActive {
		t.Fatal("SIMOBUCK not active")
	}

	if LDOOverride.IsSet(tm.bus) {
		t.Fatal("LDO override not released")
	}

	if MemLDOConfig.Get(tm.bus) != 0x5a {
		t.Fatal("memory LDO configuration not programmed")
	}

	if tm.Postponed() {
		t.Fatal("window opened by SIMOBUCK init not closed")
	}

	tm.stimulus(t, cpuState(CPUHighPerformance))
}

func TestSimobuckInitPostponed(t *testing.T) {
	tm := newTestManager(t, PCM2_2, false)

	tm.Postpone()
	tm.stimulus(t, temp(70))

	if err := tm.SimobuckInit(); err != nil {
		t.Fatal(err)
	}

	// the caller window is left open
	if !tm.Postponed() || tm.State().Temp != TempMid {
		t.Fatal("caller window closed by SIMOBUCK init")
	}

	if err := tm.PendingHandle(); err != nil {
		t.Fatal(err)
	}

	if tm.State().Temp != TempHigh {
		t.Fatalf("unexpected range %s", tm.State().Temp)
	}
}

func TestSimobuckInitTimeout(t *testing.T) {
	tm := newTestManager(t, PCM2_2, false)

	tm.bus.OnWrite(PWRCTRL_VRCTRL, nil)

	if err := tm.SimobuckInit(); !errors.Is(err, ErrHardwareTimeout) {
		t.Fatalf("expected ErrHardwareTimeout, got %v", err)
	}

	if tm.Status().Buck {
		t.Fatal("SIMOBUCK reported active")
	}

	if !tm.Postponed() {
		t.Fatal("window closed after failure")
	}
}

func TestSimobuckInitPCM07(t *testing.T) {
	tm := newTestManager(t, PCM0_7, false)

	if err := tm.SimobuckInit(); err != nil {
		t.Fatal(err)
	}

	// PCM0.7 keeps the LDO override
	if !LDOOverride.IsSet(tm.bus) {
		t.Fatal("LDO override released")
	}
}
