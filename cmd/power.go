// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/hako/durafmt"

	"github.com/usbarmory/go-spot/pwrctrl"
	"github.com/usbarmory/go-spot/shell"
	"github.com/usbarmory/go-spot/spot"
)

var errNotInitialized = errors.New("power control not initialized")

var boosts = map[string]spot.Boost{
	"vddc":  spot.BoostVDDC,
	"vddf1": spot.BoostVDDF1,
	"vddf2": spot.BoostVDDF2,
}

func init() {
	shell.Add(shell.Cmd{
		Name: "status",
		Help: "power state manager status",
		Fn:   statusCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "cpu",
		Args:    1,
		Pattern: regexp.MustCompile(`^cpu (lp|hp|sleep)$`),
		Syntax:  "(lp|hp|sleep)",
		Help:    "select CPU performance mode",
		Fn:      cpuCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "gpu",
		Args:    1,
		Pattern: regexp.MustCompile(`^gpu (off|lp|hp)$`),
		Syntax:  "(off|lp|hp)",
		Help:    "select GPU performance mode",
		Fn:      gpuCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "periph",
		Args:    2,
		Pattern: regexp.MustCompile(`^periph(?: (\S+) (on|off))?$`),
		Syntax:  "(<name> (on|off))?",
		Help:    "show/change peripheral power domains",
		Fn:      periphCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "temp",
		Args:    1,
		Pattern: regexp.MustCompile(`^temp (-?\d+(?:\.\d+)?)$`),
		Syntax:  "<celsius>",
		Help:    "report die temperature",
		Fn:      tempCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "profile",
		Args:    1,
		Pattern: regexp.MustCompile(`^profile(?: (default|collapse))?$`),
		Syntax:  "(default|collapse)?",
		Help:    "show/change row selection profile",
		Fn:      profileCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "boost",
		Args:    2,
		Pattern: regexp.MustCompile(`^boost (vddc|vddf1|vddf2) (on|off|\d+)$`),
		Syntax:  "(vddc|vddf1|vddf2) (on|off|<µs>)",
		Help:    "request/release voltage boost, optionally timed",
		Fn:      boostCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "timer",
		Args:    2,
		Pattern: regexp.MustCompile(`^timer(?: (stop|restart (\d+)))?$`),
		Syntax:  "(stop|restart <µs>)?",
		Help:    "show/control boost auto-revert timer",
		Fn:      timerCmd,
	})

	shell.Add(shell.Cmd{
		Name: "postpone",
		Help: "postpone temperature compensation",
		Fn:   postponeCmd,
	})

	shell.Add(shell.Cmd{
		Name: "pending",
		Help: "apply postponed temperature compensation",
		Fn:   pendingCmd,
	})

	shell.Add(shell.Cmd{
		Name: "buck",
		Help: "SIMOBUCK/LDO override initialization",
		Fn:   buckCmd,
	})

	shell.Add(shell.Cmd{
		Name: "calib",
		Help: "show calibration snapshot",
		Fn:   calibCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "reg",
		Args:    2,
		Pattern: regexp.MustCompile(`^reg ([[:xdigit:]]+)(?: ([[:xdigit:]]+))?$`),
		Syntax:  "<hex address> (<hex value>)?",
		Help:    "read/write register",
		Fn:      regCmd,
	})

	shell.Add(shell.Cmd{
		Name: "log",
		Help: "show and clear simulator register write log",
		Fn:   logCmd,
	})
}

func busName() string {
	switch {
	case Sim != nil:
		return "simulator"
	case Power == nil:
		return "none"
	default:
		return fmt.Sprintf("%T", Power.SPOT.Bus)
	}
}

func power() (*pwrctrl.Controller, error) {
	if Power == nil {
		return nil, errNotInitialized
	}

	return Power, nil
}

func statusCmd(_ *shell.Interface, _ []string) (string, error) {
	var res bytes.Buffer

	p, err := power()

	if err != nil {
		return "", err
	}

	s := p.Status()
	v := s.State

	fmt.Fprintf(&res, "Revision .....: %s (handler %s)\n", s.Revision, s.Handler)
	fmt.Fprintf(&res, "SIMOBUCK .....: %v\n", s.Buck)
	fmt.Fprintf(&res, "CPU/GPU ......: %s/%s\n", v.CPU, v.GPU)
	fmt.Fprintf(&res, "DEVPWR .......: %#08x\n", v.DevPeriph)
	fmt.Fprintf(&res, "AUDSSPWR .....: %#08x\n", v.AudioPeriph)
	fmt.Fprintf(&res, "MEMPWR .......: %#08x\n", v.MemPeriph)
	fmt.Fprintf(&res, "SSRAMPWR .....: %#08x\n", v.SSRAM)
	fmt.Fprintf(&res, "Temperature ..: %s\n", v.Temp)
	fmt.Fprintf(&res, "Row ..........: %d (%s profile)\n", s.Row, s.Profile)
	fmt.Fprintf(&res, "Boost ........: vddc:%d vddf1:%d vddf2:%d\n", s.Boost.VDDC(), s.Boost.VDDF1(), s.Boost.VDDF2())
	fmt.Fprintf(&res, "Tempco .......: %s", s.Tempco)

	return res.String(), nil
}

func cpuCmd(_ *shell.Interface, arg []string) (res string, err error) {
	p, err := power()

	if err != nil {
		return
	}

	switch arg[0] {
	case "lp":
		err = p.MCUModeSelect(spot.CPULowPower)
	case "hp":
		err = p.MCUModeSelect(spot.CPUHighPerformance)
	case "sleep":
		err = p.Sleep()
	}

	return
}

func gpuCmd(_ *shell.Interface, arg []string) (res string, err error) {
	p, err := power()

	if err != nil {
		return
	}

	modes := map[string]spot.GPUState{
		"off": spot.GPUOff,
		"lp":  spot.GPULowPower,
		"hp":  spot.GPUHighPerformance,
	}

	return "", p.GPUModeSelect(modes[arg[0]])
}

func periphCmd(_ *shell.Interface, arg []string) (res string, err error) {
	p, err := power()

	if err != nil {
		return
	}

	if arg[0] != "" {
		periph, err := pwrctrl.Lookup(arg[0])

		if err != nil {
			return "", err
		}

		if arg[1] == "on" {
			return "", p.PeriphEnable(periph)
		}

		return "", p.PeriphDisable(periph)
	}

	var buf bytes.Buffer

	t := tabwriter.NewWriter(&buf, 8, 8, 1, ' ', 0)

	for _, name := range pwrctrl.Names() {
		periph, _ := pwrctrl.Lookup(name)
		on, _ := p.PeriphEnabled(periph)

		fmt.Fprintf(t, "%s\t%s\t%d\t%v\n", name, periph.Kind, periph.Bit, on)
	}

	t.Flush()

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func tempCmd(_ *shell.Interface, arg []string) (res string, err error) {
	p, err := power()

	if err != nil {
		return
	}

	celsius, err := strconv.ParseFloat(arg[0], 32)

	if err != nil {
		return "", fmt.Errorf("invalid temperature, %v", err)
	}

	lower, upper, err := p.TempUpdate(float32(celsius))

	if err != nil {
		return
	}

	return fmt.Sprintf("next thresholds [%.0f°C, %.0f°C)", lower, upper), nil
}

func profileCmd(_ *shell.Interface, arg []string) (res string, err error) {
	p, err := power()

	if err != nil {
		return
	}

	switch arg[0] {
	case "default":
		err = p.SPOT.SetProfile(spot.ProfileDefault)
	case "collapse":
		err = p.SPOT.SetProfile(spot.ProfileCollapseSTMSTMP)
	}

	if err != nil {
		return
	}

	return p.Status().Profile.String(), nil
}

func boostCmd(_ *shell.Interface, arg []string) (res string, err error) {
	p, err := power()

	if err != nil {
		return
	}

	b := boosts[arg[0]]

	switch arg[1] {
	case "on":
		return "", p.SPOT.BoostRequest(b)
	case "off":
		return "", p.SPOT.BoostRelease(b)
	}

	us, err := strconv.ParseUint(arg[1], 10, 32)

	if err != nil {
		return "", fmt.Errorf("invalid delay, %v", err)
	}

	return "", p.SPOT.BoostRequestTimed(b, uint32(us))
}

func timerCmd(_ *shell.Interface, arg []string) (res string, err error) {
	p, err := power()

	if err != nil {
		return
	}

	switch {
	case arg[0] == "stop":
		p.SPOT.TimerStop()
	case arg[1] != "":
		us, err := strconv.ParseUint(arg[1], 10, 32)

		if err != nil {
			return "", fmt.Errorf("invalid delay, %v", err)
		}

		if err = p.SPOT.TimerRestart(uint32(us)); err != nil {
			return "", err
		}
	}

	b, armed := p.SPOT.TimerArmed()

	if !armed {
		return "disarmed", nil
	}

	res = fmt.Sprintf("armed for %s boost", b)

	if t, ok := p.SPOT.Timer.(interface{ Remaining() time.Duration }); ok {
		res += fmt.Sprintf(", expires in %s", durafmt.Parse(t.Remaining()).LimitFirstN(2))
	}

	return
}

func postponeCmd(_ *shell.Interface, _ []string) (res string, err error) {
	p, err := power()

	if err != nil {
		return
	}

	p.SPOT.Postpone()

	return
}

func pendingCmd(_ *shell.Interface, _ []string) (res string, err error) {
	p, err := power()

	if err != nil {
		return
	}

	return "", p.SPOT.PendingHandle()
}

func buckCmd(_ *shell.Interface, _ []string) (res string, err error) {
	p, err := power()

	if err != nil {
		return
	}

	return "", p.LDOOverrideInit()
}

func calibCmd(_ *shell.Interface, _ []string) (string, error) {
	var buf bytes.Buffer

	p, err := power()

	if err != nil {
		return "", err
	}

	s := p.SPOT.Snapshot()

	fmt.Fprintf(&buf, "Trim version .: %s\n", spot.Revision(s.TrimVersion))
	fmt.Fprintf(&buf, "Default TON ..: %d/%d\n", s.DefaultTon.Vddc, s.DefaultTon.Vddf)
	fmt.Fprintf(&buf, "STM TON ......: %d/%d\n", s.StmTon.Vddc, s.StmTon.Vddf)
	fmt.Fprintf(&buf, "GPU TON ......: %v/%v\n", s.GPUVddcTon, s.GPUVddfTon)
	fmt.Fprintf(&buf, "VDDC-LV adj ..: %v\n", s.VddcLVAdj)
	fmt.Fprintf(&buf, "Boost trims ..: %v\n\n", s.BoostTrim)

	t := tabwriter.NewWriter(&buf, 4, 8, 1, ' ', tabwriter.AlignRight)

	fmt.Fprint(t, "row\t")

	for tr := spot.Trim(0); tr < spot.NumTrims; tr++ {
		fmt.Fprintf(t, "%s\t", tr)
	}

	fmt.Fprintln(t)

	for r, row := range s.Rows {
		fmt.Fprintf(t, "%d\t", r)

		for _, v := range row {
			fmt.Fprintf(t, "%+d\t", v)
		}

		fmt.Fprintln(t)
	}

	t.Flush()

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func regCmd(_ *shell.Interface, arg []string) (res string, err error) {
	p, err := power()

	if err != nil {
		return
	}

	addr, err := strconv.ParseUint(arg[0], 16, 32)

	if err != nil {
		return "", fmt.Errorf("invalid address, %v", err)
	}

	if addr%4 != 0 {
		return "", errors.New("address must be 32-bit aligned")
	}

	if arg[1] != "" {
		val, err := strconv.ParseUint(arg[1], 16, 32)

		if err != nil {
			return "", fmt.Errorf("invalid value, %v", err)
		}

		p.SPOT.Bus.Write(uint32(addr), uint32(val))
	}

	return fmt.Sprintf("%#08x: %#08x", addr, p.SPOT.Bus.Read(uint32(addr))), nil
}

func logCmd(_ *shell.Interface, _ []string) (string, error) {
	if Sim == nil {
		return "", errors.New("register write log requires the simulator")
	}

	defer Sim.ClearLog()

	if Sim.Writes() == 0 {
		return "no register writes", nil
	}

	return Sim.Dump(), nil
}
