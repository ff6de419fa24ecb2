// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package pwrctrl implements the power control API which drives the SPOT
// power state manager before and after each performance mode switch,
// peripheral power domain change or temperature report.
package pwrctrl

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/usbarmory/go-spot/hal"
	"github.com/usbarmory/go-spot/spot"
)

// Periph represents a peripheral power domain bit.
type Periph struct {
	Name string
	Kind spot.Kind
	Bit  int
}

func (p Periph) mask() uint32 {
	return 1 << p.Bit
}

func (p Periph) domain() (d spot.Domain, err error) {
	switch p.Kind {
	case spot.KindDevPwr:
		return spot.DevDomain, nil
	case spot.KindAudioPwr:
		return spot.AudioDomain, nil
	case spot.KindMemPwr:
		return spot.MemDomain, nil
	case spot.KindSSRAMPwr:
		return spot.SSRAMDomain, nil
	default:
		return d, fmt.Errorf("%w, %s is not a power domain", spot.ErrInvalidArgument, p.Kind)
	}
}

func (p Periph) fields() (en hal.Field, st hal.Field, err error) {
	d, err := p.domain()

	if err != nil {
		return
	}

	en = hal.Field{Name: p.Name, Addr: d.Enable, Pos: p.Bit, Width: 1}
	st = hal.Field{Name: p.Name + "ST", Addr: d.Status, Pos: p.Bit, Width: 1}

	return
}

var periphs = map[string]Periph{}

func init() {
	for name, bit := range map[string]int{
		"ios":     spot.DEV_IOS,
		"iom0":    spot.DEV_IOM0,
		"iom1":    spot.DEV_IOM1,
		"uart0":   spot.DEV_UART0,
		"uart1":   spot.DEV_UART1,
		"adc":     spot.DEV_ADC,
		"mspi0":   spot.DEV_MSPI0,
		"mspi1":   spot.DEV_MSPI1,
		"sdio":    spot.DEV_SDIO,
		"usb":     spot.DEV_USB,
		"usbphy":  spot.DEV_USBPHY,
		"disp":    spot.DEV_DISP,
		"dispphy": spot.DEV_DISPPHY,
		"crypto":  spot.DEV_CRYPTO,
		"debug":   spot.DEV_DEBUG,
	} {
		Add(Periph{Name: name, Kind: spot.KindDevPwr, Bit: bit})
	}

	for name, bit := range map[string]int{
		"pdm0":   spot.AUD_PDM0,
		"i2s0":   spot.AUD_I2S0,
		"audadc": spot.AUD_AUDADC,
		"audrec": spot.AUD_AUDREC,
	} {
		Add(Periph{Name: name, Kind: spot.KindAudioPwr, Bit: bit})
	}

	for name, bit := range map[string]int{
		"dtcm":   spot.MEM_DTCM,
		"nvm":    spot.MEM_NVM,
		"cacheb": spot.MEM_CACHEB,
		"extram": spot.MEM_EXTRAM,
	} {
		Add(Periph{Name: name, Kind: spot.KindMemPwr, Bit: bit})
	}

	for name, bit := range map[string]int{
		"ssram0": spot.SSRAM_GROUP0,
		"ssram1": spot.SSRAM_GROUP1,
		"ssram2": spot.SSRAM_GROUP2,
	} {
		Add(Periph{Name: name, Kind: spot.KindSSRAMPwr, Bit: bit})
	}
}

// Add registers a peripheral.
func Add(p Periph) {
	periphs[p.Name] = p
}

// Lookup returns a registered peripheral by name.
func Lookup(name string) (p Periph, err error) {
	p, ok := periphs[name]

	if !ok {
		return p, fmt.Errorf("%w, unknown peripheral %q", spot.ErrInvalidArgument, name)
	}

	return
}

// Names returns the sorted names of all registered peripherals.
func Names() (names []string) {
	for name := range periphs {
		names = append(names, name)
	}

	sort.Strings(names)

	return
}

// Controller represents the power control instance.
type Controller struct {
	// SPOT is the power state manager
	SPOT *spot.Manager
	// DomainTimeout is the power domain status budget (µs), the manager
	// configuration applies when zero
	DomainTimeout uint32
}

func (c *Controller) timeout() uint32 {
	switch {
	case c.DomainTimeout != 0:
		return c.DomainTimeout
	case c.SPOT.Config.DomainTimeout != 0:
		return c.SPOT.Config.DomainTimeout
	default:
		return spot.DefaultDomainTimeout
	}
}

func fatal(op string, err error) error {
	if errors.Is(err, spot.ErrHardwareTimeout) {
		log.Printf("pwrctrl: %s timed out, consider reset (%v)", op, err)
	}

	return err
}

// MCUModeSelect switches the CPU performance mode.
func (c *Controller) MCUModeSelect(mode spot.CPUState) error {
	if mode != spot.CPULowPower && mode != spot.CPUHighPerformance {
		return fmt.Errorf("%w, invalid MCU mode %s", spot.ErrInvalidArgument, mode)
	}

	return fatal("MCU mode select", c.SPOT.Stimulus(spot.StimulusRequest{
		Kind:    spot.KindCPUState,
		Payload: mode,
	}))
}

// Sleep records CPU entry in sleep, trims are left untouched until wake.
func (c *Controller) Sleep() error {
	return c.SPOT.Stimulus(spot.StimulusRequest{
		Kind:    spot.KindCPUState,
		Payload: spot.CPUSleep,
	})
}

// GPUModeSelect switches the GPU performance mode, GPUOff powers it down.
func (c *Controller) GPUModeSelect(mode spot.GPUState) error {
	return fatal("GPU mode select", c.SPOT.Stimulus(spot.StimulusRequest{
		Kind:    spot.KindGPUState,
		Payload: mode,
	}))
}

// PeriphEnabled reports whether a peripheral domain is powered.
func (c *Controller) PeriphEnabled(p Periph) (bool, error) {
	_, st, err := p.fields()

	if err != nil {
		return false, err
	}

	return st.IsSet(c.SPOT.Bus), nil
}

// PeriphEnable powers a peripheral domain, the power state manager is
// notified before the domain is enabled.
func (c *Controller) PeriphEnable(p Periph) (err error) {
	en, st, err := p.fields()

	if err != nil {
		return
	}

	b := c.SPOT.Bus

	if en.IsSet(b) && st.IsSet(b) {
		return
	}

	if err = c.SPOT.Stimulus(spot.StimulusRequest{Kind: p.Kind, On: true, Payload: p.mask()}); err != nil {
		return fatal("peripheral enable", err)
	}

	en.SetTo(b, true)

	if err = hal.WaitField(b, st, 1, c.timeout()); err != nil {
		return fatal("peripheral enable", fmt.Errorf("%w, %s power up", err, p.Name))
	}

	return
}

// PeriphDisable powers down a peripheral domain, the power state manager is
// notified after the domain is disabled.
func (c *Controller) PeriphDisable(p Periph) (err error) {
	en, st, err := p.fields()

	if err != nil {
		return
	}

	b := c.SPOT.Bus

	if !en.IsSet(b) && !st.IsSet(b) {
		return
	}

	en.SetTo(b, false)

	if err = hal.WaitField(b, st, 0, c.timeout()); err != nil {
		return fatal("peripheral disable", fmt.Errorf("%w, %s power down", err, p.Name))
	}

	return fatal("peripheral disable", c.SPOT.Stimulus(spot.StimulusRequest{Kind: p.Kind, On: false, Payload: p.mask()}))
}

// TempUpdate reports a die temperature reading, it returns the bounds of the
// range the reading falls in, to be used as next reporting thresholds.
func (c *Controller) TempUpdate(celsius float32) (lower float32, upper float32, err error) {
	p := &spot.TempParam{Celsius: celsius}

	if err = c.SPOT.Stimulus(spot.StimulusRequest{Kind: spot.KindTemp, Payload: p}); err != nil {
		return 0, 0, fatal("temperature update", err)
	}

	return p.Lower, p.Upper, nil
}

// LDOOverrideInit runs the SIMOBUCK/LDO override initialization sequence.
func (c *Controller) LDOOverrideInit() error {
	return fatal("SIMOBUCK init", c.SPOT.SimobuckInit())
}

// Status returns a copy of the power state manager state.
func (c *Controller) Status() spot.Status {
	return c.SPOT.Status()
}
