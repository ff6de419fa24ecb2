// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package spot

import (
	"github.com/usbarmory/go-spot/hal"
)

// Register blocks
const (
	MCUCTRL_BASE = 0x40020000
	PWRCTRL_BASE = 0x40021000
)

// MCUCTRL registers
const (
	MCUCTRL_LDOREG1   = MCUCTRL_BASE + 0x100
	MCUCTRL_SIMOBUCK1 = MCUCTRL_BASE + 0x110
	MCUCTRL_SIMOBUCK2 = MCUCTRL_BASE + 0x114
	MCUCTRL_VREFGEN2  = MCUCTRL_BASE + 0x120
	MCUCTRL_VREFGEN4  = MCUCTRL_BASE + 0x124
	MCUCTRL_MEMLDO    = MCUCTRL_BASE + 0x140
	MCUCTRL_VRBOOST   = MCUCTRL_BASE + 0x150
	MCUCTRL_SCRATCH0  = MCUCTRL_BASE + 0x1b0
)

// PWRCTRL registers
const (
	PWRCTRL_MCUPERFREQ   = PWRCTRL_BASE + 0x000
	PWRCTRL_GPUPERFREQ   = PWRCTRL_BASE + 0x004
	PWRCTRL_DEVPWREN     = PWRCTRL_BASE + 0x008
	PWRCTRL_DEVPWRSTATUS = PWRCTRL_BASE + 0x00c
	PWRCTRL_AUDSSPWREN   = PWRCTRL_BASE + 0x010
	PWRCTRL_AUDSSPWRST   = PWRCTRL_BASE + 0x014
	PWRCTRL_MEMPWREN     = PWRCTRL_BASE + 0x018
	PWRCTRL_MEMPWRSTATUS = PWRCTRL_BASE + 0x01c
	PWRCTRL_SSRAMPWREN   = PWRCTRL_BASE + 0x020
	PWRCTRL_SSRAMPWRST   = PWRCTRL_BASE + 0x024
	PWRCTRL_VRSTATUS     = PWRCTRL_BASE + 0x028
	PWRCTRL_VRCTRL       = PWRCTRL_BASE + 0x02c
)

// Trim fields
var (
	CoreLDOActTrim = field("CORELDOACTTRIM", MCUCTRL_LDOREG1, 0, 6)
	MemLDOActTrim  = field("MEMLDOACTTRIM", MCUCTRL_LDOREG1, 8, 6)
	VddcActTrim    = field("VDDCACTTRIM", MCUCTRL_SIMOBUCK1, 0, 6)
	VddcLVActTrim  = field("VDDCLVACTTRIM", MCUCTRL_SIMOBUCK1, 8, 6)
	VddfActTrim    = field("VDDFACTTRIM", MCUCTRL_SIMOBUCK1, 16, 6)
	TVRGCVrefTrim  = field("TVRGCVREFTRIM", MCUCTRL_VREFGEN2, 0, 7)
	TVRGFVrefTrim  = field("TVRGFVREFTRIM", MCUCTRL_VREFGEN4, 0, 7)
)

// Turn-on timing and configuration fields
var (
	VddcTon      = field("VDDCTON", MCUCTRL_SIMOBUCK2, 0, 5)
	VddfTon      = field("VDDFTON", MCUCTRL_SIMOBUCK2, 8, 5)
	MemLDOConfig = field("MEMLDOCFG", MCUCTRL_MEMLDO, 0, 8)
	InitDone     = field("SPOTINIT", MCUCTRL_SCRATCH0, 0, 1)
)

// Boost fields
var (
	VddcBoostEn    = field("VDDCBOOSTEN", MCUCTRL_VRBOOST, 0, 1)
	VddfBoost1En   = field("VDDFBOOST1EN", MCUCTRL_VRBOOST, 1, 1)
	VddfBoost2En   = field("VDDFBOOST2EN", MCUCTRL_VRBOOST, 2, 1)
	VddcBoostTrim  = field("VDDCBOOSTTRIM", MCUCTRL_VRBOOST, 8, 6)
	VddfBoostTrim1 = field("VDDFBOOSTTRIM1", MCUCTRL_VRBOOST, 16, 6)
	VddfBoostTrim2 = field("VDDFBOOSTTRIM2", MCUCTRL_VRBOOST, 24, 6)
)

// Performance request fields
var (
	MCUPerfReq    = field("MCUPERFREQ", PWRCTRL_MCUPERFREQ, 0, 2)
	MCUPerfStatus = field("MCUPERFSTATUS", PWRCTRL_MCUPERFREQ, 4, 2)
	GPUPerfReq    = field("GPUPERFREQ", PWRCTRL_GPUPERFREQ, 0, 2)
	GPUPerfStatus = field("GPUPERFSTATUS", PWRCTRL_GPUPERFREQ, 4, 2)
)

// Voltage regulator fields
var (
	SimobuckEn  = field("SIMOBUCKEN", PWRCTRL_VRCTRL, 0, 1)
	LDOOverride = field("LDOOVER", PWRCTRL_VRCTRL, 1, 1)
	GPURailSel  = field("GPURAILSEL", PWRCTRL_VRCTRL, 2, 1)
	SimobuckSt  = field("SIMOBUCKST", PWRCTRL_VRSTATUS, 0, 2)
)

// SIMOBUCKST values
const (
	SimobuckOff    = 0
	SimobuckActive = 2
)

// Domain represents a power domain enable/status register pair.
type Domain struct {
	Enable uint32
	Status uint32
}

// Power domain register pairs
var (
	DevDomain   = Domain{PWRCTRL_DEVPWREN, PWRCTRL_DEVPWRSTATUS}
	AudioDomain = Domain{PWRCTRL_AUDSSPWREN, PWRCTRL_AUDSSPWRST}
	MemDomain   = Domain{PWRCTRL_MEMPWREN, PWRCTRL_MEMPWRSTATUS}
	SSRAMDomain = Domain{PWRCTRL_SSRAMPWREN, PWRCTRL_SSRAMPWRST}
)

// DEVPWREN bits
const (
	DEV_IOS     = 0
	DEV_IOM0    = 1
	DEV_IOM1    = 2
	DEV_UART0   = 3
	DEV_UART1   = 4
	DEV_ADC     = 5
	DEV_MSPI0   = 6
	DEV_MSPI1   = 7
	DEV_SDIO    = 8
	DEV_USB     = 9
	DEV_USBPHY  = 10
	DEV_DISP    = 11
	DEV_DISPPHY = 12
	DEV_CRYPTO  = 13
	DEV_DEBUG   = 30
	DEV_OTP     = 31
)

// AUDSSPWREN bits
const (
	AUD_PDM0   = 0
	AUD_I2S0   = 1
	AUD_AUDADC = 2
	AUD_AUDREC = 3
)

// MEMPWREN bits
const (
	MEM_DTCM   = 0
	MEM_NVM    = 1
	MEM_CACHEB = 2
	MEM_EXTRAM = 3
)

// SSRAMPWREN bits
const (
	SSRAM_GROUP0 = 0
	SSRAM_GROUP1 = 1
	SSRAM_GROUP2 = 2
)

// Masks of domains selecting the peripheral-on row groups.
var (
	// DevTrimMask selects DEVPWREN bits which require the STMP rows.
	DevTrimMask uint32 = 1<<DEV_SDIO | 1<<DEV_USB | 1<<DEV_USBPHY |
		1<<DEV_DISP | 1<<DEV_DISPPHY | 1<<DEV_CRYPTO | 1<<DEV_MSPI0 | 1<<DEV_MSPI1

	// MemTrimMask selects MEMPWREN bits which require the extended rows.
	MemTrimMask uint32 = 1<<MEM_CACHEB | 1<<MEM_EXTRAM

	// SSRAMTrimMask selects SSRAMPWREN bits which require the extended
	// rows.
	SSRAMTrimMask uint32 = 1<<SSRAM_GROUP1 | 1<<SSRAM_GROUP2
)

func field(name string, addr uint32, pos int, width int) hal.Field {
	return hal.Field{
		Name:  name,
		Addr:  addr,
		Pos:   pos,
		Width: width,
	}
}
