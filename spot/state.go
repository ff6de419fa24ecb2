// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package spot

import (
	"fmt"
)

// CPUState represents the CPU performance state.
type CPUState uint8

// CPU states
const (
	CPULowPower CPUState = iota
	CPUHighPerformance
	CPUSleep
)

func (s CPUState) String() string {
	switch s {
	case CPULowPower:
		return "LP"
	case CPUHighPerformance:
		return "HP"
	case CPUSleep:
		return "SLEEP"
	default:
		return fmt.Sprintf("CPU(%d)", s)
	}
}

// GPUState represents the GPU performance state.
type GPUState uint8

// GPU states
const (
	GPUOff GPUState = iota
	GPULowPower
	GPUHighPerformance
)

func (s GPUState) String() string {
	switch s {
	case GPUOff:
		return "OFF"
	case GPULowPower:
		return "LP"
	case GPUHighPerformance:
		return "HP"
	default:
		return fmt.Sprintf("GPU(%d)", s)
	}
}

// TempRange represents a die temperature range.
type TempRange uint8

// Temperature ranges
const (
	TempExtLow TempRange = iota
	TempLow
	TempMid
	TempHigh

	NumTempRanges
)

// Temperature range boundaries (°C), a reading equal to a boundary belongs to
// the upper range.
const (
	TempMin         = -40
	TempExtLowUpper = -20
	TempLowUpper    = 0
	TempMidUpper    = 50
	TempMax         = 125
)

var tempBounds = [NumTempRanges][2]float32{
	TempExtLow: {TempMin, TempExtLowUpper},
	TempLow:    {TempExtLowUpper, TempLowUpper},
	TempMid:    {TempLowUpper, TempMidUpper},
	TempHigh:   {TempMidUpper, TempMax},
}

func (t TempRange) String() string {
	switch t {
	case TempExtLow:
		return "EXTLOW"
	case TempLow:
		return "LOW"
	case TempMid:
		return "MID"
	case TempHigh:
		return "HIGH"
	default:
		return fmt.Sprintf("TEMP(%d)", t)
	}
}

// Bounds returns the lower and upper temperature of the range.
func (t TempRange) Bounds() (lower float32, upper float32) {
	return tempBounds[t][0], tempBounds[t][1]
}

// ClassifyTemp returns the range a temperature reading belongs to.
func ClassifyTemp(celsius float32) TempRange {
	switch {
	case celsius < TempExtLowUpper:
		return TempExtLow
	case celsius < TempLowUpper:
		return TempLow
	case celsius < TempMidUpper:
		return TempMid
	default:
		return TempHigh
	}
}

// PowerStateVector represents the power state tracked by the manager.
type PowerStateVector struct {
	CPU         CPUState
	GPU         GPUState
	DevPeriph   uint32
	AudioPeriph uint32
	MemPeriph   uint32
	SSRAM       uint32
	Temp        TempRange
}

// PowerOnReset is the state vector programmed at initialization.
var PowerOnReset = PowerStateVector{
	CPU:  CPULowPower,
	GPU:  GPUOff,
	Temp: TempMid,
}

func (v PowerStateVector) String() string {
	return fmt.Sprintf("cpu:%s gpu:%s dev:%#08x aud:%#08x mem:%#08x ssram:%#08x temp:%s",
		v.CPU, v.GPU, v.DevPeriph, v.AudioPeriph, v.MemPeriph, v.SSRAM, v.Temp)
}

// Kind represents a stimulus kind.
type Kind uint8

// Stimulus kinds
const (
	KindCPUState Kind = iota
	KindGPUState
	KindTemp
	KindDevPwr
	KindAudioPwr
	KindMemPwr
	KindSSRAMPwr
)

func (k Kind) String() string {
	switch k {
	case KindCPUState:
		return "CPU_STATE"
	case KindGPUState:
		return "GPU_STATE"
	case KindTemp:
		return "TEMP"
	case KindDevPwr:
		return "DEVPWR"
	case KindAudioPwr:
		return "AUDSSPWR"
	case KindMemPwr:
		return "MEMPWR"
	case KindSSRAMPwr:
		return "SSRAMPWR"
	default:
		return fmt.Sprintf("KIND(%d)", k)
	}
}

// TempParam represents the TEMP stimulus payload, Lower and Upper are set on
// return to the bounds of the range Celsius falls in.
type TempParam struct {
	Celsius float32
	Lower   float32
	Upper   float32
}

// StimulusRequest represents a request for power state recomputation.
//
// The payload type depends on Kind: CPUState for KindCPUState, GPUState for
// KindGPUState, *TempParam for KindTemp and a uint32 domain bit mask for the
// power domain kinds, which also use On.
type StimulusRequest struct {
	Kind    Kind
	On      bool
	Payload any
}

// next returns the state vector resulting from the argument request.
func (v PowerStateVector) next(req StimulusRequest) (n PowerStateVector, err error) {
	n = v

	switch req.Kind {
	case KindCPUState:
		s, ok := req.Payload.(CPUState)

		if !ok || s > CPUSleep {
			return n, fmt.Errorf("%w, %s payload %v", ErrInvalidArgument, req.Kind, req.Payload)
		}

		n.CPU = s
	case KindGPUState:
		s, ok := req.Payload.(GPUState)

		if !ok || s > GPUHighPerformance {
			return n, fmt.Errorf("%w, %s payload %v", ErrInvalidArgument, req.Kind, req.Payload)
		}

		n.GPU = s
	case KindTemp:
		p, ok := req.Payload.(*TempParam)

		if !ok || p == nil {
			return n, fmt.Errorf("%w, %s payload %v", ErrInvalidArgument, req.Kind, req.Payload)
		}

		n.Temp = ClassifyTemp(p.Celsius)
	case KindDevPwr, KindAudioPwr, KindMemPwr, KindSSRAMPwr:
		mask, ok := req.Payload.(uint32)

		if !ok || mask == 0 {
			return n, fmt.Errorf("%w, %s payload %v", ErrInvalidArgument, req.Kind, req.Payload)
		}

		var dst *uint32

		switch req.Kind {
		case KindDevPwr:
			dst = &n.DevPeriph
		case KindAudioPwr:
			dst = &n.AudioPeriph
		case KindMemPwr:
			dst = &n.MemPeriph
		case KindSSRAMPwr:
			dst = &n.SSRAM
		}

		if req.On {
			*dst |= mask
		} else {
			*dst &^= mask
		}
	default:
		return n, fmt.Errorf("%w, unknown stimulus kind %d", ErrInvalidArgument, req.Kind)
	}

	return
}

// Profile represents the row selection policy.
type Profile uint8

// Profiles
const (
	// ProfileDefault uses all state rows.
	ProfileDefault Profile = iota
	// ProfileCollapseSTMSTMP resolves the STMP rows to their STM rows.
	ProfileCollapseSTMSTMP
)

func (p Profile) String() string {
	switch p {
	case ProfileDefault:
		return "default"
	case ProfileCollapseSTMSTMP:
		return "collapse"
	default:
		return fmt.Sprintf("profile(%d)", p)
	}
}
