// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package spot implements the SPOT power state manager, coordinating voltage
// regulator trims, turn-on timing, CPU/GPU performance modes, peripheral power
// domains and temperature compensation across silicon trim revisions.
//
// Every state change is requested as a stimulus to a single Manager instance,
// which routes it to the revision handler detected at initialization and
// applies the resulting trim delta through a hal.Bus with the following
// ordering: trim increases are written before the performance change, trim
// decreases only after the performance change has been acknowledged.
//
// Stimuli must be serialized by the caller, the Manager only guards its state
// against the auto-revert timer through a hal.Critical section.
package spot

import (
	"errors"

	"github.com/usbarmory/go-spot/hal"
)

var (
	// ErrInvalidArgument is returned for malformed stimuli or payloads,
	// no register is written.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrHardwareTimeout is returned when a status register wait exceeds
	// its budget, hardware is left in an unpredictable state.
	ErrHardwareTimeout = hal.ErrTimeout

	// ErrReadFailure is returned when calibration data is unavailable.
	ErrReadFailure = errors.New("calibration read failure")

	// ErrUnsupported is returned for requests violating a documented
	// precondition, no register is written.
	ErrUnsupported = errors.New("unsupported request")
)

// Default timing budgets (µs)
const (
	DefaultPerfTimeout   = 2000
	DefaultDomainTimeout = 1000
	DefaultOTPTimeout    = 500
	DefaultBuckTimeout   = 1000
	DefaultSettleDelay   = 10
)

// Config represents the timing budgets of a Manager, zero values are replaced
// with defaults.
type Config struct {
	// PerfTimeout is the budget for CPU/GPU performance acknowledgement.
	PerfTimeout uint32
	// DomainTimeout is the budget for peripheral power domain status.
	DomainTimeout uint32
	// OTPTimeout is the budget for calibration storage power up.
	OTPTimeout uint32
	// BuckTimeout is the budget for SIMOBUCK activation.
	BuckTimeout uint32
	// SettleDelay is inserted after each trim write.
	SettleDelay uint32
}

func normalizeConfig(cfg Config) Config {
	normalized := cfg

	if normalized.PerfTimeout == 0 {
		normalized.PerfTimeout = DefaultPerfTimeout
	}

	if normalized.DomainTimeout == 0 {
		normalized.DomainTimeout = DefaultDomainTimeout
	}

	if normalized.OTPTimeout == 0 {
		normalized.OTPTimeout = DefaultOTPTimeout
	}

	if normalized.BuckTimeout == 0 {
		normalized.BuckTimeout = DefaultBuckTimeout
	}

	if normalized.SettleDelay == 0 {
		normalized.SettleDelay = DefaultSettleDelay
	}

	return normalized
}
