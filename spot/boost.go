// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package spot

import (
	"fmt"
	"log"

	"github.com/usbarmory/go-spot/hal"
)

// Rail represents a boostable voltage rail.
type Rail uint8

// Rails
const (
	RailVDDC Rail = iota
	RailVDDF
)

// Boost represents a temporary voltage boost request.
type Boost struct {
	Rail  Rail
	Level int
}

// Boosts
var (
	BoostVDDC  = Boost{RailVDDC, 1}
	BoostVDDF1 = Boost{RailVDDF, 1}
	BoostVDDF2 = Boost{RailVDDF, 2}
)

const numBoosts = 3

var boostFields = [numBoosts]struct {
	en   *hal.Field
	trim *hal.Field
}{
	{&VddcBoostEn, &VddcBoostTrim},
	{&VddfBoost1En, &VddfBoostTrim1},
	{&VddfBoost2En, &VddfBoostTrim2},
}

func (b Boost) index() (int, error) {
	switch b {
	case BoostVDDC:
		return 0, nil
	case BoostVDDF1:
		return 1, nil
	case BoostVDDF2:
		return 2, nil
	default:
		return 0, fmt.Errorf("%w, invalid boost %+v", ErrInvalidArgument, b)
	}
}

func (b Boost) String() string {
	switch b {
	case BoostVDDC:
		return "vddc"
	case BoostVDDF1:
		return "vddf1"
	case BoostVDDF2:
		return "vddf2"
	default:
		return fmt.Sprintf("boost(%d,%d)", b.Rail, b.Level)
	}
}

// BoostCounters represents the reference counts of the boost requests, a
// boost is physically asserted iff its count is not zero.
type BoostCounters [numBoosts]uint32

// VDDC returns the VDDC boost count.
func (c BoostCounters) VDDC() uint32 { return c[0] }

// VDDF1 returns the VDDF level 1 boost count.
func (c BoostCounters) VDDF1() uint32 { return c[1] }

// VDDF2 returns the VDDF level 2 boost count.
func (c BoostCounters) VDDF2() uint32 { return c[2] }

// BoostRequest increments the argument boost reference count, the boost is
// applied on the 0 to 1 transition only.
func (m *Manager) BoostRequest(b Boost) (err error) {
	if m.snap == nil {
		return errNotInitialized
	}

	m.Critical.Enter()
	defer m.Critical.Exit()

	return m.request(b)
}

// BoostRelease decrements the argument boost reference count, the boost is
// removed on the 1 to 0 transition only. Releasing a boost which is not held
// is logged and otherwise ignored.
func (m *Manager) BoostRelease(b Boost) (err error) {
	if m.snap == nil {
		return errNotInitialized
	}

	m.Critical.Enter()
	defer m.Critical.Exit()

	return m.release(b)
}

func (m *Manager) request(b Boost) (err error) {
	i, err := b.index()

	if err != nil {
		return
	}

	if m.boost[i]++; m.boost[i] == 1 {
		boostFields[i].en.SetTo(m.Bus, true)
		m.Bus.Delay(m.cfg.SettleDelay)
	}

	return
}

func (m *Manager) release(b Boost) (err error) {
	i, err := b.index()

	if err != nil {
		return
	}

	if m.boost[i] == 0 {
		log.Printf("spot: %s boost released while not held, ignoring", b)
		return
	}

	if m.boost[i]--; m.boost[i] == 0 {
		boostFields[i].en.SetTo(m.Bus, false)
	}

	return
}
