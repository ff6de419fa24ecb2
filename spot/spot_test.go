// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package spot

import (
	"testing"

	"github.com/usbarmory/go-spot/hal"
	"github.com/usbarmory/go-spot/hal/sim"
)

// testSnapshot returns calibration data where, for rows 0 to 15, CPU HP
// raises VDDC/CoreLDO/TVRGC, GPU LP raises VDDC/VDDF/TVRGF, STMP peripherals
// raise VDDF only and extended domains raise MemLDO/VDDC-LV. GPU HP rows
// release CoreLDO and TVRGC to the SIMOBUCK.
func testSnapshot(version Revision) *TrimSnapshot {
	s := &TrimSnapshot{
		Magic:        CalibrationMagic,
		TrimVersion:  uint32(version),
		GPUVddcTon:   [3]uint8{0, 5, 9},
		GPUVddfTon:   [3]uint8{0, 6, 10},
		StmTon:       TonConfig{Vddc: 3, Vddf: 2},
		DefaultTon:   TonConfig{Vddc: 1, Vddf: 1},
		MemLDOConfig: 0x5a,
		VddcLVAdj:    [NumTempRanges]int8{3, 1, 0, -2},
		BoostTrim:    [numBoosts]uint8{4, 2, 5},
	}

	for r := 0; r < 16; r++ {
		hp, gpu, stmp, ext := r&1, (r>>1)&1, (r>>2)&1, (r>>3)&1

		s.Rows[r][TrimVDDC] = int8(hp*3 + gpu*2)
		s.Rows[r][TrimCoreLDO] = int8(hp * 2)
		s.Rows[r][TrimTVRGC] = int8(hp)
		s.Rows[r][TrimVDDF] = int8(gpu*4 + stmp)
		s.Rows[r][TrimTVRGF] = int8(gpu)
		s.Rows[r][TrimMemLDO] = int8(ext * 2)
		s.Rows[r][TrimVDDCLV] = int8(ext)
	}

	for r := 16; r < NumRows; r++ {
		hp, stmp := r&1, (r>>1)&1

		s.Rows[r][TrimVDDC] = int8(hp*3 + 4)
		s.Rows[r][TrimVDDF] = int8(6 + stmp)
		s.Rows[r][TrimTVRGF] = 2
	}

	return s
}

func testImage(t *testing.T, s *TrimSnapshot) Image {
	buf, err := s.MarshalBinary()

	if err != nil {
		t.Fatal(err)
	}

	return Image(buf)
}

type testManager struct {
	*Manager
	bus   *sim.Bus
	timer *sim.ManualTimer
}

// newTestManager returns an initialized manager over a simulated bus with an
// empty replay log.
func newTestManager(t *testing.T, version Revision, buck bool) *testManager {
	t.Helper()

	b := sim.New()
	Simulate(b)

	if buck {
		b.PokeField(SimobuckSt, SimobuckActive)
	}

	tm := &testManager{
		bus:   b,
		timer: &sim.ManualTimer{},
	}

	tm.Manager = &Manager{
		Bus:      b,
		Critical: &hal.Mutex{},
		Timer:    tm.timer,
	}

	if err := tm.Init(testImage(t, testSnapshot(version))); err != nil {
		t.Fatal(err)
	}

	b.ClearLog()

	return tm
}

func (tm *testManager) stimulus(t *testing.T, req StimulusRequest) {
	t.Helper()

	if err := tm.Stimulus(req); err != nil {
		t.Fatalf("%s stimulus, %v", req.Kind, err)
	}
}

// trimChange represents the direction of a logged trim write.
type trimChange struct {
	index int
	trim  Trim
	delta int
}

// trimChanges decodes the trim adjustments contained in a replay log.
func trimChanges(log []sim.Write) (changes []trimChange) {
	for i, w := range log {
		for tr := Trim(0); tr < NumTrims; tr++ {
			f := tr.Field()

			if f.Addr != w.Addr {
				continue
			}

			if d := int(f.Extract(w.Val)) - int(f.Extract(w.Old)); d != 0 {
				changes = append(changes, trimChange{i, tr, d})
			}
		}
	}

	return
}

// writesTo returns the log indices of writes changing the argument field.
func writesTo(log []sim.Write, f hal.Field) (idx []int) {
	for i, w := range log {
		if w.Addr == f.Addr && f.Extract(w.Old) != f.Extract(w.Val) {
			idx = append(idx, i)
		}
	}

	return
}

func TestNormalizeConfig(t *testing.T) {
	tests := []struct {
		name     string
		input    Config
		expected Config
	}{
		{
			name:  "defaults",
			input: Config{},
			expected: Config{
				PerfTimeout:   DefaultPerfTimeout,
				DomainTimeout: DefaultDomainTimeout,
				OTPTimeout:    DefaultOTPTimeout,
				BuckTimeout:   DefaultBuckTimeout,
				SettleDelay:   DefaultSettleDelay,
			},
		},
		{
			name:  "custom perf timeout",
			input: Config{PerfTimeout: 10, SettleDelay: 1},
			expected: Config{
				PerfTimeout:   10,
				DomainTimeout: DefaultDomainTimeout,
				OTPTimeout:    DefaultOTPTimeout,
				BuckTimeout:   DefaultBuckTimeout,
				SettleDelay:   1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeConfig(tt.input); got != tt.expected {
				t.Errorf("got %+v, want %+v", got, tt.expected)
			}
		})
	}
}
