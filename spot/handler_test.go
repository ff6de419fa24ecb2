// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package spot

import (
	"errors"
	"reflect"
	"testing"
)

func TestHandlerFor(t *testing.T) {
	tests := []struct {
		version  uint32
		expected string
	}{
		{0x07, "PCM0.7"},
		{0x10, "PCM1.0/1.1/2.0"},
		{0x11, "PCM1.0/1.1/2.0"},
		{0x20, "PCM1.0/1.1/2.0"},
		{0x21, "PCM2.1"},
		{0x22, "PCM2.2+"},
		// forward compatibility
		{0x23, "PCM2.2+"},
		{0x30, "PCM2.2+"},
		{0x00, "PCM2.2+"},
	}

	for _, tt := range tests {
		if got := HandlerFor(tt.version).Name(); got != tt.expected {
			t.Errorf("version %#x resolved to %s, want %s", tt.version, got, tt.expected)
		}
	}
}

func TestComputeTrimDelta(t *testing.T) {
	s := testSnapshot(PCM2_2)

	tests := []struct {
		name     string
		handler  Handler
		from     Row
		to       Row
		fromTemp TempRange
		toTemp   TempRange
		expected Delta
	}{
		{
			name:    "PCM0.7 cpu hp",
			handler: &pcm07{},
			from:    0, to: 1,
			fromTemp: TempMid, toTemp: TempMid,
			expected: Delta{{TrimCoreLDO, 2}, {TrimVDDC, 3}},
		},
		{
			name:    "PCM1.0 cpu hp",
			handler: &pcm10{},
			from:    0, to: 1,
			fromTemp: TempMid, toTemp: TempMid,
			expected: Delta{{TrimTVRGC, 1}, {TrimCoreLDO, 2}, {TrimVDDC, 3}},
		},
		{
			name:    "PCM1.0 extended domain",
			handler: &pcm10{},
			from:    0, to: 8,
			fromTemp: TempMid, toTemp: TempMid,
			expected: nil,
		},
		{
			name:    "PCM2.1 extended domain",
			handler: &pcm21{},
			from:    0, to: 8,
			fromTemp: TempMid, toTemp: TempMid,
			expected: Delta{{TrimMemLDO, 2}, {TrimVDDCLV, 1}},
		},
		{
			name:    "PCM2.1 temperature",
			handler: &pcm21{},
			from:    0, to: 0,
			fromTemp: TempMid, toTemp: TempHigh,
			expected: nil,
		},
		{
			name:    "PCM2.2 temperature",
			handler: &pcm22{},
			from:    0, to: 0,
			fromTemp: TempMid, toTemp: TempHigh,
			expected: Delta{{TrimVDDCLV, -2}},
		},
		{
			name:    "PCM2.2 gpu hp",
			handler: &pcm22{},
			from:    3, to: 17,
			fromTemp: TempLow, toTemp: TempLow,
			expected: Delta{{TrimTVRGC, -1}, {TrimTVRGF, 1}, {TrimCoreLDO, -2}, {TrimVDDC, 2}, {TrimVDDF, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.handler.ComputeTrimDelta(s, tt.from, tt.to, tt.fromTemp, tt.toTemp)

			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDeltaSplit(t *testing.T) {
	d := Delta{{TrimTVRGC, -1}, {TrimTVRGF, 1}, {TrimCoreLDO, -2}, {TrimVDDC, 2}}

	if inc := d.Increases(); !reflect.DeepEqual(inc, Delta{{TrimTVRGF, 1}, {TrimVDDC, 2}}) {
		t.Errorf("unexpected increases %v", inc)
	}

	if dec := d.Decreases(); !reflect.DeepEqual(dec, Delta{{TrimTVRGC, -1}, {TrimCoreLDO, -2}}) {
		t.Errorf("unexpected decreases %v", dec)
	}
}

func TestCheckGPUHighPerformance(t *testing.T) {
	to := PowerStateVector{GPU: GPUHighPerformance}

	if err := (&pcm07{}).Check(to); !errors.Is(err, ErrUnsupported) {
		t.Errorf("PCM0.7 expected ErrUnsupported, got %v", err)
	}

	for _, h := range []Handler{&pcm10{}, &pcm21{}, &pcm22{}} {
		if err := h.Check(to); err != nil {
			t.Errorf("%s unexpected error %v", h.Name(), err)
		}
	}
}
