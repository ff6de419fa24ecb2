// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package spot

// Row represents a trim table row index.
type Row uint8

// NumRows is the number of trim table rows.
const NumRows = 20

// Row index bits, rows 16 to 19 are reserved to GPU high performance and
// never collapse.
const (
	rowCPUHP  = 1 << 0
	rowGPULP  = 1 << 1
	rowSTMP   = 1 << 2
	rowExt    = 1 << 3
	rowGPUHP  = 16
	rowGPUHPP = 1 << 1
)

// devOn reports whether any peripheral selecting the STMP rows is powered.
func (v PowerStateVector) devOn() bool {
	return v.DevPeriph&DevTrimMask != 0
}

// extOn reports whether any domain selecting the extended rows is powered.
func (v PowerStateVector) extOn() bool {
	return v.AudioPeriph != 0 || v.MemPeriph&MemTrimMask != 0 || v.SSRAM&SSRAMTrimMask != 0
}

// RowFor returns the trim row for an active (non-sleep) state vector under
// the argument profile.
func RowFor(v PowerStateVector, p Profile) (r Row) {
	if v.GPU == GPUHighPerformance {
		r = rowGPUHP

		if v.CPU == CPUHighPerformance {
			r |= rowCPUHP
		}

		if v.devOn() {
			r |= rowGPUHPP
		}

		return
	}

	if v.CPU == CPUHighPerformance {
		r |= rowCPUHP
	}

	if v.GPU == GPULowPower {
		r |= rowGPULP
	}

	if v.devOn() {
		r |= rowSTMP
	}

	if v.extOn() {
		r |= rowExt
	}

	return r.collapse(p)
}

// collapse resolves paired rows {0,4} {1,5} {2,6} {3,7} {8,12} {9,13}
// {10,14} {11,15} to the lower one under ProfileCollapseSTMSTMP.
func (r Row) collapse(p Profile) Row {
	if p != ProfileCollapseSTMSTMP || r >= rowGPUHP {
		return r
	}

	return r &^ rowSTMP
}
