// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package spot

// PCM2.2 and later silicon, VDDC-LV is compensated for die temperature.
type pcm22 struct {
	pcm21
}

func (h *pcm22) Name() string {
	return PCM2_2.String() + "+"
}

func (h *pcm22) trims(s *TrimSnapshot, r Row, temp TempRange) (t TrimSet) {
	t = rowTrims(s, r, pcm21Trims)
	t[TrimVDDCLV] += int(s.VddcLVAdj[temp])
	return
}

func (h *pcm22) ComputeTrimDelta(s *TrimSnapshot, from Row, to Row, fromTemp TempRange, toTemp TempRange) Delta {
	return diff(h.trims(s, from, fromTemp), h.trims(s, to, toTemp))
}
