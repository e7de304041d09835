/*
NAME
  qualitytest.go

DESCRIPTION
  qualitytest provides a shared mean-absolute-error metric for tests
  that check encoder/decoder fidelity as a function of quality, used
  to verify that error decreases monotonically as quality increases.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package qualitytest provides test-support helpers for measuring
// round-trip fidelity of lossy JPEG encoding. It is imported only from
// _test.go files.
package qualitytest

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// MeanAbsError returns the mean absolute difference between want and
// got, computed per-channel (plane) and then averaged across planes,
// using gonum's stat.Mean rather than a hand-rolled accumulator.
//
// want and got must both have length nComp*planeLen and be laid out as
// nComp consecutive planes, matching jpeg.Image.Pix.
func MeanAbsError(want, got []byte, nComp int) (float64, error) {
	if len(want) != len(got) {
		return 0, fmt.Errorf("qualitytest: length mismatch: %d vs %d", len(want), len(got))
	}
	if nComp <= 0 || len(want)%nComp != 0 {
		return 0, fmt.Errorf("qualitytest: %d samples does not divide into %d planes", len(want), nComp)
	}

	planeLen := len(want) / nComp
	diffs := make([]float64, planeLen)
	means := make([]float64, nComp)
	for c := 0; c < nComp; c++ {
		plane := want[c*planeLen : (c+1)*planeLen]
		other := got[c*planeLen : (c+1)*planeLen]
		for i := range plane {
			d := int(plane[i]) - int(other[i])
			if d < 0 {
				d = -d
			}
			diffs[i] = float64(d)
		}
		means[c] = stat.Mean(diffs, nil)
	}

	return stat.Mean(means, nil), nil
}
