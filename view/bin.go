package view

import "github.com/dtasev/scipp-go/errs"

// Bin holds the four derived quantities of a single bin along a
// bin-edge coordinate: the left and right edge values, and their
// midpoint and span.
type Bin struct {
	Left, Right, Center, Width float64
}

// MakeBin computes {left, right, center, width} from a left and right
// edge value, the way iterating with the Bin accessor over an edge
// coordinate does.
func MakeBin(left, right float64) Bin {
	return Bin{
		Left:   left,
		Right:  right,
		Center: (left + right) / 2,
		Width:  right - left,
	}
}

// BinOffsets returns the pair of flat buffer offsets (left, right) for
// bin index i along v's edge dim, given the other target coordinates in
// coords (coords[edgePos] is ignored and may be anything). It fails
// with UnsupportedError if v has no bin-edge dim: direct element-wise
// iteration over a mixed edge/non-edge pair is forbidden, callers must
// request this explicit accessor instead.
func (v StridedView) BinOffsets(coords []int, i int) (left, right int, err error) {
	edgeDim, ok := v.EdgeDim()
	if !ok {
		return 0, 0, &errs.UnsupportedError{Op: "StridedView.BinOffsets", Reason: "view has no bin-edge dimension"}
	}
	pos, err := v.target.Index(edgeDim)
	if err != nil {
		return 0, 0, err
	}
	c := make([]int, len(coords))
	copy(c, coords)
	c[pos] = i
	left, err = v.Offset(c)
	if err != nil {
		return 0, 0, err
	}
	c[pos] = i + 1
	right, err = v.Offset(c)
	if err != nil {
		return 0, 0, err
	}
	return left, right, nil
}
