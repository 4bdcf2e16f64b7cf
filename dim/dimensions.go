package dim

import "github.com/dtasev/scipp-go/errs"

// SparseExtent is the sentinel extent that marks a dimension as the
// (at most one) sparse dimension of a shape: its "extent" does not
// count elements, it counts rows, each of which is a variable-length
// slab owned by the Variable, not by Dimensions.
const SparseExtent = -1

// entry is one (Dim, extent) pair. Dims within a Dimensions are always
// distinct; order is significant and is preserved outer-to-inner.
type entry struct {
	d      Dim
	extent int
}

// Dimensions is an ordered, outer-to-inner sequence of (Dim, extent)
// pairs. At most one dimension may carry SparseExtent, and when present
// it must be the last (innermost) entry.
type Dimensions struct {
	entries []entry
}

// New builds a Dimensions from parallel dims/extents slices, validating
// distinctness and the sparse-innermost rule.
func New(dims []Dim, extents []int) (Dimensions, error) {
	if len(dims) != len(extents) {
		return Dimensions{}, &errs.DimensionError{Op: "dim.New", Detail: "dims and extents length mismatch"}
	}
	var d Dimensions
	for i := range dims {
		var err error
		d, err = d.Add(dims[i], extents[i])
		if err != nil {
			return Dimensions{}, err
		}
	}
	return d, nil
}

// Scalar returns the empty (rank-0) shape.
func Scalar() Dimensions { return Dimensions{} }

// sparseIndex returns the index of the entry carrying the sparse
// marker, or -1 if there is none.
func (dm Dimensions) sparseIndex() int {
	for i, e := range dm.entries {
		if e.extent == SparseExtent {
			return i
		}
	}
	return -1
}

// Add appends a new (Dim, extent) pair. Fails if the Dim already
// occurs, or if extent is SparseExtent and a non-innermost position
// would result implicitly (Add always appends at the end, so a sparse
// Add is always innermost at the time it is added; a subsequent Add
// after a sparse dim is what must be rejected).
func (dm Dimensions) Add(d Dim, extent int) (Dimensions, error) {
	if dm.sparseIndex() != -1 {
		return Dimensions{}, &errs.DimensionError{Op: "Dimensions.add", Dim: d.String(), Detail: "cannot add a dimension after the sparse dimension"}
	}
	for _, e := range dm.entries {
		if e.d == d {
			return Dimensions{}, &errs.DimensionError{Op: "Dimensions.add", Dim: d.String(), Detail: "dimension already present"}
		}
	}
	if extent != SparseExtent && extent < 0 {
		return Dimensions{}, &errs.DimensionError{Op: "Dimensions.add", Dim: d.String(), Detail: "extent must be >= 0"}
	}
	out := make([]entry, len(dm.entries), len(dm.entries)+1)
	copy(out, dm.entries)
	out = append(out, entry{d: d, extent: extent})
	return Dimensions{entries: out}, nil
}

// Erase removes d from the shape.
func (dm Dimensions) Erase(d Dim) (Dimensions, error) {
	idx, err := dm.Index(d)
	if err != nil {
		return Dimensions{}, err
	}
	out := make([]entry, 0, len(dm.entries)-1)
	out = append(out, dm.entries[:idx]...)
	out = append(out, dm.entries[idx+1:]...)
	return Dimensions{entries: out}, nil
}

// Relabel renames old to new in place, preserving position and extent.
func (dm Dimensions) Relabel(old, newDim Dim) (Dimensions, error) {
	idx, err := dm.Index(old)
	if err != nil {
		return Dimensions{}, err
	}
	for _, e := range dm.entries {
		if e.d == newDim {
			return Dimensions{}, &errs.DimensionError{Op: "Dimensions.relabel", Dim: newDim.String(), Detail: "dimension already present"}
		}
	}
	out := make([]entry, len(dm.entries))
	copy(out, dm.entries)
	out[idx].d = newDim
	return Dimensions{entries: out}, nil
}

// Transpose returns a Dimensions with dims permuted into order. order
// must be a permutation of dm's dims; if dm has a sparse dim, order
// must keep it innermost.
func (dm Dimensions) Transpose(order []Dim) (Dimensions, error) {
	if len(order) != len(dm.entries) {
		return Dimensions{}, &errs.DimensionError{Op: "Dimensions.transpose", Detail: "order length does not match rank"}
	}
	out := make([]entry, 0, len(order))
	seen := make(map[Dim]bool, len(order))
	for _, d := range order {
		idx, err := dm.Index(d)
		if err != nil {
			return Dimensions{}, &errs.DimensionError{Op: "Dimensions.transpose", Dim: d.String(), Detail: "not a dimension of this shape"}
		}
		if seen[d] {
			return Dimensions{}, &errs.DimensionError{Op: "Dimensions.transpose", Dim: d.String(), Detail: "duplicate in transpose order"}
		}
		seen[d] = true
		out = append(out, dm.entries[idx])
	}
	result := Dimensions{entries: out}
	if si := result.sparseIndex(); si != -1 && si != len(out)-1 {
		return Dimensions{}, &errs.DimensionError{Op: "Dimensions.transpose", Dim: result.entries[si].d.String(), Detail: "sparse dimension must remain innermost"}
	}
	return result, nil
}

// Index returns the position of d in the shape.
func (dm Dimensions) Index(d Dim) (int, error) {
	for i, e := range dm.entries {
		if e.d == d {
			return i, nil
		}
	}
	return -1, &errs.DimensionError{Op: "Dimensions.index", Dim: d.String(), Detail: "not found"}
}

// Ndim returns the number of dimensions (rank).
func (dm Dimensions) Ndim() int { return len(dm.entries) }

// Labels returns the ordered dims, outer to inner.
func (dm Dimensions) Labels() []Dim {
	out := make([]Dim, len(dm.entries))
	for i, e := range dm.entries {
		out[i] = e.d
	}
	return out
}

// Extent returns the extent of d, or 0 and an error if d is absent.
// For the sparse dim, Extent returns SparseExtent.
func (dm Dimensions) Extent(d Dim) (int, error) {
	idx, err := dm.Index(d)
	if err != nil {
		return 0, err
	}
	return dm.entries[idx].extent, nil
}

// Shape returns the extents in order, one per Labels() entry.
func (dm Dimensions) Shape() []int {
	out := make([]int, len(dm.entries))
	for i, e := range dm.entries {
		out[i] = e.extent
	}
	return out
}

// IsSparse reports whether this shape carries a sparse innermost dim.
func (dm Dimensions) IsSparse() bool { return dm.sparseIndex() != -1 }

// SparseDim returns the sparse Dim and true, or Invalid and false if
// this shape has no sparse dim.
func (dm Dimensions) SparseDim() (Dim, bool) {
	if si := dm.sparseIndex(); si != -1 {
		return dm.entries[si].d, true
	}
	return Invalid, false
}

// Volume returns the product of non-sparse extents. For a shape with a
// sparse dim this counts rows: each row is a variable-length slab whose
// own length is tracked by the Variable, not by Dimensions.
func (dm Dimensions) Volume() int {
	v := 1
	for _, e := range dm.entries {
		if e.extent == SparseExtent {
			continue
		}
		v *= e.extent
	}
	return v
}

// Inner returns the innermost non-sparse Dim, i.e. the last entry that
// is not the sparse marker.
func (dm Dimensions) Inner() (Dim, error) {
	for i := len(dm.entries) - 1; i >= 0; i-- {
		if dm.entries[i].extent != SparseExtent {
			return dm.entries[i].d, nil
		}
	}
	return Invalid, &errs.DimensionError{Op: "Dimensions.inner", Detail: "shape has no non-sparse dimension"}
}

// Contains reports whether d is one of this shape's dims.
func (dm Dimensions) Contains(d Dim) bool {
	_, err := dm.Index(d)
	return err == nil
}

// ContainsAll reports whether every dim of other is present in dm with
// an equal extent (bin-edge mismatches are NOT tolerated here; this is
// the strict subset test used by Transform's alignment check).
func (dm Dimensions) ContainsAll(other Dimensions) bool {
	for _, e := range other.entries {
		idx, err := dm.Index(e.d)
		if err != nil {
			return false
		}
		if dm.entries[idx].extent != e.extent {
			return false
		}
	}
	return true
}

// IsContiguousIn reports whether dm's dims appear in larger as a
// contiguous innermost suffix with matching extents, in the same
// relative order.
func (dm Dimensions) IsContiguousIn(larger Dimensions) bool {
	n, m := len(dm.entries), len(larger.entries)
	if n > m {
		return false
	}
	offset := m - n
	for i := 0; i < n; i++ {
		le := larger.entries[offset+i]
		de := dm.entries[i]
		if le.d != de.d || le.extent != de.extent {
			return false
		}
	}
	return true
}

// BinEdgeCompatible reports whether dm and other are compatible along d
// under the bin-edge rule: equal extents, or extents differing by
// exactly one. edge reports which side (if either) is the edge side:
// +1 if dm is the edge side (dm's extent is other's + 1), -1 if other
// is the edge side, 0 if the extents are equal.
func BinEdgeCompatible(dm, other Dimensions, d Dim) (edge int, err error) {
	a, err := dm.Extent(d)
	if err != nil {
		return 0, err
	}
	b, err := other.Extent(d)
	if err != nil {
		return 0, err
	}
	switch a - b {
	case 0:
		return 0, nil
	case 1:
		return 1, nil
	case -1:
		return -1, nil
	default:
		return 0, &errs.DimensionError{Op: "dim.BinEdgeCompatible", Dim: d.String(), Detail: "extents differ by more than one"}
	}
}

// SetExtent returns a copy of dm with d's extent replaced by extent,
// preserving d's position. Used by range/point slicing to shrink (or,
// for a point slice via Erase, remove) a dimension without disturbing
// the others.
func (dm Dimensions) SetExtent(d Dim, extent int) (Dimensions, error) {
	idx, err := dm.Index(d)
	if err != nil {
		return Dimensions{}, err
	}
	out := make([]entry, len(dm.entries))
	copy(out, dm.entries)
	out[idx].extent = extent
	return Dimensions{entries: out}, nil
}

// Equal reports whether two shapes have identical dims, in the same
// order, with identical extents.
func (dm Dimensions) Equal(other Dimensions) bool {
	if len(dm.entries) != len(other.entries) {
		return false
	}
	for i := range dm.entries {
		if dm.entries[i] != other.entries[i] {
			return false
		}
	}
	return true
}

// Union returns the dims of dm and other combined, ordered by leftmost
// appearance across dm then other, failing with DimensionError if a
// shared dim has conflicting (non-bin-edge-compatible) extents.
func Union(a, b Dimensions) (Dimensions, error) {
	out := a
	for _, e := range b.entries {
		idx, err := out.Index(e.d)
		if err != nil {
			out, err = out.Add(e.d, e.extent)
			if err != nil {
				return Dimensions{}, err
			}
			continue
		}
		if out.entries[idx].extent != e.extent {
			if _, err := BinEdgeCompatible(out, b, e.d); err != nil {
				return Dimensions{}, &errs.DimensionError{Op: "dim.Union", Dim: e.d.String(), Detail: "conflicting extents"}
			}
		}
	}
	return out, nil
}
