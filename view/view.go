// Package view implements StridedView, the single non-owning mechanism
// through which Variable slicing, broadcasting, transposition and
// collapsing are realized. A StridedView never copies the underlying
// buffer: it describes how to walk it as if it had a different
// (target) shape than the one it was actually allocated with (its data
// shape).
//
// The stride-computation approach here is grounded in the row-major
// ComputeStrides technique used across the tensor-shaped reference code
// in this project's retrieval pack (flat buffer + per-axis stride,
// innermost axis stride 1); StridedView generalizes it with collapsing,
// broadcasting and the bin-edge accessor the specification requires.
package view

import (
	"github.com/dtasev/scipp-go/dim"
	"github.com/dtasev/scipp-go/errs"
)

// BufferID is a stable identity handle for the buffer a StridedView
// borrows from. Two views alias the same storage iff their BufferID
// values are the same pointer. A language with raw pointers would use
// the buffer's address directly; this is the pointer-free equivalent
// called for in the design notes.
type BufferID = *int

// NewBufferID allocates a fresh, distinct identity handle.
func NewBufferID() BufferID {
	id := 0
	return &id
}

// StridedView is a non-owning descriptor (base identity, offset,
// data shape, target shape, per-target-dim stride) that yields elements
// as if the underlying buffer had the target shape.
type StridedView struct {
	base   BufferID
	offset int
	data   dim.Dimensions
	target dim.Dimensions
	stride []int // one entry per target.Labels(), row-major over target
	edge   dim.Dim
	hasEdge bool
}

// dataStrides computes the row-major stride of each label in shape,
// treating the sparse marker (if present) as contributing a factor of 1
// to its own axis (its row length lives outside Dimensions).
func dataStrides(shape dim.Dimensions) map[dim.Dim]int {
	labels := shape.Labels()
	extents := shape.Shape()
	n := len(labels)
	strides := make(map[dim.Dim]int, n)
	acc := 1
	for i := n - 1; i >= 0; i-- {
		strides[labels[i]] = acc
		e := extents[i]
		if e == dim.SparseExtent {
			e = 1
		}
		acc *= e
	}
	return strides
}

// New constructs a StridedView over the buffer identified by base,
// starting at offset (in elements), presenting data as target.
//
// Validation, performed eagerly:
//   - every Dim of data must appear in target with the same extent, or
//     (bin-edge) target[d] == data[d]-1;
//   - Dims missing from target are collapsed (the caller is responsible
//     for having folded their fixed index into offset already);
//   - Dims present in target but absent from data are broadcasts
//     (stride 0);
//   - at most one Dim may be in the bin-edge relationship.
func New(base BufferID, offset int, data, target dim.Dimensions) (StridedView, error) {
	ds := dataStrides(data)
	v := StridedView{base: base, offset: offset, data: data, target: target}

	for _, d := range data.Labels() {
		if !target.Contains(d) {
			continue // collapsed: caller already folded the fixed index into offset
		}
		dataExt, _ := data.Extent(d)
		targetExt, _ := target.Extent(d)
		switch {
		case dataExt == targetExt:
			// exact match, no edge relationship
		case targetExt == dataExt-1:
			if v.hasEdge {
				return StridedView{}, &errs.DimensionError{Op: "view.New", Dim: d.String(), Detail: "at most one bin-edge dim is permitted per view"}
			}
			v.hasEdge = true
			v.edge = d
		default:
			return StridedView{}, &errs.DimensionError{Op: "view.New", Dim: d.String(), Detail: "extent mismatch is not bin-edge compatible"}
		}
	}

	v.stride = make([]int, target.Ndim())
	for i, d := range target.Labels() {
		if s, ok := ds[d]; ok {
			v.stride[i] = s
		} else {
			v.stride[i] = 0 // broadcast: extra target dim not in data
		}
	}
	return v, nil
}

// NewFromStrides constructs a StridedView the same way New does, except
// the per-dim stride comes from a caller-supplied physical stride table
// rather than being recomputed from a data shape. This is what lets a
// Variable compose repeated slices/transposes/broadcasts correctly: once
// a dim has been range- or point-sliced its extent shrinks, so recomputing
// strides fresh from the shrunken shape would silently corrupt the stride
// of any dim outer to it. Variable computes the table once, from its
// original (unsliced) storage shape, and reuses it for the lifetime of
// every view derived from that storage.
//
// current is the shape to validate target against (the Variable's
// present logical shape); strides supplies the physical stride for every
// dim current knows about. A dim present in target but absent from
// current is treated as a broadcast (stride 0), even if strides still
// holds an entry for it from before it was sliced away.
func NewFromStrides(base BufferID, offset int, strides map[dim.Dim]int, current, target dim.Dimensions) (StridedView, error) {
	v := StridedView{base: base, offset: offset, data: current, target: target}
	for _, d := range current.Labels() {
		if !target.Contains(d) {
			continue
		}
		dataExt, _ := current.Extent(d)
		targetExt, _ := target.Extent(d)
		switch {
		case dataExt == targetExt:
		case targetExt == dataExt-1:
			if v.hasEdge {
				return StridedView{}, &errs.DimensionError{Op: "view.NewFromStrides", Dim: d.String(), Detail: "at most one bin-edge dim is permitted per view"}
			}
			v.hasEdge = true
			v.edge = d
		default:
			return StridedView{}, &errs.DimensionError{Op: "view.NewFromStrides", Dim: d.String(), Detail: "extent mismatch is not bin-edge compatible"}
		}
	}
	v.stride = make([]int, target.Ndim())
	for i, d := range target.Labels() {
		if s, ok := strides[d]; ok && current.Contains(d) {
			v.stride[i] = s
		} else {
			v.stride[i] = 0
		}
	}
	return v, nil
}

// StrideTable returns the physical stride this view uses for each of its
// target dims, suitable for passing to NewFromStrides when deriving a
// further view over the same storage.
func (v StridedView) StrideTable() map[dim.Dim]int {
	out := make(map[dim.Dim]int, len(v.stride))
	for i, d := range v.target.Labels() {
		out[d] = v.stride[i]
	}
	return out
}

// Dims returns the shape this view presents to iterators.
func (v StridedView) Dims() dim.Dimensions { return v.target }

// Base returns the identity handle of the buffer this view borrows.
func (v StridedView) Base() BufferID { return v.base }

// Len returns the number of elements this view iterates, i.e.
// Dims().Volume().
func (v StridedView) Len() int { return v.target.Volume() }

// EdgeDim returns the Dim in the bin-edge relationship and true, or
// dim.Invalid and false if this view has none.
func (v StridedView) EdgeDim() (dim.Dim, bool) { return v.edge, v.hasEdge }

// Offset computes the flat buffer offset for a coordinate vector given
// in the same order as Dims().Labels().
func (v StridedView) Offset(coords []int) (int, error) {
	if len(coords) != len(v.stride) {
		return 0, &errs.DimensionError{Op: "StridedView.Offset", Detail: "coordinate rank mismatch"}
	}
	off := v.offset
	for i, c := range coords {
		off += c * v.stride[i]
	}
	return off, nil
}

// Iterator walks a StridedView in row-major order, outer-to-inner over
// its target dims, yielding the flat buffer offset for each position.
type Iterator struct {
	v      StridedView
	coords []int
	extents []int
	done   bool
	first  bool
}

// Iterate returns a fresh Iterator over v, positioned before the first
// element.
func (v StridedView) Iterate() *Iterator {
	extents := v.target.Shape()
	return &Iterator{v: v, coords: make([]int, len(extents)), extents: extents, first: true, done: v.Len() == 0}
}

// Next advances the iterator and returns the buffer offset for the new
// position, or ok=false once iteration is exhausted. No partial
// iteration state is exposed after ok is false.
func (it *Iterator) Next() (offset int, ok bool) {
	if it.done {
		return 0, false
	}
	if it.first {
		it.first = false
		off, _ := it.v.Offset(it.coords)
		return off, true
	}
	// Increment innermost-first, carrying outward (row-major).
	for i := len(it.coords) - 1; i >= 0; i-- {
		it.coords[i]++
		if it.coords[i] < it.extents[i] {
			off, _ := it.v.Offset(it.coords)
			return off, true
		}
		it.coords[i] = 0
	}
	it.done = true
	return 0, false
}

// Coords returns a copy of the iterator's current target coordinate
// vector (valid only after a call to Next that returned ok=true).
func (it *Iterator) Coords() []int {
	out := make([]int, len(it.coords))
	copy(out, it.coords)
	return out
}

// Reshape returns a new StridedView re-presenting v's underlying buffer
// at a different target shape (a "sub-view"): it composes the same base
// and the offset already carried by v, so it must satisfy the same
// construction rules relative to v's *data* shape, not v's target
// shape, because the sub-view describes the same physical storage.
func (v StridedView) Reshape(newTarget dim.Dimensions) (StridedView, error) {
	return New(v.base, v.offset, v.data, newTarget)
}

// bufferRange returns [min,max] flat offsets touched by iterating all
// of v's positions (inclusive), used by Overlaps.
func (v StridedView) bufferRange() (lo, hi int) {
	lo, hi = v.offset, v.offset
	extents := v.target.Shape()
	for i, s := range v.stride {
		e := extents[i]
		if e <= 0 || s == 0 {
			continue
		}
		reach := s * (e - 1)
		if reach > 0 {
			hi += reach
		} else {
			lo += reach
		}
	}
	return lo, hi
}

// Overlaps reports whether v and other borrow the same buffer and their
// touched index ranges intersect. This is a conservative approximation
// (a bounding-box test, not exact element-by-element intersection),
// matching the aliasing test used by transform to decide whether to
// copy an operand before iterating; false positives only cost an extra
// defensive copy, they never cause incorrect results.
func (v StridedView) Overlaps(other StridedView) bool {
	if v.base != other.base {
		return false
	}
	aLo, aHi := v.bufferRange()
	bLo, bHi := other.bufferRange()
	return aLo <= bHi && bLo <= aHi
}
