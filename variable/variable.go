// Package variable implements Variable, the typed buffer + labeled
// shape + optional variances + unit that is the central object of the
// engine, together with the transform driver (component E of the
// specification) that every arithmetic operator on Variable is built
// from.
//
// The transform driver lives in this package rather than a separate
// one because it needs direct access to a Variable's buffer and view
// internals; package transform (which depends on this one) builds the
// free-function surface (sum, mean, norm, dot, concatenate, sqrt, abs,
// acos) and its configuration options on top of the primitives exported
// here.
package variable

import (
	"github.com/dtasev/scipp-go/dim"
	"github.com/dtasev/scipp-go/errs"
	"github.com/dtasev/scipp-go/internal/unit"
	"github.com/dtasev/scipp-go/view"
)

// Variable is a typed buffer paired with a named-dimension shape,
// optional per-element variance, and a physical unit.
//
// strides holds the physical, row-major stride of every dim ever part of
// this Variable's storage shape, computed once at construction time and
// never recomputed. Slicing shrinks or removes entries from dims/
// storageDims but leaves strides untouched (an entry for an erased dim
// simply goes unused); this is what lets repeated slicing/transposing
// compose correctly instead of silently corrupting the stride of a dim
// outer to whichever one was last sliced. offset accumulates the flat
// index shift contributed by every point/range slice applied so far.
// Values and variances always share one shape and are sliced in lockstep,
// so they share strides and offset; they carry distinct BufferIDs because
// they are, physically, two different buffers.
type Variable struct {
	dims        dim.Dimensions
	storageDims dim.Dimensions
	buf         Buffer
	varc        Buffer
	strides     map[dim.Dim]int
	offset      int
	base        view.BufferID
	varBase     view.BufferID
	u           unit.Unit
}

func eraseSparse(dims dim.Dimensions) dim.Dimensions {
	if sd, ok := dims.SparseDim(); ok {
		out, _ := dims.Erase(sd)
		return out
	}
	return dims
}

func physicalStrides(shape dim.Dimensions) map[dim.Dim]int {
	labels := shape.Labels()
	extents := shape.Shape()
	strides := make(map[dim.Dim]int, len(labels))
	acc := 1
	for i := len(labels) - 1; i >= 0; i-- {
		strides[labels[i]] = acc
		e := extents[i]
		if e == dim.SparseExtent {
			e = 1
		}
		acc *= e
	}
	return strides
}

// New constructs a dense Variable from typ/dims/unit/values, validating
// that values has exactly dims.Volume() elements.
func New[T any](typ ElementType, dims dim.Dimensions, u unit.Unit, values []T) (*Variable, error) {
	storageDims := eraseSparse(dims)
	if len(values) != storageDims.Volume() {
		return nil, &errs.DimensionError{Op: "variable.New", Detail: "buffer length does not match dims.volume()"}
	}
	return &Variable{
		dims:        dims,
		storageDims: storageDims,
		buf:         NewDenseBuffer(typ, values),
		strides:     physicalStrides(storageDims),
		base:        view.NewBufferID(),
		u:           u,
	}, nil
}

// NewWithVariances constructs a dense Variable with variances, failing
// with TypeError if typ is not one of the numeric scalar types.
func NewWithVariances[T any](typ ElementType, dims dim.Dimensions, u unit.Unit, values, variances []T) (*Variable, error) {
	if !typ.IsNumericScalar() {
		return nil, &errs.TypeError{Op: "variable.NewWithVariances", Got: typ.String(), Expected: []string{"int32", "int64", "float32", "float64"}}
	}
	v, err := New(typ, dims, u, values)
	if err != nil {
		return nil, err
	}
	if len(variances) != len(values) {
		return nil, &errs.DimensionError{Op: "variable.NewWithVariances", Detail: "variances length does not match values length"}
	}
	v.varc = NewDenseBuffer(typ, variances)
	v.varBase = view.NewBufferID()
	return v, nil
}

// NewSparse constructs a Variable whose innermost dimension is the
// sparse dimension: rows holds one variable-length slab per row, in
// row-major order over the shape's remaining (non-sparse) dims.
func NewSparse[T any](typ ElementType, dims dim.Dimensions, u unit.Unit, rows [][]T) (*Variable, error) {
	if !typ.IsSparse() {
		return nil, &errs.TypeError{Op: "variable.NewSparse", Got: typ.String(), Expected: []string{"sparse<int32>", "sparse<int64>", "sparse<float32>", "sparse<float64>"}}
	}
	if _, ok := dims.SparseDim(); !ok {
		return nil, &errs.DimensionError{Op: "variable.NewSparse", Detail: "dims has no sparse dimension"}
	}
	storageDims := eraseSparse(dims)
	if len(rows) != storageDims.Volume() {
		return nil, &errs.DimensionError{Op: "variable.NewSparse", Detail: "row count does not match dims.volume()"}
	}
	return &Variable{
		dims:        dims,
		storageDims: storageDims,
		buf:         NewDenseBuffer(typ, rows),
		strides:     physicalStrides(storageDims),
		base:        view.NewBufferID(),
		u:           u,
	}, nil
}

// Dims returns the full logical shape, including a sparse marker if
// present.
func (v *Variable) Dims() dim.Dimensions { return v.dims }

// ElemType returns the runtime element-type tag of this Variable's
// buffer.
func (v *Variable) ElemType() ElementType { return v.buf.ElemType() }

// Unit returns the physical unit attached to this Variable.
func (v *Variable) Unit() unit.Unit { return v.u }

// SetUnit replaces the unit; used by transform when an operator (e.g.
// multiplication) combines two operands' units.
func (v *Variable) SetUnit(u unit.Unit) { v.u = u }

// HasVariances reports whether this Variable carries variances.
func (v *Variable) HasVariances() bool { return v.varc != nil }

// Buffer exposes the raw values buffer for use by the transform driver.
func (v *Variable) Buffer() Buffer { return v.buf }

// VarianceBuffer exposes the raw variances buffer (nil if absent) for
// use by the transform driver.
func (v *Variable) VarianceBuffer() Buffer { return v.varc }

// StorageDims returns the shape with the sparse marker erased: this is
// what the values/variances buffers are physically indexed by.
func (v *Variable) StorageDims() dim.Dimensions { return v.storageDims }

// Values returns the raw physical buffer backing v; for a Variable
// produced by Slice or Transpose this is the shared, un-sliced storage,
// not a sub-slice at v's current shape — use ValuesView plus a
// view.Iterator to walk v's own logical elements in general. Fails with
// TypeError if T does not match the Variable's element type.
func Values[T any](v *Variable) ([]T, error) {
	d, ok := v.buf.(*Dense[T])
	if !ok {
		return nil, &errs.TypeError{Op: "variable.Values", Got: v.buf.ElemType().String()}
	}
	return d.Data, nil
}

// Variances returns the raw physical variances buffer, or ok=false if
// the Variable carries none. See Values for the same shared-storage
// caveat.
func Variances[T any](v *Variable) (data []T, ok bool, err error) {
	if v.varc == nil {
		return nil, false, nil
	}
	d, cast := v.varc.(*Dense[T])
	if !cast {
		return nil, false, &errs.TypeError{Op: "variable.Variances", Got: v.varc.ElemType().String()}
	}
	return d.Data, true, nil
}

// DataView returns the StridedView presenting v's values buffer at v's
// own current shape (the identity view).
func (v *Variable) DataView() view.StridedView {
	vv, _ := view.NewFromStrides(v.base, v.offset, v.strides, v.storageDims, v.storageDims)
	return vv
}

// VarianceView mirrors DataView for the variances buffer.
func (v *Variable) VarianceView() (view.StridedView, error) {
	if v.varc == nil {
		return view.StridedView{}, &errs.VariancesError{Op: "variable.VarianceView", Detail: "variable has no variances"}
	}
	vv, _ := view.NewFromStrides(v.varBase, v.offset, v.strides, v.storageDims, v.storageDims)
	return vv, nil
}

// ValuesView constructs a StridedView presenting v's values buffer at
// target: target may equal v's current shape, broadcast extra dims onto
// it, or engage the bin-edge relationship on one dim. Strides come from
// v's physical stride table, so this composes correctly regardless of
// how many prior slices produced v.
func (v *Variable) ValuesView(target dim.Dimensions) (view.StridedView, error) {
	return view.NewFromStrides(v.base, v.offset, v.strides, v.storageDims, target)
}

// VariancesView mirrors ValuesView for the variances buffer.
func (v *Variable) VariancesView(target dim.Dimensions) (view.StridedView, error) {
	if v.varc == nil {
		return view.StridedView{}, &errs.VariancesError{Op: "variable.VariancesView", Detail: "variable has no variances"}
	}
	return view.NewFromStrides(v.varBase, v.offset, v.strides, v.storageDims, target)
}

// sliceOffset returns the physical offset contributed by fixing d at
// position i, using v's own stride table.
func (v *Variable) sliceOffset(d dim.Dim, i int) (int, error) {
	stride, ok := v.strides[d]
	if !ok {
		return 0, &errs.DimensionError{Op: "variable.Slice", Dim: d.String(), Detail: "not a dimension of this variable"}
	}
	return v.offset + i*stride, nil
}

// Slice returns a rank-reducing point slice along d at index i: d is
// removed from the result's shape entirely. Fails with SliceError if i
// is out of range.
func (v *Variable) Slice(d dim.Dim, i int) (*Variable, error) {
	extent, err := v.storageDims.Extent(d)
	if err != nil {
		return nil, &errs.DimensionError{Op: "variable.Slice", Dim: d.String(), Detail: "not a dimension of this variable"}
	}
	if i < 0 || i >= extent {
		return nil, &errs.SliceError{Op: "variable.Slice", Dim: d.String(), Lo: i, Hi: i + 1, Extent: extent}
	}
	newOffset, err := v.sliceOffset(d, i)
	if err != nil {
		return nil, err
	}
	newStorage, err := v.storageDims.Erase(d)
	if err != nil {
		return nil, err
	}
	newDims, err := v.dims.Erase(d)
	if err != nil {
		return nil, err
	}
	return v.derive(newDims, newStorage, newOffset), nil
}

// SliceRange returns a range slice along d covering [lo, hi): d's extent
// shrinks to hi-lo but the dimension itself is preserved (rank-preserving,
// unlike Slice). Fails with SliceError if the range is out of bounds or
// empty-inverted.
func (v *Variable) SliceRange(d dim.Dim, lo, hi int) (*Variable, error) {
	extent, err := v.storageDims.Extent(d)
	if err != nil {
		return nil, &errs.DimensionError{Op: "variable.SliceRange", Dim: d.String(), Detail: "not a dimension of this variable"}
	}
	if lo < 0 || hi > extent || lo > hi {
		return nil, &errs.SliceError{Op: "variable.SliceRange", Dim: d.String(), Lo: lo, Hi: hi, Extent: extent}
	}
	newOffset, err := v.sliceOffset(d, lo)
	if err != nil {
		return nil, err
	}
	newStorage, err := v.storageDims.SetExtent(d, hi-lo)
	if err != nil {
		return nil, err
	}
	newDims := newStorage
	if sd, ok := v.dims.SparseDim(); ok {
		newDims, _ = newStorage.Add(sd, dim.SparseExtent)
	}
	return v.derive(newDims, newStorage, newOffset), nil
}

// Transpose returns a Variable presenting the same storage with its dims
// permuted into order (which must include every dim v.Dims() has,
// including the sparse dim if present, and must keep it innermost). No
// data moves; only the label order and stride lookup order change.
func (v *Variable) Transpose(order []dim.Dim) (*Variable, error) {
	newDims, err := v.dims.Transpose(order)
	if err != nil {
		return nil, err
	}
	newStorage := eraseSparse(newDims)
	return v.derive(newDims, newStorage, v.offset), nil
}

// derive builds a new Variable sharing v's buffers, strides and base
// identities, with a new logical shape and offset.
func (v *Variable) derive(dims, storageDims dim.Dimensions, offset int) *Variable {
	return &Variable{
		dims:        dims,
		storageDims: storageDims,
		buf:         v.buf,
		varc:        v.varc,
		strides:     v.strides,
		offset:      offset,
		base:        v.base,
		varBase:     v.varBase,
		u:           v.u,
	}
}

// CopyT returns a deep copy of v, materialized at v's own current shape:
// a fresh, contiguous buffer holding exactly v's logical elements in
// row-major order, with new buffer identities. Unlike Slice/Transpose,
// the result never aliases v's storage.
func (v *Variable) CopyT() (*Variable, error) {
	dv := v.DataView()
	newBuf, err := materialize(v.buf, dv)
	if err != nil {
		return nil, err
	}
	out := &Variable{
		dims:        v.dims,
		storageDims: v.storageDims,
		buf:         newBuf,
		strides:     physicalStrides(v.storageDims),
		base:        view.NewBufferID(),
		u:           v.u,
	}
	if v.varc != nil {
		vv, _ := v.VarianceView()
		newVar, err := materialize(v.varc, vv)
		if err != nil {
			return nil, err
		}
		out.varc = newVar
		out.varBase = view.NewBufferID()
	}
	return out, nil
}
