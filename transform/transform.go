package transform

import (
	"math"

	"github.com/dtasev/scipp-go/dim"
	"github.com/dtasev/scipp-go/errs"
	"github.com/dtasev/scipp-go/internal/unit"
	"github.com/dtasev/scipp-go/uncertainty"
	"github.com/dtasev/scipp-go/variable"
)

func rowMajorStrides(extents []int) []int {
	n := len(extents)
	strides := make([]int, n)
	acc := 1
	for i := n - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= extents[i]
	}
	return strides
}

func flatten(coords, strides []int) int {
	idx := 0
	for i, c := range coords {
		idx += c * strides[i]
	}
	return idx
}

func dropAndFlatten(coords []int, dropIdx int, outStrides []int) int {
	idx, j := 0, 0
	for i, c := range coords {
		if i == dropIdx {
			continue
		}
		idx += c * outStrides[j]
		j++
	}
	return idx
}

func sumGeneric[T uncertainty.Numeric](v *variable.Variable, d dim.Dim) (*variable.Variable, error) {
	idx, err := v.StorageDims().Index(d)
	if err != nil {
		return nil, err
	}
	outShape, err := v.StorageDims().Erase(d)
	if err != nil {
		return nil, err
	}
	vals, err := variable.Values[T](v)
	if err != nil {
		return nil, err
	}
	outStrides := rowMajorStrides(outShape.Shape())
	outVals := make([]T, outShape.Volume())

	var varsIn, outVars []T
	hasVar := v.HasVariances()
	if hasVar {
		varsIn, _, err = variable.Variances[T](v)
		if err != nil {
			return nil, err
		}
		outVars = make([]T, outShape.Volume())
	}

	it := v.DataView().Iterate()
	for {
		off, ok := it.Next()
		if !ok {
			break
		}
		outIdx := dropAndFlatten(it.Coords(), idx, outStrides)
		outVals[outIdx] += vals[off]
		if hasVar {
			outVars[outIdx] += varsIn[off]
		}
	}
	if hasVar {
		return variable.NewWithVariances(v.ElemType(), outShape, v.Unit(), outVals, outVars)
	}
	return variable.New(v.ElemType(), outShape, v.Unit(), outVals)
}

// Sum reduces v along d, adding values (and, if present, variances,
// since variance addition is exact for a sum of independent quantities)
// across every position along d. The result drops d from its shape.
func Sum(v *variable.Variable, d dim.Dim, opts ...Option) (*variable.Variable, error) {
	o := gather(opts)
	o.logf("transform.Sum: dim=%s elemType=%s", d, v.ElemType())
	switch v.ElemType() {
	case variable.TypeFloat64:
		return sumGeneric[float64](v, d)
	case variable.TypeFloat32:
		return sumGeneric[float32](v, d)
	case variable.TypeInt64:
		return sumGeneric[int64](v, d)
	case variable.TypeInt32:
		return sumGeneric[int32](v, d)
	default:
		return nil, &errs.TypeError{Op: "transform.Sum", Got: v.ElemType().String(), Expected: []string{"int32", "int64", "float32", "float64"}}
	}
}

func scalarOf[T uncertainty.Numeric](typ variable.ElementType, u unit.Unit, value T) (*variable.Variable, error) {
	return variable.New(typ, dim.Scalar(), u, []T{value})
}

// Mean reduces v along d the same way Sum does, then divides the summed
// values by d's extent and the summed variances by its square, via the
// same aliasing-safe
// division path arithmetic uses elsewhere: the divisor is a dimensionless
// broadcast scalar, so ordinary DivInPlace applies unchanged.
func Mean(v *variable.Variable, d dim.Dim, opts ...Option) (*variable.Variable, error) {
	gather(opts).logf("transform.Mean: dim=%s elemType=%s", d, v.ElemType())
	n, err := v.StorageDims().Extent(d)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, &errs.DimensionError{Op: "transform.Mean", Dim: d.String(), Detail: "cannot average an empty dimension"}
	}
	sum, err := Sum(v, d, opts...)
	if err != nil {
		return nil, err
	}
	switch v.ElemType() {
	case variable.TypeFloat64:
		divisor, err := scalarOf(variable.TypeFloat64, unit.Dimensionless, float64(n))
		if err != nil {
			return nil, err
		}
		if err := variable.DivInPlace(sum, divisor); err != nil {
			return nil, err
		}
	case variable.TypeFloat32:
		divisor, err := scalarOf(variable.TypeFloat32, unit.Dimensionless, float32(n))
		if err != nil {
			return nil, err
		}
		if err := variable.DivInPlace(sum, divisor); err != nil {
			return nil, err
		}
	default:
		return nil, &errs.TypeError{Op: "transform.Mean", Got: v.ElemType().String(), Expected: []string{"float32", "float64"}}
	}
	return sum, nil
}

func normGeneric[T ~float32 | ~float64](v *variable.Variable, sqrtFn func(T) T) (T, error) {
	vals, err := variable.Values[T](v)
	if err != nil {
		return 0, err
	}
	var sum T
	it := v.DataView().Iterate()
	for {
		off, ok := it.Next()
		if !ok {
			break
		}
		sum += vals[off] * vals[off]
	}
	return sqrtFn(sum), nil
}

func vectorNormGeneric(v *variable.Variable) ([]float64, error) {
	vals, err := variable.Values[variable.Vector3](v)
	if err != nil {
		return nil, err
	}
	offsets := gatherOffsets(v)
	out := make([]float64, len(offsets))
	for i, off := range offsets {
		x := vals[off]
		out[i] = math.Sqrt(x[0]*x[0] + x[1]*x[1] + x[2]*x[2])
	}
	return out, nil
}

// Norm computes a Euclidean length. Over the scalar numeric types it
// reduces v's entire element stream to a single scalar Variable:
// sqrt(sum(x_i^2)), ignoring shape. Over variable.TypeVector3 it instead
// applies per element: the result is a TypeFloat64 Variable with v's own
// shape, one length per 3-vector. Variance propagation through norm is
// not part of the specification's formula set and is not implemented; a
// variable with variances is accepted but its variances are silently not
// propagated to the result.
func Norm(v *variable.Variable, opts ...Option) (*variable.Variable, error) {
	o := gather(opts)
	o.logf("transform.Norm: elemType=%s volume=%d", v.ElemType(), v.StorageDims().Volume())
	switch v.ElemType() {
	case variable.TypeFloat64:
		n, err := normGeneric[float64](v, math.Sqrt)
		if err != nil {
			return nil, err
		}
		return scalarOf(variable.TypeFloat64, v.Unit(), n)
	case variable.TypeFloat32:
		sqrt32 := func(x float32) float32 { return float32(math.Sqrt(float64(x))) }
		n, err := normGeneric[float32](v, sqrt32)
		if err != nil {
			return nil, err
		}
		return scalarOf(variable.TypeFloat32, v.Unit(), n)
	case variable.TypeVector3:
		out, err := vectorNormGeneric(v)
		if err != nil {
			return nil, err
		}
		return variable.New(variable.TypeFloat64, v.StorageDims(), v.Unit(), out)
	default:
		return nil, &errs.TypeError{Op: "transform.Norm", Got: v.ElemType().String(), Expected: []string{"float32", "float64", "vector3"}}
	}
}

// Normalize scales every Vector3 element of v to unit length, returning a
// new Variable of the same shape and unit. A component whose own norm
// falls at or below the configured epsilon (WithEpsilon, DefaultEpsilon
// otherwise) is left unchanged rather than divided, avoiding a division
// by a (near) zero length.
func Normalize(v *variable.Variable, opts ...Option) (*variable.Variable, error) {
	o := gather(opts)
	o.logf("transform.Normalize: elemType=%s epsilon=%g", v.ElemType(), o.epsilon)
	if v.ElemType() != variable.TypeVector3 {
		return nil, &errs.TypeError{Op: "transform.Normalize", Got: v.ElemType().String(), Expected: []string{"vector3"}}
	}
	vals, err := variable.Values[variable.Vector3](v)
	if err != nil {
		return nil, err
	}
	offsets := gatherOffsets(v)
	out := make([]variable.Vector3, len(offsets))
	for i, off := range offsets {
		x := vals[off]
		n := math.Sqrt(x[0]*x[0] + x[1]*x[1] + x[2]*x[2])
		if n <= o.epsilon {
			out[i] = x
			continue
		}
		out[i] = variable.Vector3{x[0] / n, x[1] / n, x[2] / n}
	}
	return variable.New(variable.TypeVector3, v.StorageDims(), v.Unit(), out)
}

func dotGeneric[T uncertainty.Numeric](a, b *variable.Variable) (T, error) {
	aVals, err := variable.Values[T](a)
	if err != nil {
		return 0, err
	}
	bVals, err := variable.Values[T](b)
	if err != nil {
		return 0, err
	}
	bv, err := b.ValuesView(a.StorageDims())
	if err != nil {
		return 0, err
	}
	ait, bit := a.DataView().Iterate(), bv.Iterate()
	var sum T
	for {
		ao, ok := ait.Next()
		if !ok {
			break
		}
		bo, _ := bit.Next()
		sum += aVals[ao] * bVals[bo]
	}
	return sum, nil
}

func vectorDotGeneric(a, b *variable.Variable) ([]float64, error) {
	aVals, err := variable.Values[variable.Vector3](a)
	if err != nil {
		return nil, err
	}
	bVals, err := variable.Values[variable.Vector3](b)
	if err != nil {
		return nil, err
	}
	bv, err := b.ValuesView(a.StorageDims())
	if err != nil {
		return nil, err
	}
	ait, bit := a.DataView().Iterate(), bv.Iterate()
	out := make([]float64, 0, a.StorageDims().Volume())
	for {
		ao, ok := ait.Next()
		if !ok {
			break
		}
		bo, _ := bit.Next()
		x, y := aVals[ao], bVals[bo]
		out = append(out, x[0]*y[0]+x[1]*y[1]+x[2]*y[2])
	}
	return out, nil
}

// Dot computes an inner product. Over the numeric scalar types it
// reduces a and b (which must have equal, or broadcast-compatible,
// shapes) to a single scalar Variable whose unit is a's unit times b's:
// sum of elementwise products. Over variable.TypeVector3 it instead
// applies per element: the result is a TypeFloat64 Variable with a's
// shape, one 3-vector dot product per pair of elements.
func Dot(a, b *variable.Variable, opts ...Option) (*variable.Variable, error) {
	o := gather(opts)
	o.logf("transform.Dot: elemType=%s aShape=%v bShape=%v", a.ElemType(), a.StorageDims().Shape(), b.StorageDims().Shape())
	if a.ElemType() != b.ElemType() {
		return nil, &errs.TypeError{Op: "transform.Dot", Got: b.ElemType().String(), Expected: []string{a.ElemType().String()}}
	}
	if !a.StorageDims().ContainsAll(b.StorageDims()) {
		return nil, &errs.DimensionError{Op: "transform.Dot", Detail: "operand shapes are not aligned"}
	}
	u := a.Unit().Mul(b.Unit())
	switch a.ElemType() {
	case variable.TypeFloat64:
		s, err := dotGeneric[float64](a, b)
		if err != nil {
			return nil, err
		}
		return scalarOf(variable.TypeFloat64, u, s)
	case variable.TypeFloat32:
		s, err := dotGeneric[float32](a, b)
		if err != nil {
			return nil, err
		}
		return scalarOf(variable.TypeFloat32, u, s)
	case variable.TypeInt64:
		s, err := dotGeneric[int64](a, b)
		if err != nil {
			return nil, err
		}
		return scalarOf(variable.TypeInt64, u, s)
	case variable.TypeInt32:
		s, err := dotGeneric[int32](a, b)
		if err != nil {
			return nil, err
		}
		return scalarOf(variable.TypeInt32, u, s)
	case variable.TypeVector3:
		out, err := vectorDotGeneric(a, b)
		if err != nil {
			return nil, err
		}
		return variable.New(variable.TypeFloat64, a.StorageDims(), u, out)
	default:
		return nil, &errs.TypeError{Op: "transform.Dot", Got: a.ElemType().String(), Expected: []string{"int32", "int64", "float32", "float64", "vector3"}}
	}
}

func concatGeneric[T any](a, b *variable.Variable, d dim.Dim) ([]T, dim.Dimensions, error) {
	aExt, err := a.StorageDims().Extent(d)
	if err != nil {
		return nil, dim.Dimensions{}, err
	}
	bExt, err := b.StorageDims().Extent(d)
	if err != nil {
		return nil, dim.Dimensions{}, err
	}
	outShape, err := a.StorageDims().SetExtent(d, aExt+bExt)
	if err != nil {
		return nil, dim.Dimensions{}, err
	}
	idx, _ := outShape.Index(d)
	outStrides := rowMajorStrides(outShape.Shape())
	extents := outShape.Shape()
	total := outShape.Volume()

	aVals, err := variable.Values[T](a)
	if err != nil {
		return nil, dim.Dimensions{}, err
	}
	bVals, err := variable.Values[T](b)
	if err != nil {
		return nil, dim.Dimensions{}, err
	}
	aView, bView := a.DataView(), b.DataView()

	out := make([]T, total)
	coords := make([]int, outShape.Ndim())
	for i := 0; i < total; i++ {
		if i > 0 {
			for k := len(coords) - 1; k >= 0; k-- {
				coords[k]++
				if coords[k] < extents[k] {
					break
				}
				coords[k] = 0
			}
		}
		outIdx := flatten(coords, outStrides)
		if coords[idx] < aExt {
			off, err := aView.Offset(coords)
			if err != nil {
				return nil, dim.Dimensions{}, err
			}
			out[outIdx] = aVals[off]
		} else {
			bc := append([]int(nil), coords...)
			bc[idx] -= aExt
			off, err := bView.Offset(bc)
			if err != nil {
				return nil, dim.Dimensions{}, err
			}
			out[outIdx] = bVals[off]
		}
	}
	return out, outShape, nil
}

func boundaryEqual[T comparable](a, b *variable.Variable) (bool, error) {
	av, err := variable.Values[T](a)
	if err != nil {
		return false, err
	}
	bv, err := variable.Values[T](b)
	if err != nil {
		return false, err
	}
	ait, bit := a.DataView().Iterate(), b.DataView().Iterate()
	for {
		ao, ok := ait.Next()
		if !ok {
			break
		}
		bo, ok2 := bit.Next()
		if !ok2 {
			return false, nil
		}
		if av[ao] != bv[bo] {
			return false, nil
		}
	}
	return true, nil
}

// dropSharedEdge implements the bin-edge join behavior: when a's last
// slice along d is elementwise identical to b's first slice along d,
// the boundary point is a single shared bin edge counted once by each
// operand's histogram, and concatenation must not duplicate it. It
// reports whether it trimmed b, returning b unchanged (dropped=false)
// whenever the operands are not both numeric, don't align outside d, or
// simply don't share a boundary value.
func dropSharedEdge(a, b *variable.Variable, d dim.Dim, o Options) (trimmed *variable.Variable, dropped bool, err error) {
	aExt, err := a.StorageDims().Extent(d)
	if err != nil {
		return b, false, nil
	}
	bExt, err := b.StorageDims().Extent(d)
	if err != nil {
		return b, false, nil
	}
	if aExt == 0 || bExt <= 1 {
		return b, false, nil
	}
	aLast, err := a.Slice(d, aExt-1)
	if err != nil {
		return b, false, nil
	}
	bFirst, err := b.Slice(d, 0)
	if err != nil {
		return b, false, nil
	}
	if !aLast.StorageDims().Equal(bFirst.StorageDims()) {
		return b, false, nil
	}
	var equal bool
	switch a.ElemType() {
	case variable.TypeFloat64:
		equal, err = boundaryEqual[float64](aLast, bFirst)
	case variable.TypeFloat32:
		equal, err = boundaryEqual[float32](aLast, bFirst)
	case variable.TypeInt64:
		equal, err = boundaryEqual[int64](aLast, bFirst)
	case variable.TypeInt32:
		equal, err = boundaryEqual[int32](aLast, bFirst)
	default:
		return b, false, nil
	}
	if err != nil || !equal {
		return b, false, nil
	}
	rest, err := b.SliceRange(d, 1, bExt)
	if err != nil {
		return b, false, err
	}
	o.logf("transform.Concatenate: dropping duplicated shared edge along %s", d)
	return rest, true, nil
}

// Concatenate joins a and b along d: every other dim must match exactly
// in name, order and extent (a DimensionError otherwise), d's extent
// becomes the sum of the two operands' extents along d, unless
// a's trailing slice along d and b's leading slice along d are
// elementwise identical, in which case that shared boundary is counted
// once rather than twice (the bin-edge join behavior histogram-style
// coordinates need when two adjacent ranges are stitched together). Both
// operands must share an element type and unit. Variances are not
// carried through; a concatenation of variables with variances returns a
// result without them (documented limitation, matching this package's
// treatment of Norm).
func Concatenate(a, b *variable.Variable, d dim.Dim, opts ...Option) (*variable.Variable, error) {
	o := gather(opts)
	o.logf("transform.Concatenate: dim=%s elemType=%s", d, a.ElemType())
	if a.ElemType() != b.ElemType() {
		return nil, &errs.TypeError{Op: "transform.Concatenate", Got: b.ElemType().String(), Expected: []string{a.ElemType().String()}}
	}
	if !a.Unit().Equal(b.Unit()) {
		return nil, &errs.UnitError{Op: "transform.Concatenate", LHS: a.Unit().String(), RHS: b.Unit().String()}
	}
	aRest, err := a.StorageDims().Erase(d)
	if err != nil {
		return nil, err
	}
	bRest, err := b.StorageDims().Erase(d)
	if err != nil {
		return nil, err
	}
	if !aRest.Equal(bRest) {
		return nil, &errs.DimensionError{Op: "transform.Concatenate", Dim: d.String(), Detail: "dims other than the concatenation dim must match exactly, in name, order and extent"}
	}
	trimmed, dropped, err := dropSharedEdge(a, b, d, o)
	if err != nil {
		return nil, err
	}
	if dropped {
		b = trimmed
	}
	switch a.ElemType() {
	case variable.TypeFloat64:
		out, shape, err := concatGeneric[float64](a, b, d)
		if err != nil {
			return nil, err
		}
		return variable.New(a.ElemType(), shape, a.Unit(), out)
	case variable.TypeFloat32:
		out, shape, err := concatGeneric[float32](a, b, d)
		if err != nil {
			return nil, err
		}
		return variable.New(a.ElemType(), shape, a.Unit(), out)
	case variable.TypeInt64:
		out, shape, err := concatGeneric[int64](a, b, d)
		if err != nil {
			return nil, err
		}
		return variable.New(a.ElemType(), shape, a.Unit(), out)
	case variable.TypeInt32:
		out, shape, err := concatGeneric[int32](a, b, d)
		if err != nil {
			return nil, err
		}
		return variable.New(a.ElemType(), shape, a.Unit(), out)
	case variable.TypeBool:
		out, shape, err := concatGeneric[bool](a, b, d)
		if err != nil {
			return nil, err
		}
		return variable.New(a.ElemType(), shape, a.Unit(), out)
	case variable.TypeString:
		out, shape, err := concatGeneric[string](a, b, d)
		if err != nil {
			return nil, err
		}
		return variable.New(a.ElemType(), shape, a.Unit(), out)
	default:
		return nil, &errs.TypeError{Op: "transform.Concatenate", Got: a.ElemType().String(), Expected: []string{"int32", "int64", "float32", "float64", "bool", "string"}}
	}
}

// Sqrt returns a new Variable holding the elementwise square root of v,
// without mutating v (the transform<Ts...>, as opposed to
// transform_in_place<Ts...>, form).
func Sqrt(v *variable.Variable, opts ...Option) (*variable.Variable, error) {
	o := gather(opts)
	o.logf("transform.Sqrt: elemType=%s", v.ElemType())
	out, err := v.CopyT()
	if err != nil {
		return nil, err
	}
	if err := variable.SqrtInPlace(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Abs returns a new Variable holding the elementwise absolute value of
// v, without mutating v.
func Abs(v *variable.Variable, opts ...Option) (*variable.Variable, error) {
	o := gather(opts)
	o.logf("transform.Abs: elemType=%s", v.ElemType())
	out, err := v.CopyT()
	if err != nil {
		return nil, err
	}
	if err := variable.AbsInPlace(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Acos returns a new Variable holding the elementwise arc-cosine of v.
// The specification's uncertainty-propagation formula set covers only
// +, -, *, /, sqrt, abs and unary negation; acos has no defined
// propagation rule, so a variable carrying variances is rejected rather
// than silently dropping them.
func Acos(v *variable.Variable, opts ...Option) (*variable.Variable, error) {
	o := gather(opts)
	o.logf("transform.Acos: elemType=%s parallelism=%d", v.ElemType(), o.parallelism)
	if v.HasVariances() {
		return nil, &errs.UnsupportedError{Op: "transform.Acos", Reason: "variance propagation through acos is not defined"}
	}
	switch v.ElemType() {
	case variable.TypeFloat64:
		vals, err := variable.Values[float64](v)
		if err != nil {
			return nil, err
		}
		offsets := gatherOffsets(v)
		out := make([]float64, len(offsets))
		parallelFor(len(offsets), o.parallelism, func(i int) { out[i] = math.Acos(vals[offsets[i]]) })
		return variable.New(variable.TypeFloat64, v.StorageDims(), v.Unit(), out)
	case variable.TypeFloat32:
		vals, err := variable.Values[float32](v)
		if err != nil {
			return nil, err
		}
		offsets := gatherOffsets(v)
		out := make([]float32, len(offsets))
		parallelFor(len(offsets), o.parallelism, func(i int) { out[i] = float32(math.Acos(float64(vals[offsets[i]]))) })
		return variable.New(variable.TypeFloat32, v.StorageDims(), v.Unit(), out)
	default:
		return nil, &errs.TypeError{Op: "transform.Acos", Got: v.ElemType().String(), Expected: []string{"float32", "float64"}}
	}
}

// gatherOffsets walks v's own data view in row-major order and returns
// the physical buffer offset of every logical element, so a caller
// indexing the raw Values() slice by position (rather than through an
// Iterator) still respects v's own shape even when v is a slice or
// transpose of a larger physical buffer.
func gatherOffsets(v *variable.Variable) []int {
	dv := v.DataView()
	out := make([]int, 0, dv.Len())
	it := dv.Iterate()
	for {
		off, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, off)
	}
	return out
}
