package variable

import (
	"math"

	"github.com/dtasev/scipp-go/errs"
	"github.com/dtasev/scipp-go/uncertainty"
)

// checkAlignment implements step 2 of the transform dispatch algorithm
// for the in-place two-operand form: rhs must be a subset of lhs's
// storage shape (broadcast across the extra lhs dims).
func checkAlignment(a, b *Variable) error {
	if !a.storageDims.ContainsAll(b.storageDims) {
		return &errs.DimensionError{Op: "variable.transform", Detail: "rhs dims are not a subset of lhs dims"}
	}
	return nil
}

// aliasedCopy implements step 3: if a and b's data views share a buffer
// and their touched ranges overlap, return a defensive deep copy of b
// instead of b itself.
func aliasedCopy(a, b *Variable) (*Variable, error) {
	bv, err := b.ValuesView(a.storageDims)
	if err != nil {
		return nil, err
	}
	if a.DataView().Overlaps(bv) {
		return b.CopyT()
	}
	return b, nil
}

// TransformInPlace is the exported visit function behind every built-in
// binary operator (AddInPlace and its siblings all forward to it): it
// implements steps 2-4 of the dispatch algorithm for one concrete
// numeric scalar type T — alignment, aliasing, and the variance fork —
// then writes valOp's (or, element-by-element, pairOp's) result back
// into a's buffer. A caller supplies its own kernel here to run a custom
// element-wise operator over any T satisfying uncertainty.Numeric,
// exactly as AddInPlace does for `+`.
//
// scalarOp is used instead of pairOp whenever b carries no variances:
// it is the closed-form scalar-operand propagation law (e.g.
// uncertainty.MulScalar for `*`) rather than pairOp with a variance of
// zero plugged in, so the scalar path never runs the general two-operand
// formula in a case it doesn't need to.
func TransformInPlace[T uncertainty.Numeric](a, b *Variable, opName string,
	valOp func(x, y T) T,
	pairOp func(x, y uncertainty.Pair[T]) uncertainty.Pair[T],
	scalarOp func(x uncertainty.Pair[T], y T) uncertainty.Pair[T],
) error {
	if err := checkAlignment(a, b); err != nil {
		return err
	}
	b, err := aliasedCopy(a, b)
	if err != nil {
		return err
	}
	if b.HasVariances() && !a.HasVariances() {
		return &errs.VariancesError{Op: opName, Detail: "rhs carries variances but lhs does not"}
	}

	aVals, err := Values[T](a)
	if err != nil {
		return err
	}
	bVals, err := Values[T](b)
	if err != nil {
		return err
	}
	rhsView, err := b.ValuesView(a.storageDims)
	if err != nil {
		return err
	}
	lhsView := a.DataView()

	if !a.HasVariances() {
		lit, rit := lhsView.Iterate(), rhsView.Iterate()
		for {
			lo, ok := lit.Next()
			if !ok {
				break
			}
			ro, _ := rit.Next()
			aVals[lo] = valOp(aVals[lo], bVals[ro])
		}
		return nil
	}

	aVar, _, err := Variances[T](a)
	if err != nil {
		return err
	}

	if !b.HasVariances() {
		lit, rit := lhsView.Iterate(), rhsView.Iterate()
		for {
			lo, ok := lit.Next()
			if !ok {
				break
			}
			ro, _ := rit.Next()
			p := scalarOp(uncertainty.Pair[T]{Value: aVals[lo], Variance: aVar[lo]}, bVals[ro])
			aVals[lo] = p.Value
			aVar[lo] = p.Variance
		}
		return nil
	}

	bVar, _, err := Variances[T](b)
	if err != nil {
		return err
	}
	rhsVarView, err := b.VariancesView(a.storageDims)
	if err != nil {
		return err
	}
	rvit := rhsVarView.Iterate()

	lit, rit := lhsView.Iterate(), rhsView.Iterate()
	for {
		lo, ok := lit.Next()
		if !ok {
			break
		}
		ro, _ := rit.Next()
		vo, _ := rvit.Next()
		p := pairOp(
			uncertainty.Pair[T]{Value: aVals[lo], Variance: aVar[lo]},
			uncertainty.Pair[T]{Value: bVals[ro], Variance: bVar[vo]},
		)
		aVals[lo] = p.Value
		aVar[lo] = p.Variance
	}
	return nil
}

// Transform is TransformInPlace's non-mutating counterpart: it copies a,
// applies the kernel to the copy, and returns the copy, leaving a
// untouched (the transform<Ts...>, as opposed to transform_in_place<Ts...>,
// form named in the binding surface).
func Transform[T uncertainty.Numeric](a, b *Variable, opName string,
	valOp func(x, y T) T,
	pairOp func(x, y uncertainty.Pair[T]) uncertainty.Pair[T],
	scalarOp func(x uncertainty.Pair[T], y T) uncertainty.Pair[T],
) (*Variable, error) {
	out, err := a.CopyT()
	if err != nil {
		return nil, err
	}
	if err := TransformInPlace(out, b, opName, valOp, pairOp, scalarOp); err != nil {
		return nil, err
	}
	return out, nil
}

// binarySparseInPlace implements step 5 (the sparse fork): it zips rows
// across a and b at aligned positions and applies valOp element-wise
// inside each row, the recursion the design notes describe as "the
// transform recursion descend[ing] once". Row length mismatches fail
// with ShapeError. Sparse element types are excluded from
// IsNumericScalar, so there is no variance path here.
func binarySparseInPlace[T uncertainty.Numeric](a, b *Variable, opName string, valOp func(x, y T) T) error {
	if err := checkAlignment(a, b); err != nil {
		return err
	}
	b, err := aliasedCopy(a, b)
	if err != nil {
		return err
	}
	aRows, err := Values[[]T](a)
	if err != nil {
		return err
	}
	bRows, err := Values[[]T](b)
	if err != nil {
		return err
	}
	rhsView, err := b.ValuesView(a.storageDims)
	if err != nil {
		return err
	}
	lhsView := a.DataView()
	lit, rit := lhsView.Iterate(), rhsView.Iterate()
	for {
		lo, ok := lit.Next()
		if !ok {
			break
		}
		ro, _ := rit.Next()
		lrow, rrow := aRows[lo], bRows[ro]
		if len(lrow) != len(rrow) {
			return &errs.ShapeError{Op: opName, Want: len(lrow), Got: len(rrow)}
		}
		for i := range lrow {
			lrow[i] = valOp(lrow[i], rrow[i])
		}
	}
	return nil
}

// Dispatch is the exported form of step 1 of the dispatch algorithm: it
// resolves a and b's concrete element type and routes to the dense
// (TransformInPlace) or sparse (binarySparseInPlace) kernel for it,
// picking the right one of the four per-type function sets the caller
// supplies. AddInPlace and its siblings are thin wrappers around this
// that plug in the built-in operator; a caller with its own op over the
// same closed numeric type list calls Dispatch directly instead of
// switching on ElemType by hand.
func Dispatch(a, b *Variable, opName string,
	f64 func(x, y float64) float64, f32 func(x, y float32) float32, i64 func(x, y int64) int64, i32 func(x, y int32) int32,
	pf64 func(x, y uncertainty.Pair[float64]) uncertainty.Pair[float64],
	pf32 func(x, y uncertainty.Pair[float32]) uncertainty.Pair[float32],
	pi64 func(x, y uncertainty.Pair[int64]) uncertainty.Pair[int64],
	pi32 func(x, y uncertainty.Pair[int32]) uncertainty.Pair[int32],
	sf64 func(x uncertainty.Pair[float64], y float64) uncertainty.Pair[float64],
	sf32 func(x uncertainty.Pair[float32], y float32) uncertainty.Pair[float32],
	si64 func(x uncertainty.Pair[int64], y int64) uncertainty.Pair[int64],
	si32 func(x uncertainty.Pair[int32], y int32) uncertainty.Pair[int32],
) error {
	if a.ElemType() != b.ElemType() {
		return &errs.TypeError{Op: opName, Got: b.ElemType().String(), Expected: []string{a.ElemType().String()}}
	}
	switch a.ElemType() {
	case TypeFloat64:
		return TransformInPlace(a, b, opName, f64, pf64, sf64)
	case TypeFloat32:
		return TransformInPlace(a, b, opName, f32, pf32, sf32)
	case TypeInt64:
		return TransformInPlace(a, b, opName, i64, pi64, si64)
	case TypeInt32:
		return TransformInPlace(a, b, opName, i32, pi32, si32)
	case TypeSparseFloat64:
		return binarySparseInPlace(a, b, opName, f64)
	case TypeSparseFloat32:
		return binarySparseInPlace(a, b, opName, f32)
	case TypeSparseInt64:
		return binarySparseInPlace(a, b, opName, i64)
	case TypeSparseInt32:
		return binarySparseInPlace(a, b, opName, i32)
	default:
		return &errs.TypeError{Op: opName, Got: a.ElemType().String(), Expected: []string{"int32", "int64", "float32", "float64", "sparse<int32>", "sparse<int64>", "sparse<float32>", "sparse<float64>"}}
	}
}

func unitError(op string, a, b *Variable, err error) error {
	if err == nil {
		return nil
	}
	return &errs.UnitError{Op: op, LHS: a.Unit().String(), RHS: b.Unit().String()}
}

// AddInPlace implements a += b: values add, variances add, units must
// already agree (addition never changes a unit).
func AddInPlace(a, b *Variable) error {
	const op = "variable.AddInPlace"
	if _, err := a.Unit().Add(b.Unit()); err != nil {
		return unitError(op, a, b, err)
	}
	return Dispatch(a, b, op,
		func(x, y float64) float64 { return x + y },
		func(x, y float32) float32 { return x + y },
		func(x, y int64) int64 { return x + y },
		func(x, y int32) int32 { return x + y },
		uncertainty.Add[float64], uncertainty.Add[float32], uncertainty.Add[int64], uncertainty.Add[int32],
		uncertainty.AddScalar[float64], uncertainty.AddScalar[float32], uncertainty.AddScalar[int64], uncertainty.AddScalar[int32],
	)
}

// SubInPlace implements a -= b.
func SubInPlace(a, b *Variable) error {
	const op = "variable.SubInPlace"
	if _, err := a.Unit().Sub(b.Unit()); err != nil {
		return unitError(op, a, b, err)
	}
	return Dispatch(a, b, op,
		func(x, y float64) float64 { return x - y },
		func(x, y float32) float32 { return x - y },
		func(x, y int64) int64 { return x - y },
		func(x, y int32) int32 { return x - y },
		uncertainty.Sub[float64], uncertainty.Sub[float32], uncertainty.Sub[int64], uncertainty.Sub[int32],
		uncertainty.SubScalar[float64], uncertainty.SubScalar[float32], uncertainty.SubScalar[int64], uncertainty.SubScalar[int32],
	)
}

// MulInPlace implements a *= b: the result unit is a's unit times b's.
func MulInPlace(a, b *Variable) error {
	const op = "variable.MulInPlace"
	newUnit := a.Unit().Mul(b.Unit())
	if err := Dispatch(a, b, op,
		func(x, y float64) float64 { return x * y },
		func(x, y float32) float32 { return x * y },
		func(x, y int64) int64 { return x * y },
		func(x, y int32) int32 { return x * y },
		uncertainty.Mul[float64], uncertainty.Mul[float32], uncertainty.Mul[int64], uncertainty.Mul[int32],
		uncertainty.MulScalar[float64], uncertainty.MulScalar[float32], uncertainty.MulScalar[int64], uncertainty.MulScalar[int32],
	); err != nil {
		return err
	}
	a.SetUnit(newUnit)
	return nil
}

// DivInPlace implements a /= b: the result unit is a's unit divided by
// b's.
func DivInPlace(a, b *Variable) error {
	const op = "variable.DivInPlace"
	newUnit := a.Unit().Div(b.Unit())
	if err := Dispatch(a, b, op,
		func(x, y float64) float64 { return x / y },
		func(x, y float32) float32 { return x / y },
		func(x, y int64) int64 { return x / y },
		func(x, y int32) int32 { return x / y },
		uncertainty.Div[float64], uncertainty.Div[float32], uncertainty.Div[int64], uncertainty.Div[int32],
		uncertainty.DivScalar[float64], uncertainty.DivScalar[float32], uncertainty.DivScalar[int64], uncertainty.DivScalar[int32],
	); err != nil {
		return err
	}
	a.SetUnit(newUnit)
	return nil
}

// TransformUnaryInPlace is the exported single-operand counterpart of
// TransformInPlace: it applies a user-supplied valOp/pairOp to every
// element of a in place. Negate, SqrtInPlace and AbsInPlace are its
// built-in-operator wrappers.
func TransformUnaryInPlace[T uncertainty.Numeric](a *Variable, opName string, valOp func(x T) T, pairOp func(x uncertainty.Pair[T]) uncertainty.Pair[T]) error {
	vals, err := Values[T](a)
	if err != nil {
		return err
	}
	it := a.DataView().Iterate()
	if !a.HasVariances() {
		for {
			off, ok := it.Next()
			if !ok {
				break
			}
			vals[off] = valOp(vals[off])
		}
		return nil
	}
	varc, _, err := Variances[T](a)
	if err != nil {
		return err
	}
	for {
		off, ok := it.Next()
		if !ok {
			break
		}
		p := pairOp(uncertainty.Pair[T]{Value: vals[off], Variance: varc[off]})
		vals[off] = p.Value
		varc[off] = p.Variance
	}
	return nil
}

// TransformUnary is TransformUnaryInPlace's non-mutating counterpart.
func TransformUnary[T uncertainty.Numeric](a *Variable, opName string, valOp func(x T) T, pairOp func(x uncertainty.Pair[T]) uncertainty.Pair[T]) (*Variable, error) {
	out, err := a.CopyT()
	if err != nil {
		return nil, err
	}
	if err := TransformUnaryInPlace(out, opName, valOp, pairOp); err != nil {
		return nil, err
	}
	return out, nil
}

// Negate implements unary -a in place.
func Negate(a *Variable) error {
	const op = "variable.Negate"
	switch a.ElemType() {
	case TypeFloat64:
		return TransformUnaryInPlace(a, op, func(x float64) float64 { return -x }, uncertainty.Neg[float64])
	case TypeFloat32:
		return TransformUnaryInPlace(a, op, func(x float32) float32 { return -x }, uncertainty.Neg[float32])
	case TypeInt64:
		return TransformUnaryInPlace(a, op, func(x int64) int64 { return -x }, uncertainty.Neg[int64])
	case TypeInt32:
		return TransformUnaryInPlace(a, op, func(x int32) int32 { return -x }, uncertainty.Neg[int32])
	default:
		return &errs.TypeError{Op: op, Got: a.ElemType().String(), Expected: []string{"int32", "int64", "float32", "float64"}}
	}
}

// SqrtInPlace implements elementwise sqrt(a) in place.
func SqrtInPlace(a *Variable) error {
	const op = "variable.SqrtInPlace"
	switch a.ElemType() {
	case TypeFloat64:
		return TransformUnaryInPlace(a, op, math.Sqrt, func(p uncertainty.Pair[float64]) uncertainty.Pair[float64] {
			return uncertainty.Sqrt(p, math.Sqrt)
		})
	case TypeFloat32:
		sqrt32 := func(x float32) float32 { return float32(math.Sqrt(float64(x))) }
		return TransformUnaryInPlace(a, op, sqrt32, func(p uncertainty.Pair[float32]) uncertainty.Pair[float32] {
			return uncertainty.Sqrt(p, sqrt32)
		})
	default:
		return &errs.TypeError{Op: op, Got: a.ElemType().String(), Expected: []string{"float32", "float64"}}
	}
}

// AbsInPlace implements elementwise |a| in place.
func AbsInPlace(a *Variable) error {
	const op = "variable.AbsInPlace"
	switch a.ElemType() {
	case TypeFloat64:
		return TransformUnaryInPlace(a, op, math.Abs, func(p uncertainty.Pair[float64]) uncertainty.Pair[float64] {
			return uncertainty.Abs(p, math.Abs)
		})
	case TypeFloat32:
		abs32 := func(x float32) float32 { return float32(math.Abs(float64(x))) }
		return TransformUnaryInPlace(a, op, abs32, func(p uncertainty.Pair[float32]) uncertainty.Pair[float32] {
			return uncertainty.Abs(p, abs32)
		})
	case TypeInt64:
		abs64i := func(x int64) int64 {
			if x < 0 {
				return -x
			}
			return x
		}
		return TransformUnaryInPlace(a, op, abs64i, func(p uncertainty.Pair[int64]) uncertainty.Pair[int64] { return uncertainty.Abs(p, abs64i) })
	case TypeInt32:
		abs32i := func(x int32) int32 {
			if x < 0 {
				return -x
			}
			return x
		}
		return TransformUnaryInPlace(a, op, abs32i, func(p uncertainty.Pair[int32]) uncertainty.Pair[int32] { return uncertainty.Abs(p, abs32i) })
	default:
		return &errs.TypeError{Op: op, Got: a.ElemType().String(), Expected: []string{"int32", "int64", "float32", "float64"}}
	}
}
