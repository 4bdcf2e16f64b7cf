package variable

import "github.com/dtasev/scipp-go/errs"

// BoolTransformInPlace is bool's version of TransformInPlace: it applies
// a user-supplied boolean binary operator element-wise, following the
// same alignment and aliasing steps as TransformInPlace but with no
// variance fork (bool is a scalar element type but carries no variance;
// see DESIGN.md for why it is excluded from uncertainty.Numeric).
// AndInPlace, OrInPlace and XorInPlace are its built-in-operator
// wrappers; a caller with a custom boolean kernel calls this directly.
func BoolTransformInPlace(a, b *Variable, opName string, op func(x, y bool) bool) error {
	if a.ElemType() != TypeBool || b.ElemType() != TypeBool {
		return &errs.TypeError{Op: opName, Got: b.ElemType().String(), Expected: []string{"bool"}}
	}
	if err := checkAlignment(a, b); err != nil {
		return err
	}
	b, err := aliasedCopy(a, b)
	if err != nil {
		return err
	}
	aVals, err := Values[bool](a)
	if err != nil {
		return err
	}
	bVals, err := Values[bool](b)
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
		aVals[lo] = op(aVals[lo], bVals[ro])
	}
	return nil
}

// AndInPlace implements a &= b element-wise on bool Variables.
func AndInPlace(a, b *Variable) error {
	return BoolTransformInPlace(a, b, "variable.AndInPlace", func(x, y bool) bool { return x && y })
}

// OrInPlace implements a |= b element-wise on bool Variables.
func OrInPlace(a, b *Variable) error {
	return BoolTransformInPlace(a, b, "variable.OrInPlace", func(x, y bool) bool { return x || y })
}

// XorInPlace implements a ^= b element-wise on bool Variables.
func XorInPlace(a, b *Variable) error {
	return BoolTransformInPlace(a, b, "variable.XorInPlace", func(x, y bool) bool { return x != y })
}

// Not implements unary !a element-wise in place on a bool Variable.
func Not(a *Variable) error {
	const op = "variable.Not"
	if a.ElemType() != TypeBool {
		return &errs.TypeError{Op: op, Got: a.ElemType().String(), Expected: []string{"bool"}}
	}
	vals, err := Values[bool](a)
	if err != nil {
		return err
	}
	it := a.DataView().Iterate()
	for {
		off, ok := it.Next()
		if !ok {
			break
		}
		vals[off] = !vals[off]
	}
	return nil
}
