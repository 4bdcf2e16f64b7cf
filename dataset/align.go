package dataset

import (
	"github.com/dtasev/scipp-go/errs"
	"github.com/dtasev/scipp-go/variable"
)

// valuesEqual reports whether a and b, already known to share ElemType
// and StorageDims, hold identical values at every position, walking each
// through its own DataView so a sliced or transposed operand is compared
// correctly.
func valuesEqual[T comparable](a, b *variable.Variable) (bool, error) {
	av, err := variable.Values[T](a)
	if err != nil {
		return false, err
	}
	bv, err := variable.Values[T](b)
	if err != nil {
		return false, err
	}
	ait := a.DataView().Iterate()
	bit := b.DataView().Iterate()
	for {
		ao, ok := ait.Next()
		if !ok {
			break
		}
		bo, _ := bit.Next()
		if av[ao] != bv[bo] {
			return false, nil
		}
	}
	return true, nil
}

// coordsEqual reports whether two coord/label variables are element-wise
// equal, the check the alignment contract runs before letting a binary
// dataset op through. Coords of non-comparable element types (Unit,
// Vector3, Matrix3x3, nested Dataset) cannot be compared this way and
// report UnsupportedError; datasets in this engine bind coords to the
// six comparable element types in practice.
func coordsEqual(a, b *variable.Variable) (bool, error) {
	if a.ElemType() != b.ElemType() {
		return false, nil
	}
	if !a.StorageDims().Equal(b.StorageDims()) {
		return false, nil
	}
	switch a.ElemType() {
	case variable.TypeFloat64:
		return valuesEqual[float64](a, b)
	case variable.TypeFloat32:
		return valuesEqual[float32](a, b)
	case variable.TypeInt64:
		return valuesEqual[int64](a, b)
	case variable.TypeInt32:
		return valuesEqual[int32](a, b)
	case variable.TypeBool:
		return valuesEqual[bool](a, b)
	case variable.TypeString:
		return valuesEqual[string](a, b)
	default:
		return false, &errs.UnsupportedError{Op: "dataset.coordsEqual", Reason: "element type " + a.ElemType().String() + " does not support coord equality comparison"}
	}
}

// alignCoords implements the §4.G alignment contract: for every Dim
// present in both datasets, the coord on that dim (if both have one)
// must be element-wise equal, and so must any label whose inner() binds
// it to that dim. It does not check item names; see checkNames.
func alignCoords(a, b *Dataset) error {
	for _, d := range a.dims.Labels() {
		if !b.dims.Contains(d) {
			continue
		}
		if ac, aok := a.coords[d]; aok {
			if bc, bok := b.coords[d]; bok {
				eq, err := coordsEqual(ac, bc)
				if err != nil {
					return err
				}
				if !eq {
					return &errs.CoordMismatchError{Dim: d.String()}
				}
			}
		}
		for name, al := range a.labels {
			inner, err := al.Dims().Inner()
			if err != nil || inner != d {
				continue
			}
			bl, ok := b.labels[name]
			if !ok {
				continue
			}
			binner, err := bl.Dims().Inner()
			if err != nil || binner != d {
				continue
			}
			eq, err := coordsEqual(al, bl)
			if err != nil {
				return err
			}
			if !eq {
				return &errs.CoordMismatchError{Dim: d.String()}
			}
		}
	}
	return nil
}

// checkNames requires every item name in b to exist in a.
func checkNames(a, b *Dataset, op string) error {
	for _, name := range b.order {
		if _, ok := a.items[name]; !ok {
			return &errs.NameError{Op: op, Name: name}
		}
	}
	return nil
}
