package variable

import (
	"github.com/dtasev/scipp-go/errs"
	"github.com/dtasev/scipp-go/internal/unit"
	"github.com/dtasev/scipp-go/view"
)

// materialize walks it over buf and returns a fresh, contiguous Dense
// buffer holding exactly the visited elements in visit order. The closed
// element-type set is enumerated by hand here: Go generics can't
// dispatch on a runtime type tag, so every concrete
// Dense[T] this engine supports gets its own case, each delegating to
// the single generic collect function for its T.
func materialize(buf Buffer, it view.StridedView) (Buffer, error) {
	switch d := buf.(type) {
	case *Dense[int32]:
		return collect(d, it), nil
	case *Dense[int64]:
		return collect(d, it), nil
	case *Dense[float32]:
		return collect(d, it), nil
	case *Dense[float64]:
		return collect(d, it), nil
	case *Dense[bool]:
		return collect(d, it), nil
	case *Dense[string]:
		return collect(d, it), nil
	case *Dense[unit.Unit]:
		return collect(d, it), nil
	case *Dense[Vector3]:
		return collect(d, it), nil
	case *Dense[Matrix3x3]:
		return collect(d, it), nil
	case *Dense[NestedDataset]:
		return collect(d, it), nil
	case *Dense[[]int32]:
		return collectRows(d, it), nil
	case *Dense[[]int64]:
		return collectRows(d, it), nil
	case *Dense[[]float32]:
		return collectRows(d, it), nil
	case *Dense[[]float64]:
		return collectRows(d, it), nil
	default:
		return nil, &errs.TypeError{Op: "variable.materialize", Got: buf.ElemType().String()}
	}
}

func collect[T any](d *Dense[T], sv view.StridedView) *Dense[T] {
	out := make([]T, 0, sv.Len())
	it := sv.Iterate()
	for {
		off, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, d.Data[off])
	}
	return &Dense[T]{Type: d.Type, Data: out}
}

func collectRows[T any](d *Dense[[]T], v view.StridedView) *Dense[[]T] {
	out := make([][]T, 0, v.Len())
	it := v.Iterate()
	for {
		off, ok := it.Next()
		if !ok {
			break
		}
		row := append([]T(nil), d.Data[off]...)
		out = append(out, row)
	}
	return &Dense[[]T]{Type: d.Type, Data: out}
}
