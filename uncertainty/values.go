package uncertainty

import "github.com/dtasev/scipp-go/errs"

// Values is a non-owning pair of parallel containers: values and
// variances, holding references to the two backing slices (or, for a
// sparse row, the two rows). Constructing one asserts equal sizes.
//
// Values intentionally exposes only indexed element access. insert,
// begin and end are declared but always fail with UnsupportedError:
// they exist as a signal that certain sparse-container utilities have
// not been generalized to the with-variance case, matching the
// reference implementation's own documented limitation.
type Values[T Numeric] struct {
	values    []T
	variances []T
}

// NewValues builds a Values view over values/variances, failing with
// ShapeError if their lengths differ.
func NewValues[T Numeric](values, variances []T) (Values[T], error) {
	if len(values) != len(variances) {
		return Values[T]{}, &errs.ShapeError{Op: "uncertainty.NewValues", Want: len(values), Got: len(variances)}
	}
	return Values[T]{values: values, variances: variances}, nil
}

// Size returns the number of elements.
func (v Values[T]) Size() int { return len(v.values) }

// At returns the (value, variance) pair at index i.
func (v Values[T]) At(i int) Pair[T] {
	return Pair[T]{Value: v.values[i], Variance: v.variances[i]}
}

// Set writes p back into index i, in both parallel containers.
func (v Values[T]) Set(i int, p Pair[T]) {
	v.values[i] = p.Value
	v.variances[i] = p.Variance
}

// Insert always fails: sparse-row insertion has not been generalized to
// the with-variance case.
func (v Values[T]) Insert(Pair[T]) error {
	return &errs.UnsupportedError{Op: "Values.Insert", Reason: "sparse insert is not generalized to the with-variance case"}
}

// Begin always fails, for the same reason as Insert.
func (v Values[T]) Begin() (int, error) {
	return 0, &errs.UnsupportedError{Op: "Values.Begin", Reason: "sparse iteration is not generalized to the with-variance case"}
}

// End always fails, for the same reason as Insert.
func (v Values[T]) End() (int, error) {
	return 0, &errs.UnsupportedError{Op: "Values.End", Reason: "sparse iteration is not generalized to the with-variance case"}
}
