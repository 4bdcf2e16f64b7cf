package errs_test

import (
	"errors"
	"testing"

	"github.com/dtasev/scipp-go/errs"
	"github.com/stretchr/testify/require"
)

func TestErrorMessagesCarryContext(t *testing.T) {
	var err error = &errs.TypeError{Op: "transform", Got: "string", Expected: []string{"float64", "int64"}}
	require.Contains(t, err.Error(), "string")
	require.Contains(t, err.Error(), "float64")

	err = &errs.DimensionError{Op: "Dimensions.add", Dim: "X", Detail: "already present"}
	require.Contains(t, err.Error(), "X")

	err = &errs.SliceError{Op: "Variable.slice", Dim: "Y", Lo: 2, Hi: 5, Extent: 3}
	require.Contains(t, err.Error(), "[2:5)")

	err = &errs.CoordMismatchError{Dim: "Tof"}
	require.Contains(t, err.Error(), "Tof")

	err = &errs.NameError{Op: "Dataset.+=", Name: "counts"}
	require.Contains(t, err.Error(), "counts")

	err = &errs.ShapeError{Op: "sparse row +=", Want: 2, Got: 3}
	require.Contains(t, err.Error(), "want 2")

	err = &errs.VariancesError{Op: "+=", Detail: "rhs has variances, lhs does not"}
	require.Contains(t, err.Error(), "rhs has variances")

	err = &errs.UnitError{Op: "+=", LHS: "m", RHS: "s"}
	require.Contains(t, err.Error(), "\"m\"")

	err = &errs.UnsupportedError{Op: "ValuesAndVariances.insert", Reason: "not generalized to variance case"}
	require.Contains(t, err.Error(), "not generalized")
}

func TestErrorTypesAreDistinguishableViaAs(t *testing.T) {
	var err error = &errs.TypeError{Op: "x", Got: "bool", Expected: []string{"float64"}}

	var te *errs.TypeError
	require.True(t, errors.As(err, &te))

	var de *errs.DimensionError
	require.False(t, errors.As(err, &de))
}
