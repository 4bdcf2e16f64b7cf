package variable_test

import (
	"testing"

	"github.com/dtasev/scipp-go/dim"
	"github.com/dtasev/scipp-go/errs"
	"github.com/dtasev/scipp-go/internal/unit"
	"github.com/dtasev/scipp-go/variable"
	"github.com/stretchr/testify/require"
)

func dims(t *testing.T, labels []dim.Dim, extents []int) dim.Dimensions {
	t.Helper()
	d, err := dim.New(labels, extents)
	require.NoError(t, err)
	return d
}

// TestAdditionWithVariance is seed scenario S1.
func TestAdditionWithVariance(t *testing.T) {
	shape := dims(t, []dim.Dim{dim.X}, []int{2})
	a, err := variable.NewWithVariances(variable.TypeFloat64, shape, unit.Dimensionless, []float64{1, 2}, []float64{1, 1})
	require.NoError(t, err)
	b, err := variable.NewWithVariances(variable.TypeFloat64, shape, unit.Dimensionless, []float64{10, 20}, []float64{4, 9})
	require.NoError(t, err)

	require.NoError(t, variable.AddInPlace(a, b))

	vals, err := variable.Values[float64](a)
	require.NoError(t, err)
	require.Equal(t, []float64{11, 22}, vals)

	vars, ok, err := variable.Variances[float64](a)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []float64{5, 10}, vars)
}

// TestMultiplicationWithVariance is seed scenario S2.
func TestMultiplicationWithVariance(t *testing.T) {
	shape := dims(t, []dim.Dim{dim.X}, []int{1})
	a, err := variable.NewWithVariances(variable.TypeFloat64, shape, unit.Dimensionless, []float64{3}, []float64{1})
	require.NoError(t, err)
	b, err := variable.NewWithVariances(variable.TypeFloat64, shape, unit.Dimensionless, []float64{2}, []float64{4})
	require.NoError(t, err)

	require.NoError(t, variable.MulInPlace(a, b))

	vals, err := variable.Values[float64](a)
	require.NoError(t, err)
	require.Equal(t, []float64{6}, vals)

	vars, _, err := variable.Variances[float64](a)
	require.NoError(t, err)
	require.Equal(t, []float64{40}, vars)
}

// TestBroadcastAddition is seed scenario S3.
func TestBroadcastAddition(t *testing.T) {
	full := dims(t, []dim.Dim{dim.Y, dim.X}, []int{2, 2})
	a, err := variable.New(variable.TypeFloat64, full, unit.Dimensionless, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	rowShape := dims(t, []dim.Dim{dim.X}, []int{2})
	b, err := variable.New(variable.TypeFloat64, rowShape, unit.Dimensionless, []float64{10, 20})
	require.NoError(t, err)

	require.NoError(t, variable.AddInPlace(a, b))

	vals, err := variable.Values[float64](a)
	require.NoError(t, err)
	require.Equal(t, []float64{11, 22, 13, 24}, vals)
}

// TestSparseRowAddition is seed scenario S5.
func TestSparseRowAddition(t *testing.T) {
	shape, err := dim.New([]dim.Dim{dim.Spectrum, dim.Event}, []int{1, dim.SparseExtent})
	require.NoError(t, err)
	a, err := variable.NewSparse(variable.TypeSparseFloat64, shape, unit.Dimensionless, [][]float64{{1.1, 2.2}})
	require.NoError(t, err)
	b, err := variable.NewSparse(variable.TypeSparseFloat64, shape, unit.Dimensionless, [][]float64{{3.3, 4.4}})
	require.NoError(t, err)

	require.NoError(t, variable.AddInPlace(a, b))

	rows, err := variable.Values[[]float64](a)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{4.4, 6.6}, rows[0], 1e-9)

	mismatched, err := variable.NewSparse(variable.TypeSparseFloat64, shape, unit.Dimensionless, [][]float64{{1, 2, 3}})
	require.NoError(t, err)
	err = variable.AddInPlace(a, mismatched)
	require.Error(t, err)
	var shapeErr *errs.ShapeError
	require.ErrorAs(t, err, &shapeErr)
}

// TestTransformIdempotence is universal invariant #4: a += zeros leaves
// a unchanged in both values and variances.
func TestTransformIdempotence(t *testing.T) {
	shape := dims(t, []dim.Dim{dim.X}, []int{3})
	a, err := variable.NewWithVariances(variable.TypeFloat64, shape, unit.Dimensionless, []float64{1, 2, 3}, []float64{0.1, 0.2, 0.3})
	require.NoError(t, err)
	zeros, err := variable.NewWithVariances(variable.TypeFloat64, shape, unit.Dimensionless, []float64{0, 0, 0}, []float64{0, 0, 0})
	require.NoError(t, err)

	require.NoError(t, variable.AddInPlace(a, zeros))

	vals, _ := variable.Values[float64](a)
	vars, _, _ := variable.Variances[float64](a)
	require.Equal(t, []float64{1, 2, 3}, vals)
	require.Equal(t, []float64{0.1, 0.2, 0.3}, vars)
}

// TestAliasingSafety is universal invariant #7: a += a's own slice
// produces the same result whether or not the operand aliases a's
// buffer, because AddInPlace copies the RHS first when it detects the
// overlap.
func TestAliasingSafety(t *testing.T) {
	shape := dims(t, []dim.Dim{dim.X}, []int{1})
	full, err := variable.New(variable.TypeFloat64, shape, unit.Dimensionless, []float64{5})
	require.NoError(t, err)
	aliased, err := full.Slice(dim.X, 0)
	require.NoError(t, err)
	require.NoError(t, variable.AddInPlace(full, aliased))
	vals, _ := variable.Values[float64](full)
	require.Equal(t, []float64{10}, vals)

	copyOfFull, err := variable.New(variable.TypeFloat64, shape, unit.Dimensionless, []float64{5})
	require.NoError(t, err)
	other, err := variable.New(variable.TypeFloat64, shape, unit.Dimensionless, []float64{5})
	require.NoError(t, err)
	require.NoError(t, variable.AddInPlace(copyOfFull, other))
	valsCopy, _ := variable.Values[float64](copyOfFull)
	require.Equal(t, vals, valsCopy)
}

func TestSliceRangePreservesDim(t *testing.T) {
	shape := dims(t, []dim.Dim{dim.X}, []int{5})
	v, err := variable.New(variable.TypeFloat64, shape, unit.Dimensionless, []float64{0, 1, 2, 3, 4})
	require.NoError(t, err)

	sliced, err := v.SliceRange(dim.X, 1, 3)
	require.NoError(t, err)
	extent, err := sliced.StorageDims().Extent(dim.X)
	require.NoError(t, err)
	require.Equal(t, 2, extent)

	sv, err := sliced.ValuesView(sliced.StorageDims())
	require.NoError(t, err)
	raw, err := variable.Values[float64](sliced)
	require.NoError(t, err)
	it := sv.Iterate()
	var got []float64
	for {
		off, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, raw[off])
	}
	require.Equal(t, []float64{1, 2}, got)
}

func TestSliceOutOfRangeFails(t *testing.T) {
	shape := dims(t, []dim.Dim{dim.X}, []int{3})
	v, err := variable.New(variable.TypeFloat64, shape, unit.Dimensionless, []float64{0, 1, 2})
	require.NoError(t, err)
	_, err = v.Slice(dim.X, 5)
	require.Error(t, err)
	var sliceErr *errs.SliceError
	require.ErrorAs(t, err, &sliceErr)
}

func TestTransposeThenIterateMatchesManualColumnMajorRead(t *testing.T) {
	shape := dims(t, []dim.Dim{dim.Y, dim.X}, []int{2, 3})
	v, err := variable.New(variable.TypeFloat64, shape, unit.Dimensionless, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	tv, err := v.Transpose([]dim.Dim{dim.X, dim.Y})
	require.NoError(t, err)

	sv, err := tv.ValuesView(tv.StorageDims())
	require.NoError(t, err)
	raw, err := variable.Values[float64](tv)
	require.NoError(t, err)
	it := sv.Iterate()
	var got []float64
	for {
		off, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, raw[off])
	}
	require.Equal(t, []float64{1, 4, 2, 5, 3, 6}, got)
}

func TestCopyTBreaksAliasing(t *testing.T) {
	shape := dims(t, []dim.Dim{dim.X}, []int{2})
	v, err := variable.New(variable.TypeFloat64, shape, unit.Dimensionless, []float64{1, 2})
	require.NoError(t, err)
	c, err := v.CopyT()
	require.NoError(t, err)
	dv := v.DataView()
	cv := c.DataView()
	require.False(t, dv.Overlaps(cv))
}

func TestVarianceOnRHSWithoutLHSFails(t *testing.T) {
	shape := dims(t, []dim.Dim{dim.X}, []int{1})
	a, err := variable.New(variable.TypeFloat64, shape, unit.Dimensionless, []float64{1})
	require.NoError(t, err)
	b, err := variable.NewWithVariances(variable.TypeFloat64, shape, unit.Dimensionless, []float64{1}, []float64{1})
	require.NoError(t, err)
	err = variable.AddInPlace(a, b)
	require.Error(t, err)
	var varErr *errs.VariancesError
	require.ErrorAs(t, err, &varErr)
}

func TestVarianceRejectedOnNonScalarType(t *testing.T) {
	shape := dims(t, []dim.Dim{dim.X}, []int{1})
	_, err := variable.NewWithVariances(variable.TypeBool, shape, unit.Dimensionless, []bool{true}, []bool{false})
	require.Error(t, err)
	var typeErr *errs.TypeError
	require.ErrorAs(t, err, &typeErr)
}
