package uncertainty_test

import (
	"math"
	"testing"

	"github.com/dtasev/scipp-go/uncertainty"
	"github.com/stretchr/testify/require"
)

func TestAddPropagatesVariance(t *testing.T) {
	a := uncertainty.Pair[float64]{Value: 1, Variance: 1}
	b := uncertainty.Pair[float64]{Value: 10, Variance: 4}
	got := uncertainty.Add(a, b)
	require.Equal(t, 11.0, got.Value)
	require.Equal(t, 5.0, got.Variance)
}

func TestSubAddsVariances(t *testing.T) {
	a := uncertainty.Pair[float64]{Value: 5, Variance: 2}
	b := uncertainty.Pair[float64]{Value: 3, Variance: 3}
	got := uncertainty.Sub(a, b)
	require.Equal(t, 2.0, got.Value)
	require.Equal(t, 5.0, got.Variance)
}

// TestMulMatchesSeedScenarioS2 checks the S2 seed: a=[3] var=[1],
// b=[2] var=[4]; a*=b -> values [6], variance 1*4 + 4*9 = 40.
func TestMulMatchesSeedScenarioS2(t *testing.T) {
	a := uncertainty.Pair[float64]{Value: 3, Variance: 1}
	b := uncertainty.Pair[float64]{Value: 2, Variance: 4}
	got := uncertainty.Mul(a, b)
	require.Equal(t, 6.0, got.Value)
	require.Equal(t, 40.0, got.Variance)
}

func TestDivFormula(t *testing.T) {
	a := uncertainty.Pair[float64]{Value: 10, Variance: 4}
	b := uncertainty.Pair[float64]{Value: 2, Variance: 1}
	got := uncertainty.Div(a, b)
	require.InDelta(t, 5.0, got.Value, 1e-12)
	want := (4.0 + 1.0*100.0/4.0) / 4.0
	require.InDelta(t, want, got.Variance, 1e-12)
}

func TestNegKeepsVariance(t *testing.T) {
	a := uncertainty.Pair[float64]{Value: 3, Variance: 2}
	got := uncertainty.Neg(a)
	require.Equal(t, -3.0, got.Value)
	require.Equal(t, 2.0, got.Variance)
}

func TestSqrtFormula(t *testing.T) {
	a := uncertainty.Pair[float64]{Value: 4, Variance: 1}
	got := uncertainty.Sqrt(a, math.Sqrt)
	require.Equal(t, 2.0, got.Value)
	require.Equal(t, 0.25*1.0/4.0, got.Variance)
}

func TestAbsKeepsVariance(t *testing.T) {
	a := uncertainty.Pair[float64]{Value: -4, Variance: 2}
	got := uncertainty.Abs(a, math.Abs)
	require.Equal(t, 4.0, got.Value)
	require.Equal(t, 2.0, got.Variance)
}

func TestScalarVariantsDropScalarVarianceTerm(t *testing.T) {
	a := uncertainty.Pair[float64]{Value: 3, Variance: 1}
	require.Equal(t, uncertainty.Pair[float64]{Value: 6, Variance: 1}, uncertainty.AddScalar(a, 3))
	require.Equal(t, uncertainty.Pair[float64]{Value: 6, Variance: 4}, uncertainty.MulScalar(a, 2))
	require.Equal(t, uncertainty.Pair[float64]{Value: 1.5, Variance: 0.25}, uncertainty.DivScalar(a, 2))
}
