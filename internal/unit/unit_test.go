package unit_test

import (
	"testing"

	"github.com/dtasev/scipp-go/internal/unit"
	"github.com/stretchr/testify/require"
)

func TestAddRequiresEqualUnits(t *testing.T) {
	_, err := unit.Meter.Add(unit.Second)
	require.Error(t, err)

	sum, err := unit.Meter.Add(unit.Meter)
	require.NoError(t, err)
	require.True(t, sum.Equal(unit.Meter))
}

func TestMulDivCombineDimensions(t *testing.T) {
	speed := unit.Meter.Div(unit.Second)
	require.Equal(t, "m/s", speed.Name())

	back := speed.Mul(unit.Second)
	require.True(t, back.Equal(unit.Meter))
}

func TestDimensionlessName(t *testing.T) {
	require.Equal(t, "dimensionless", unit.Dimensionless.Name())
	require.Equal(t, "counts", unit.Counts.Name())
}

func TestAngstromNotEqualMeter(t *testing.T) {
	require.False(t, unit.Angstrom.Equal(unit.Meter))
	_, err := unit.Angstrom.Add(unit.Meter)
	require.Error(t, err)
}
