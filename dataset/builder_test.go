package dataset_test

import (
	"testing"

	"github.com/dtasev/scipp-go/dataset"
	"github.com/dtasev/scipp-go/dim"
	"github.com/dtasev/scipp-go/internal/unit"
	"github.com/dtasev/scipp-go/variable"
	"github.com/stretchr/testify/require"
)

func TestBuilderAssemblesDataset(t *testing.T) {
	xShape := shape(t, []dim.Dim{dim.X}, []int{2})
	coord, err := variable.New(variable.TypeFloat64, xShape, unit.Meter, []float64{0, 1})
	require.NoError(t, err)
	signal, err := variable.New(variable.TypeFloat64, xShape, unit.Second, []float64{10, 20})
	require.NoError(t, err)

	ds, err := dataset.NewBuilder().
		WithCoord(dim.X, coord).
		WithData("signal", signal).
		Build()
	require.NoError(t, err)

	item, err := ds.Item("signal")
	require.NoError(t, err)
	vals, err := variable.Values[float64](item.Data)
	require.NoError(t, err)
	require.Equal(t, []float64{10, 20}, vals)
}

func TestBuilderLatchesFirstError(t *testing.T) {
	smallShape := shape(t, []dim.Dim{dim.X}, []int{2})
	conflictingShape := shape(t, []dim.Dim{dim.X}, []int{5})
	signal, err := variable.New(variable.TypeFloat64, smallShape, unit.Second, []float64{10, 20})
	require.NoError(t, err)
	conflicting, err := variable.New(variable.TypeFloat64, conflictingShape, unit.Second, []float64{1, 2, 3, 4, 5})
	require.NoError(t, err)

	_, err = dataset.NewBuilder().
		WithData("signal", signal).
		WithData("conflict", conflicting).
		Build()
	require.Error(t, err, "an X extent of 5 is not bin-edge compatible with an existing X extent of 2")
}
