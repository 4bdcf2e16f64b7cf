package variable_test

import (
	"testing"

	"github.com/dtasev/scipp-go/dim"
	"github.com/dtasev/scipp-go/errs"
	"github.com/dtasev/scipp-go/internal/unit"
	"github.com/dtasev/scipp-go/variable"
	"github.com/stretchr/testify/require"
)

func TestBooleanOperators(t *testing.T) {
	s := dims(t, []dim.Dim{dim.X}, []int{4})
	a, err := variable.New(variable.TypeBool, s, unit.Dimensionless, []bool{true, true, false, false})
	require.NoError(t, err)
	b, err := variable.New(variable.TypeBool, s, unit.Dimensionless, []bool{true, false, true, false})
	require.NoError(t, err)

	and, err := a.CopyT()
	require.NoError(t, err)
	require.NoError(t, variable.AndInPlace(and, b))
	andVals, err := variable.Values[bool](and)
	require.NoError(t, err)
	require.Equal(t, []bool{true, false, false, false}, andVals)

	or, err := a.CopyT()
	require.NoError(t, err)
	require.NoError(t, variable.OrInPlace(or, b))
	orVals, err := variable.Values[bool](or)
	require.NoError(t, err)
	require.Equal(t, []bool{true, true, true, false}, orVals)

	xor, err := a.CopyT()
	require.NoError(t, err)
	require.NoError(t, variable.XorInPlace(xor, b))
	xorVals, err := variable.Values[bool](xor)
	require.NoError(t, err)
	require.Equal(t, []bool{false, true, true, false}, xorVals)

	not, err := a.CopyT()
	require.NoError(t, err)
	require.NoError(t, variable.Not(not))
	notVals, err := variable.Values[bool](not)
	require.NoError(t, err)
	require.Equal(t, []bool{false, false, true, true}, notVals)
}

func TestBooleanOperatorRejectsNonBool(t *testing.T) {
	s := dims(t, []dim.Dim{dim.X}, []int{2})
	a, err := variable.New(variable.TypeFloat64, s, unit.Dimensionless, []float64{1, 2})
	require.NoError(t, err)
	b, err := variable.New(variable.TypeFloat64, s, unit.Dimensionless, []float64{1, 2})
	require.NoError(t, err)

	err = variable.AndInPlace(a, b)
	require.Error(t, err)
	var typeErr *errs.TypeError
	require.ErrorAs(t, err, &typeErr)
}
