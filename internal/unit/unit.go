// Package unit implements the opaque physical-unit type consumed by
// variable and dataset. The engine's core treats Unit as an external
// collaborator (see the top-level spec): it only needs equality, a
// display name, and the four arithmetic operators. This package supplies
// a minimal but real dimensional-analysis implementation grounded in the
// SI base quantities scipp's own units layer exposes (length, time,
// mass, temperature, and the "counts" unit used for event data), rather
// than an uninterpreted string tag, so that Variable arithmetic can reject nonsensical combinations the way the reference
// implementation does.
package unit

import (
	"fmt"
	"strings"
)

// exponent indices into a Unit's dimension vector, one per SI base
// quantity this engine cares about. Event count is folded in as a
// pseudo-dimension so "counts" and "dimensionless" remain distinct.
const (
	dimLength = iota
	dimTime
	dimMass
	dimTemperature
	dimCount
	numDims
)

var dimSymbols = [numDims]string{"m", "s", "kg", "K", "counts"}

// Unit is an immutable dimensioned quantity: a rational exponent per SI
// base dimension plus a fixed scale relative to that base combination
// (e.g. "us" is time with scale 1e-6, "angstrom" is length with scale
// 1e-10). Two Units are Equal only if both the exponents and the scale
// match; scipp itself does not auto-convert between differently-scaled
// units of the same dimension.
type Unit struct {
	exp   [numDims]int
	scale float64
	// name is an explicit display override for units that aren't a
	// mechanical composition of the base symbols (e.g. "counts").
	name string
}

// Dimensionless is the neutral unit: identity for * and /, and the only
// unit compatible with itself for + and - besides itself.
var Dimensionless = Unit{scale: 1}

// Well-known units used throughout the neutron-scattering domain.
var (
	Meter             = Unit{exp: base(dimLength, 1), scale: 1}
	Angstrom          = Unit{exp: base(dimLength, 1), scale: 1e-10}
	Second            = Unit{exp: base(dimTime, 1), scale: 1}
	Microsecond       = Unit{exp: base(dimTime, 1), scale: 1e-6}
	Kilogram          = Unit{exp: base(dimMass, 1), scale: 1}
	Kelvin            = Unit{exp: base(dimTemperature, 1), scale: 1}
	Counts            = Unit{exp: base(dimCount, 1), scale: 1, name: "counts"}
	MilliElectronVolt = Unit{exp: [numDims]int{2, -2, 1, 0, 0}, scale: 1.602176634e-25, name: "meV"}
)

func base(dim, exp int) [numDims]int {
	var e [numDims]int
	e[dim] = exp
	return e
}

// Equal reports whether two units are identical (same dimension
// exponents and scale).
func (u Unit) Equal(other Unit) bool {
	return u.exp == other.exp && u.scale == other.scale
}

// Add returns u, requiring other to be Equal to u; + and - never change
// units, they only require both operands share one.
func (u Unit) Add(other Unit) (Unit, error) {
	if !u.Equal(other) {
		return Unit{}, fmt.Errorf("unit: cannot add %s and %s", u.Name(), other.Name())
	}
	return u, nil
}

// Sub mirrors Add: subtraction never changes a unit.
func (u Unit) Sub(other Unit) (Unit, error) {
	return u.Add(other)
}

// Mul combines dimension exponents and multiplies scales.
func (u Unit) Mul(other Unit) Unit {
	var e [numDims]int
	for i := range e {
		e[i] = u.exp[i] + other.exp[i]
	}
	return Unit{exp: e, scale: u.scale * other.scale}
}

// Div subtracts dimension exponents and divides scales.
func (u Unit) Div(other Unit) Unit {
	var e [numDims]int
	for i := range e {
		e[i] = u.exp[i] - other.exp[i]
	}
	return Unit{exp: e, scale: u.scale / other.scale}
}

// Name returns a human-readable display name, e.g. "m", "m^2/s",
// "dimensionless", or an explicit override such as "counts".
func (u Unit) Name() string {
	if u.name != "" {
		return u.name
	}
	var num, den []string
	for i, e := range u.exp {
		switch {
		case e == 0:
			continue
		case e == 1:
			num = append(num, dimSymbols[i])
		case e > 0:
			num = append(num, fmt.Sprintf("%s^%d", dimSymbols[i], e))
		case e == -1:
			den = append(den, dimSymbols[i])
		default:
			den = append(den, fmt.Sprintf("%s^%d", dimSymbols[i], -e))
		}
	}
	if len(num) == 0 && len(den) == 0 {
		return "dimensionless"
	}
	n := strings.Join(num, "*")
	if n == "" {
		n = "1"
	}
	if len(den) == 0 {
		return n
	}
	return n + "/" + strings.Join(den, "*")
}

func (u Unit) String() string { return u.Name() }
