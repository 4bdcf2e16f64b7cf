// Package errs defines the error taxonomy shared by every package in this
// module: dim, variable, view, transform, uncertainty and dataset all
// report failures through the kinds declared here, so a caller can
// errors.As a single set of types regardless of which layer raised it.
//
// Each kind carries the operand context that produced it (dim names,
// type names, shapes) so a wrapped error message is self-explanatory
// without needing to unwrap further. None of the kinds are sentinel
// errors.New values: they are structs, because nearly every occurrence
// needs to report which operands were involved.
//
// When more than one condition applies, the error returned is the first
// check that fails in the operation's own order; there is no single
// global priority. The variable arithmetic operators check units first
// (UnitError, for + and - only), then element type (TypeError), then
// shape (DimensionError), then variances (VariancesError). Dataset binary
// operations check coord alignment (CoordMismatchError) and item names
// (NameError) before any per-item check runs.
package errs

import "fmt"

// TypeError reports a runtime element-type dispatch failure: the type
// tag carried by a Variable did not match any of the types a Transform
// kernel was instantiated for.
type TypeError struct {
	Op       string
	Got      string
	Expected []string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("scipp: %s: type %s does not match any of %v", e.Op, e.Got, e.Expected)
}

// DimensionError reports an invalid or conflicting Dimensions operation:
// duplicate dims, a sparse dim not in innermost position, mismatched
// extents that are not bin-edge compatible, or a view construction rule
// violation.
type DimensionError struct {
	Op     string
	Dim    string
	Detail string
}

func (e *DimensionError) Error() string {
	if e.Dim == "" {
		return fmt.Sprintf("scipp: %s: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("scipp: %s: dim %s: %s", e.Op, e.Dim, e.Detail)
}

// SliceError reports an out-of-range slice request on a Variable or
// Dataset.
type SliceError struct {
	Op     string
	Dim    string
	Lo, Hi int
	Extent int
}

func (e *SliceError) Error() string {
	return fmt.Sprintf("scipp: %s: slice [%d:%d) out of range for dim %s with extent %d", e.Op, e.Lo, e.Hi, e.Dim, e.Extent)
}

// CoordMismatchError reports that two datasets (or a dataset and a
// proxy) disagree on the values of a shared coordinate along a Dim
// that both possess.
type CoordMismatchError struct {
	Dim string
}

func (e *CoordMismatchError) Error() string {
	return fmt.Sprintf("scipp: coord mismatch on dim %s", e.Dim)
}

// NameError reports that a data-item name required by an operation is
// missing from one side of it (e.g. an RHS dataset item absent on LHS).
type NameError struct {
	Op   string
	Name string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("scipp: %s: item %q not found", e.Op, e.Name)
}

// ShapeError reports a sparse-row size mismatch or a non-scalar
// dimension mismatch that DimensionError does not already cover.
type ShapeError struct {
	Op   string
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("scipp: %s: shape mismatch: want %d, got %d", e.Op, e.Want, e.Got)
}

// VariancesError reports an illegal variance combination: the
// right-hand operand carries variances the left-hand operand does not,
// or a variance view was requested of a Variable without variances.
// Requesting variances for a non-numeric element type is a TypeError.
type VariancesError struct {
	Op     string
	Detail string
}

func (e *VariancesError) Error() string {
	return fmt.Sprintf("scipp: %s: %s", e.Op, e.Detail)
}

// UnitError reports incompatible units on an operator that requires
// matching units (+, -) or an invalid combination for the operators
// that combine units (*, /).
type UnitError struct {
	Op       string
	LHS, RHS string
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("scipp: %s: incompatible units %q and %q", e.Op, e.LHS, e.RHS)
}

// UnsupportedError reports a deliberately unimplemented operation, such
// as insert/begin/end on a ValuesAndVariances view, the Bin accessor on
// a view with no bin-edge dim, equality of coords whose element type is
// not comparable, or acos of a Variable carrying variances.
type UnsupportedError struct {
	Op     string
	Reason string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("scipp: %s: unsupported: %s", e.Op, e.Reason)
}
