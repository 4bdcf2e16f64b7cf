// SPDX-License-Identifier: MIT
package variable

import (
	"github.com/dtasev/scipp-go/dim"
	"github.com/dtasev/scipp-go/internal/unit"
)

// Builder assembles a dense Variable dimension-by-dimension and field-by-
// field, deferring validation to Build. Modeled on this project's
// staged-constructor-composition pattern (add one concern at a time,
// resolve once, fail fast on the first invalid stage) rather than on the
// one-shot New/NewWithVariances/NewSparse constructors, which already
// suit callers that have every field in hand up front.
type Builder[T any] struct {
	typ  ElementType
	dims dim.Dimensions
	u    unit.Unit
	vals []T
	varc []T
	err  error
}

// NewBuilder starts a Builder for element type typ with an empty
// (scalar) shape.
func NewBuilder[T any](typ ElementType) *Builder[T] {
	return &Builder[T]{typ: typ, dims: dim.Scalar(), u: unit.Dimensionless}
}

// WithDim appends d to the shape being assembled, outer-to-inner in call
// order. The first error encountered by any With* call is latched and
// returned by Build; later calls become no-ops.
func (b *Builder[T]) WithDim(d dim.Dim, extent int) *Builder[T] {
	if b.err != nil {
		return b
	}
	nd, err := b.dims.Add(d, extent)
	if err != nil {
		b.err = err
		return b
	}
	b.dims = nd
	return b
}

// WithUnit sets the physical unit; unit.Dimensionless is used if this is
// never called.
func (b *Builder[T]) WithUnit(u unit.Unit) *Builder[T] {
	if b.err != nil {
		return b
	}
	b.u = u
	return b
}

// WithValues sets the flat, row-major values buffer.
func (b *Builder[T]) WithValues(values []T) *Builder[T] {
	if b.err != nil {
		return b
	}
	b.vals = values
	return b
}

// WithVariances sets the flat, row-major variances buffer. Omit this
// call to build a Variable without variances.
func (b *Builder[T]) WithVariances(variances []T) *Builder[T] {
	if b.err != nil {
		return b
	}
	b.varc = variances
	return b
}

// Build validates the accumulated stages and constructs the Variable,
// delegating to New or NewWithVariances depending on whether
// WithVariances was called.
func (b *Builder[T]) Build() (*Variable, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.varc != nil {
		return NewWithVariances(b.typ, b.dims, b.u, b.vals, b.varc)
	}
	return New(b.typ, b.dims, b.u, b.vals)
}
