// SPDX-License-Identifier: MIT
package dataset

import (
	"github.com/dtasev/scipp-go/dim"
	"github.com/dtasev/scipp-go/variable"
)

// Builder assembles a Dataset one coord/label/mask/item at a time,
// latching the first error and returning it from Build. Each With* call
// is applied in order to the dataset's coord/label/mask/item tables,
// the same latch-first-error shape variable.Builder uses.
type Builder struct {
	ds  *Dataset
	err error
}

// NewBuilder starts a Builder over an empty Dataset.
func NewBuilder() *Builder {
	return &Builder{ds: New()}
}

// WithCoord attaches the coord for dim d.
func (b *Builder) WithCoord(d dim.Dim, v *variable.Variable) *Builder {
	if b.err != nil {
		return b
	}
	b.err = b.ds.SetCoord(d, v)
	return b
}

// WithLabel attaches the label named name.
func (b *Builder) WithLabel(name string, v *variable.Variable) *Builder {
	if b.err != nil {
		return b
	}
	b.err = b.ds.SetLabels(name, v)
	return b
}

// WithMask attaches the mask named name.
func (b *Builder) WithMask(name string, v *variable.Variable) *Builder {
	if b.err != nil {
		return b
	}
	b.err = b.ds.SetMask(name, v)
	return b
}

// WithData inserts the item named name.
func (b *Builder) WithData(name string, v *variable.Variable) *Builder {
	if b.err != nil {
		return b
	}
	b.err = b.ds.SetData(name, v)
	return b
}

// Build returns the assembled Dataset, or the first error latched by a
// With* call.
func (b *Builder) Build() (*Dataset, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.ds, nil
}
