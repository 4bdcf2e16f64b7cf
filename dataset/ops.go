package dataset

import (
	"github.com/dtasev/scipp-go/errs"
	"github.com/dtasev/scipp-go/variable"
)

// binaryOp validates alignment and item names up front (§7's "validate
// every item's alignment up front, then apply item-by-item"), then
// applies apply to every RHS item in turn. A mid-sequence apply failure
// leaves items already updated modified; this matches the documented
// non-transactional trade-off, not an oversight.
func binaryOp(a, b *Dataset, op string, apply func(x, y *variable.Variable) error) error {
	if err := alignCoords(a, b); err != nil {
		return err
	}
	if err := checkNames(a, b, op); err != nil {
		return err
	}
	for _, name := range b.order {
		if err := apply(a.items[name], b.items[name]); err != nil {
			return err
		}
	}
	return nil
}

// AddInPlace adds every item of b into the matching item of a in place.
func AddInPlace(a, b *Dataset) error { return binaryOp(a, b, "dataset.AddInPlace", variable.AddInPlace) }

// SubInPlace subtracts every item of b from the matching item of a.
func SubInPlace(a, b *Dataset) error { return binaryOp(a, b, "dataset.SubInPlace", variable.SubInPlace) }

// MulInPlace multiplies every item of a by the matching item of b.
func MulInPlace(a, b *Dataset) error { return binaryOp(a, b, "dataset.MulInPlace", variable.MulInPlace) }

// DivInPlace divides every item of a by the matching item of b.
func DivInPlace(a, b *Dataset) error { return binaryOp(a, b, "dataset.DivInPlace", variable.DivInPlace) }

// itemOp applies apply between the dataset item named item.Name and
// item.Data, delegating to Variable's own driver. Used for the "against
// a data item" form of a binary op mentioned in §4.G's binding surface.
func itemOp(a *Dataset, item DataItem, op string, apply func(x, y *variable.Variable) error) error {
	v, ok := a.items[item.Name]
	if !ok {
		return &errs.NameError{Op: op, Name: item.Name}
	}
	return apply(v, item.Data)
}

func AddItemInPlace(a *Dataset, item DataItem) error {
	return itemOp(a, item, "dataset.AddItemInPlace", variable.AddInPlace)
}

func SubItemInPlace(a *Dataset, item DataItem) error {
	return itemOp(a, item, "dataset.SubItemInPlace", variable.SubInPlace)
}

func MulItemInPlace(a *Dataset, item DataItem) error {
	return itemOp(a, item, "dataset.MulItemInPlace", variable.MulInPlace)
}

func DivItemInPlace(a *Dataset, item DataItem) error {
	return itemOp(a, item, "dataset.DivItemInPlace", variable.DivInPlace)
}
