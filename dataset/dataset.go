package dataset

import (
	"github.com/dtasev/scipp-go/dim"
	"github.com/dtasev/scipp-go/errs"
	"github.com/dtasev/scipp-go/variable"
)

// DataItem is the proxy an indexed Dataset access or an iteration yields:
// the item's own Variable plus whatever per-item coords/labels it carries
// in addition to the dataset's shared tables. Coords/Labels are nil for
// an item that has no per-item coords/labels attached.
type DataItem struct {
	Name   string
	Data   *variable.Variable
	Coords map[dim.Dim]*variable.Variable
	Labels map[string]*variable.Variable
}

// Entry is one (name, DataItem) pair yielded by Dataset.Items.
type Entry struct {
	Name string
	Item DataItem
}

// Dataset is a named mapping of data items sharing a coord table, a label
// table and a mask table. dims tracks the union of every shape any coord,
// label, mask or item has contributed so far (via dim.Union, which
// tolerates bin-edge extent differences), matching the invariant that
// every item's dims must be a subset of the dataset's own dims.
type Dataset struct {
	dims   dim.Dimensions
	coords map[dim.Dim]*variable.Variable
	labels map[string]*variable.Variable
	masks  map[string]*variable.Variable
	items  map[string]*variable.Variable
	itemCoords map[string]map[dim.Dim]*variable.Variable
	itemLabels map[string]map[string]*variable.Variable
	order  []string
}

// New returns an empty dataset.
func New() *Dataset {
	return &Dataset{
		dims:       dim.Scalar(),
		coords:     make(map[dim.Dim]*variable.Variable),
		labels:     make(map[string]*variable.Variable),
		masks:      make(map[string]*variable.Variable),
		items:      make(map[string]*variable.Variable),
		itemCoords: make(map[string]map[dim.Dim]*variable.Variable),
		itemLabels: make(map[string]map[string]*variable.Variable),
	}
}

func (ds *Dataset) merge(v *variable.Variable) error {
	u, err := dim.Union(ds.dims, v.StorageDims())
	if err != nil {
		return err
	}
	ds.dims = u
	return nil
}

// Dims returns the union of every dim contributed by any coord, label,
// mask or item inserted so far.
func (ds *Dataset) Dims() dim.Dimensions { return ds.dims }

// SetCoord attaches v as the coord for dim d, keyed by d (at most one
// coord per Dim).
func (ds *Dataset) SetCoord(d dim.Dim, v *variable.Variable) error {
	if err := ds.merge(v); err != nil {
		return err
	}
	ds.coords[d] = v
	return nil
}

// Coord returns the coord for d, or ok=false if none is set.
func (ds *Dataset) Coord(d dim.Dim) (*variable.Variable, bool) {
	v, ok := ds.coords[d]
	return v, ok
}

// SetLabels attaches v as the label named name.
func (ds *Dataset) SetLabels(name string, v *variable.Variable) error {
	if err := ds.merge(v); err != nil {
		return err
	}
	ds.labels[name] = v
	return nil
}

// Label returns the label named name, or ok=false if none is set.
func (ds *Dataset) Label(name string) (*variable.Variable, bool) {
	v, ok := ds.labels[name]
	return v, ok
}

// SetMask attaches v as the mask named name.
func (ds *Dataset) SetMask(name string, v *variable.Variable) error {
	if err := ds.merge(v); err != nil {
		return err
	}
	ds.masks[name] = v
	return nil
}

// Mask returns the mask named name, or ok=false if none is set.
func (ds *Dataset) Mask(name string) (*variable.Variable, bool) {
	v, ok := ds.masks[name]
	return v, ok
}

// SetData inserts or replaces the item named name. Order of first
// insertion is preserved for Items.
func (ds *Dataset) SetData(name string, v *variable.Variable) error {
	if err := ds.merge(v); err != nil {
		return err
	}
	if _, exists := ds.items[name]; !exists {
		ds.order = append(ds.order, name)
	}
	ds.items[name] = v
	return nil
}

// SetItemCoord attaches a per-item coord on dim d for the item named
// name, in addition to whatever dataset-level coord exists on d.
func (ds *Dataset) SetItemCoord(name string, d dim.Dim, v *variable.Variable) error {
	if _, ok := ds.items[name]; !ok {
		return &errs.NameError{Op: "Dataset.SetItemCoord", Name: name}
	}
	m, ok := ds.itemCoords[name]
	if !ok {
		m = make(map[dim.Dim]*variable.Variable)
		ds.itemCoords[name] = m
	}
	m[d] = v
	return nil
}

// SetItemLabels attaches a per-item label for the item named name.
func (ds *Dataset) SetItemLabels(name, label string, v *variable.Variable) error {
	if _, ok := ds.items[name]; !ok {
		return &errs.NameError{Op: "Dataset.SetItemLabels", Name: name}
	}
	m, ok := ds.itemLabels[name]
	if !ok {
		m = make(map[string]*variable.Variable)
		ds.itemLabels[name] = m
	}
	m[label] = v
	return nil
}

// Item returns the DataItem proxy for name, or NameError if absent.
func (ds *Dataset) Item(name string) (DataItem, error) {
	v, ok := ds.items[name]
	if !ok {
		return DataItem{}, &errs.NameError{Op: "Dataset.Item", Name: name}
	}
	return DataItem{Name: name, Data: v, Coords: ds.itemCoords[name], Labels: ds.itemLabels[name]}, nil
}

// Items returns every (name, DataItem) pair in insertion order.
func (ds *Dataset) Items() []Entry {
	out := make([]Entry, len(ds.order))
	for i, name := range ds.order {
		out[i] = Entry{Name: name, Item: DataItem{Name: name, Data: ds.items[name], Coords: ds.itemCoords[name], Labels: ds.itemLabels[name]}}
	}
	return out
}

// Len returns the number of items in the dataset.
func (ds *Dataset) Len() int { return len(ds.order) }

// IsDataset makes *Dataset satisfy variable.NestedDataset, so a Dataset
// can be stored as the element of a TypeDataset Variable.
func (ds *Dataset) IsDataset() bool { return true }
