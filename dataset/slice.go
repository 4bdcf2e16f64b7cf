package dataset

import (
	"github.com/dtasev/scipp-go/dim"
	"github.com/dtasev/scipp-go/variable"
)

// cellExtent returns the extent along d that a non-edge (cell-centered)
// variable of this dataset has, used as the reference an individual
// coord/label is compared against to decide whether it is a bin-edge
// coord along d. Data items are always cell-centered, so the first item
// that has d is authoritative; a dataset with no such item falls back to
// a coord on d, on the assumption that coords set before any item is
// inserted are themselves cell-centered.
func (ds *Dataset) cellExtent(d dim.Dim) (int, bool) {
	for _, name := range ds.order {
		if e, err := ds.items[name].StorageDims().Extent(d); err == nil {
			return e, true
		}
	}
	if c, ok := ds.coords[d]; ok {
		if e, err := c.StorageDims().Extent(d); err == nil {
			return e, true
		}
	}
	return 0, false
}

// isEdgeAlong reports whether v is a bin-edge coord/label along d: its
// extent along d is exactly one greater than the dataset's cell extent.
func (ds *Dataset) isEdgeAlong(v *variable.Variable, d dim.Dim) bool {
	cellExt, ok := ds.cellExtent(d)
	if !ok {
		return false
	}
	ext, err := v.StorageDims().Extent(d)
	if err != nil {
		return false
	}
	return ext == cellExt+1
}

// pointSliceVar slices v along d at index i for a point slice. changed
// reports whether v depended on d at all; when changed is true and the
// returned variable is nil, v was a bin-edge coord and collapses (the
// §4.H rule: a point slice of a bin-edge coord produces no coord).
func (ds *Dataset) pointSliceVar(v *variable.Variable, d dim.Dim, i int) (sliced *variable.Variable, changed bool, err error) {
	if !v.Dims().Contains(d) {
		return v, false, nil
	}
	if ds.isEdgeAlong(v, d) {
		return nil, true, nil
	}
	sliced, err = v.Slice(d, i)
	return sliced, true, err
}

// rangeSliceVar mirrors pointSliceVar for a range slice [lo,hi); a
// bin-edge coord's own slice is widened to [lo, hi+1) per §4.H.
func (ds *Dataset) rangeSliceVar(v *variable.Variable, d dim.Dim, lo, hi int) (sliced *variable.Variable, changed bool, err error) {
	if !v.Dims().Contains(d) {
		return v, false, nil
	}
	if ds.isEdgeAlong(v, d) {
		sliced, err = v.SliceRange(d, lo, hi+1)
		return sliced, true, err
	}
	sliced, err = v.SliceRange(d, lo, hi)
	return sliced, true, err
}

func copyPerItemTable[K comparable](ds *Dataset, name string, table map[string]map[K]*variable.Variable, slice func(*variable.Variable) (*variable.Variable, bool, error)) (map[K]*variable.Variable, error) {
	src, ok := table[name]
	if !ok {
		return nil, nil
	}
	out := make(map[K]*variable.Variable, len(src))
	for k, v := range src {
		sliced, changed, err := slice(v)
		if err != nil {
			return nil, err
		}
		if !changed {
			out[k] = v
			continue
		}
		if sliced != nil {
			out[k] = sliced
		}
	}
	return out, nil
}

// Slice returns the DatasetProxy for a point slice along d at index i:
// every coord, label and item depending on d is sliced (rank-reducing);
// items independent of d are removed entirely, matching §4.G.
func (ds *Dataset) Slice(d dim.Dim, i int) (*Dataset, error) {
	out := New()
	for dd, c := range ds.coords {
		sliced, changed, err := ds.pointSliceVar(c, d, i)
		if err != nil {
			return nil, err
		}
		if !changed {
			out.coords[dd] = c
		} else if sliced != nil {
			out.coords[dd] = sliced
		}
	}
	for name, l := range ds.labels {
		sliced, changed, err := ds.pointSliceVar(l, d, i)
		if err != nil {
			return nil, err
		}
		if !changed {
			out.labels[name] = l
		} else if sliced != nil {
			out.labels[name] = sliced
		}
	}
	for name, m := range ds.masks {
		sliced, changed, err := ds.pointSliceVar(m, d, i)
		if err != nil {
			return nil, err
		}
		if !changed {
			out.masks[name] = m
		} else if sliced != nil {
			out.masks[name] = sliced
		}
	}
	for _, name := range ds.order {
		v := ds.items[name]
		if !v.Dims().Contains(d) {
			continue // removed: independent items drop out of a point slice
		}
		sliced, err := v.Slice(d, i)
		if err != nil {
			return nil, err
		}
		out.items[name] = sliced
		out.order = append(out.order, name)
		ic, err := copyPerItemTable[dim.Dim](ds, name, ds.itemCoords, func(cv *variable.Variable) (*variable.Variable, bool, error) {
			return ds.pointSliceVar(cv, d, i)
		})
		if err != nil {
			return nil, err
		}
		if ic != nil {
			out.itemCoords[name] = ic
		}
		il, err := copyPerItemTable[string](ds, name, ds.itemLabels, func(lv *variable.Variable) (*variable.Variable, bool, error) {
			return ds.pointSliceVar(lv, d, i)
		})
		if err != nil {
			return nil, err
		}
		if il != nil {
			out.itemLabels[name] = il
		}
	}
	newDims, err := ds.dims.Erase(d)
	if err != nil {
		return nil, err
	}
	out.dims = newDims
	return out, nil
}

// SliceRange returns the DatasetProxy for a range slice along d covering
// [lo,hi): coords/labels/items depending on d are range-sliced (rank
// preserved); items independent of d are retained unchanged, matching
// §4.G's "retained in a range slice" rule.
func (ds *Dataset) SliceRange(d dim.Dim, lo, hi int) (*Dataset, error) {
	out := New()
	for dd, c := range ds.coords {
		sliced, changed, err := ds.rangeSliceVar(c, d, lo, hi)
		if err != nil {
			return nil, err
		}
		if !changed {
			out.coords[dd] = c
		} else {
			out.coords[dd] = sliced
		}
	}
	for name, l := range ds.labels {
		sliced, changed, err := ds.rangeSliceVar(l, d, lo, hi)
		if err != nil {
			return nil, err
		}
		if !changed {
			out.labels[name] = l
		} else {
			out.labels[name] = sliced
		}
	}
	for name, m := range ds.masks {
		sliced, changed, err := ds.rangeSliceVar(m, d, lo, hi)
		if err != nil {
			return nil, err
		}
		if !changed {
			out.masks[name] = m
		} else {
			out.masks[name] = sliced
		}
	}
	for _, name := range ds.order {
		v := ds.items[name]
		nv, changed, err := ds.rangeSliceVar(v, d, lo, hi)
		if err != nil {
			return nil, err
		}
		if !changed {
			nv = v
		}
		out.items[name] = nv
		out.order = append(out.order, name)
		ic, err := copyPerItemTable[dim.Dim](ds, name, ds.itemCoords, func(cv *variable.Variable) (*variable.Variable, bool, error) {
			return ds.rangeSliceVar(cv, d, lo, hi)
		})
		if err != nil {
			return nil, err
		}
		if ic != nil {
			out.itemCoords[name] = ic
		}
		il, err := copyPerItemTable[string](ds, name, ds.itemLabels, func(lv *variable.Variable) (*variable.Variable, bool, error) {
			return ds.rangeSliceVar(lv, d, lo, hi)
		})
		if err != nil {
			return nil, err
		}
		if il != nil {
			out.itemLabels[name] = il
		}
	}
	newDims, err := ds.dims.SetExtent(d, hi-lo)
	if err != nil {
		return nil, err
	}
	out.dims = newDims
	return out, nil
}
