// Package dim: labeled-shape algebra.
//
// Dimensions is an ordered (Dim, extent) list with at most one sparse
// dimension, which must be innermost. See Dimensions for the full
// operation set (add, erase, relabel, transpose, index, volume, inner,
// contains, isContiguousIn) and BinEdgeCompatible for the bin-edge
// extent rule consumed by view and transform.
package dim
