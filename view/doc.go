// Package view: the strided-view iterator that realizes slicing,
// broadcasting, transposition and collapsing over a dense buffer
// without copying it. See StridedView for the construction rules and
// Iterator for row-major traversal; Bin/BinOffsets implement the
// explicit bin-edge accessor required when a data shape and a target
// shape are related by the +-1 edge rule.
package view
