// Package uncertainty: scalar and container wrappers implementing
// uncertainty propagation for the built-in operators.
//
// Pair[T] is the dense scalar form, used inline by transform's kernel
// loops. Values[T] is the container form over a full row (e.g. a sparse
// row's values and variances together) rather than one element at a
// time; the transform driver in package variable does not use it.
package uncertainty
