// SPDX-License-Identifier: MIT

// Package transform builds the free-function surface (sum, mean, norm,
// dot, concatenate, sqrt, abs, acos) on top of the dispatch primitives
// variable.Variable exports directly (AddInPlace, SqrtInPlace and their
// siblings live there because they need the buffer/view internals; see
// that package's doc comment). Every function here returns a new
// Variable rather than mutating its input, matching the specification's
// transform<Ts...> (as opposed to transform_in_place<Ts...>) form.
package transform

import "log"

// Options configures the free functions in this package: the near-zero
// length tolerance used by Normalize, whether dispatch decisions are
// logged, and how many goroutines may run a kernel loop concurrently.
// Built with the functional-options pattern.
type Options struct {
	epsilon     float64
	verbose     bool
	parallelism int
}

// Option mutates an Options value.
type Option func(*Options)

// DefaultEpsilon is the tolerance below which a vector length (or other
// near-zero divisor) is treated as zero. Consumed by Normalize.
const DefaultEpsilon = 1e-9

// DefaultParallelism is the worker count used when the caller does not
// override it: no concurrency, matching the specification's "single-
// threaded cooperative within a call" default scheduling model.
const DefaultParallelism = 1

func defaultOptions() Options {
	return Options{epsilon: DefaultEpsilon, parallelism: DefaultParallelism}
}

// WithEpsilon overrides the near-zero tolerance used by Normalize.
// Panics if eps is negative or non-finite: a programmer error, not a
// runtime condition.
func WithEpsilon(eps float64) Option {
	if eps < 0 || eps != eps {
		panic("transform: WithEpsilon: eps must be finite and non-negative")
	}
	return func(o *Options) { o.epsilon = eps }
}

// WithVerbose enables logging, via the standard log package, of one
// dispatch line (element type, dims) per call of each function here.
func WithVerbose(v bool) Option {
	return func(o *Options) { o.verbose = v }
}

// WithParallelism sets the number of goroutines a kernel loop may use.
// Panics if n < 1.
func WithParallelism(n int) Option {
	if n < 1 {
		panic("transform: WithParallelism: n must be >= 1")
	}
	return func(o *Options) { o.parallelism = n }
}

// logf reports a kernel dispatch decision when verbose logging is
// enabled. No-op otherwise.
func (o Options) logf(format string, args ...any) {
	if o.verbose {
		log.Printf(format, args...)
	}
}

func gather(opts []Option) Options {
	o := defaultOptions()
	for _, apply := range opts {
		apply(&o)
	}
	return o
}
