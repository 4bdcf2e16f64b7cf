package transform_test

import (
	"testing"

	"github.com/dtasev/scipp-go/dim"
	"github.com/dtasev/scipp-go/internal/unit"
	"github.com/dtasev/scipp-go/transform"
	"github.com/dtasev/scipp-go/variable"
)

func BenchmarkSumReduction(b *testing.B) {
	s, _ := dim.New([]dim.Dim{dim.Spectrum, dim.Time}, []int{64, 128})
	vals := make([]float64, 64*128)
	for i := range vals {
		vals[i] = float64(i)
	}
	v, _ := variable.New(variable.TypeFloat64, s, unit.Second, vals)

	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		_, _ = transform.Sum(v, dim.Time)
	}
}

func BenchmarkAcosParallel(b *testing.B) {
	s, _ := dim.New([]dim.Dim{dim.Spectrum, dim.Time}, []int{64, 128})
	vals := make([]float64, 64*128)
	for i := range vals {
		vals[i] = 0.5
	}
	v, _ := variable.New(variable.TypeFloat64, s, unit.Dimensionless, vals)

	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		_, _ = transform.Acos(v, transform.WithParallelism(4))
	}
}
