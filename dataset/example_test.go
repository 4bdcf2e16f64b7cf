package dataset_test

import (
	"fmt"

	"github.com/dtasev/scipp-go/dataset"
	"github.com/dtasev/scipp-go/dim"
	"github.com/dtasev/scipp-go/internal/unit"
	"github.com/dtasev/scipp-go/variable"
)

// ExampleDataset_SetData demonstrates attaching a coord and a data item
// to a Dataset and reading the item back through the indexed accessor.
func ExampleDataset_SetData() {
	s, _ := dim.New([]dim.Dim{dim.X}, []int{3})
	ds := dataset.New()

	coord, _ := variable.New(variable.TypeFloat64, s, unit.Meter, []float64{0, 1, 2})
	_ = ds.SetCoord(dim.X, coord)

	v, _ := variable.New(variable.TypeFloat64, s, unit.Second, []float64{10, 20, 30})
	_ = ds.SetData("signal", v)

	item, _ := ds.Item("signal")
	vals, _ := variable.Values[float64](item.Data)
	fmt.Println(vals)
	// Output: [10 20 30]
}
