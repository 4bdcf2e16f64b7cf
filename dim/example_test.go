package dim_test

import (
	"fmt"

	"github.com/dtasev/scipp-go/dim"
)

func ExampleDimensions_add() {
	shape, err := dim.New([]dim.Dim{dim.Y, dim.X}, []int{2, 3})
	if err != nil {
		panic(err)
	}
	fmt.Println(shape.Volume(), shape.Labels())
	// Output: 6 [Dim.Y Dim.X]
}
