package matrix_test

import (
	"fmt"

	"github.com/katalvlaran/eeio/matrix"
)

// ExampleInverse computes the Leontief inverse of a two-sector economy.
func ExampleInverse() {
	a, _ := matrix.NewDenseFrom([][]float64{
		{0.2, 0.3},
		{0.4, 0.1},
	})
	system, _ := matrix.IdentityMinus(a) // I - A
	l, _ := matrix.Inverse(system)

	out, _ := matrix.MatVec(l, []float64{1, 0}) // output needed for one unit of sector 0
	fmt.Printf("%.4f %.4f\n", out[0], out[1])

	// Output:
	// 1.5000 0.6667
}
