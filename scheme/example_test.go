// SPDX-License-Identifier: MIT

package scheme_test

import (
	"fmt"

	"github.com/katalvlaran/lvfdm/scheme"
)

// ExampleParseType resolves a configured scheme name to its default weights.
func ExampleParseType() {
	t, err := scheme.ParseType("Modified_Craig_Sneyd")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	d, _ := scheme.DefaultDesc(t)
	fmt.Printf("%v theta=%.4f mu=%.4f\n", d.Type, d.Theta, d.Mu)
	// Output: modified-craig-sneyd theta=0.3333 mu=0.3333
}

// ExampleDesc_Validate rejects weights outside [0, 1].
func ExampleDesc_Validate() {
	d := scheme.HundsdorferDesc
	fmt.Println(d.Validate() == nil)
	d.Theta = 1.2
	fmt.Println(d.Validate() != nil)
	// Output:
	// true
	// true
}
