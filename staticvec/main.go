// Command staticvec benchmarks and demonstrates the vec package.
package main

import "github.com/sarchlab/staticvec/staticvec/cmd"

func main() {
	cmd.Execute()
}
