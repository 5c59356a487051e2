// Command procsim-repo is the module root placeholder.
// For the full CLI, use: go run ./cmd/procsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("procsim - cycle-accurate pipeline simulator")
	fmt.Println("")
	fmt.Println("Usage: procsim --processor HARDWAREFILE PROGRAMFILE")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/procsim' for the full CLI.")
	fmt.Println("Run 'go run ./cmd/speclint' to validate a processor description.")
	fmt.Println("Run 'go run ./cmd/benchmark' to batch-run timing benchmarks.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: you provided arguments. Use 'go run ./cmd/procsim' instead.")
	}
}
