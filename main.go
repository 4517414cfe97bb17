// Archmap - dependency resolution and architecture graph engine.
//
// Archmap ingests a Python/JavaScript/TypeScript source tree and produces
// a directed dependency graph with structural metrics and architectural
// role classifications for downstream documentation tooling.
package main

import (
	"fmt"
	"os"

	"github.com/Benny93/archmap-go/cmd"
)

func main() {
	cli := cmd.NewCLI()

	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
