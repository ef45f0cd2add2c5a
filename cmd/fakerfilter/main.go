// Command fakerfilter rewrites configured string columns of tabular files
// with synthetic values and writes the result to a sink.
//
//	fakerfilter run --config pipeline.yaml
//	fakerfilter validate --config pipeline.yaml
//	fakerfilter expressions
package main

import (
	"fmt"
	"os"

	// Register every storage backend; the pipeline picks one by kind.
	_ "fakerfilter/internal/storage/all"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
