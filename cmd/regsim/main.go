// Command regsim builds a synthetic linear regression problem from flags, a config file or
// REGSIM_ environment variables, estimates its coefficients and reports how close the
// estimate came.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
