// Command advisor runs the scaling advisor: an HTTP service with a periodic
// scheduler, a one-shot cycle runner and the database migrator.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errCycleFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
