// sequoia-browse is a dedicated entry point for the interactive pattern
// browser, so shell aliases and key bindings can invoke it directly
// instead of going through "sequoia browse".
package main

import (
	"fmt"
	"os"

	"github.com/runger/sequoia/internal/cmd"
)

func main() {
	os.Exit(run())
}

// run is separated from main to keep the TTY preflight testable.
func run() int {
	if err := checkTTY(); err != nil {
		fmt.Fprintf(os.Stderr, "sequoia-browse: %v\n", err)
		return 2
	}
	if err := checkTERM(); err != nil {
		fmt.Fprintf(os.Stderr, "sequoia-browse: %v\n", err)
		return 2
	}

	args := append([]string{os.Args[0], "browse"}, os.Args[1:]...)
	os.Args = args
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}
