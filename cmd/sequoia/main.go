// Package main is the entry point for the sequoia CLI.
package main

import (
	"os"

	"github.com/runger/sequoia/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
