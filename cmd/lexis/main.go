// Package main is the entry point for the Lexis CLI.
package main

import (
	"os"

	"github.com/f3rmion/lexis/cmd/lexis/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
