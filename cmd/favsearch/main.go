// Package main provides the entry point for the favsearch CLI.
package main

import (
	"os"

	"github.com/seelkers/favsearch/cmd/favsearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
