// Package main is the entry point for the hunter CLI.
package main

import (
	"os"

	"github.com/joenandez/codename-hunter/cmd/hunter/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
