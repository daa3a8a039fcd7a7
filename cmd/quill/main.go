// Package main is the entry point for the quill CLI.
package main

import (
	"os"

	"github.com/thoreinstein/quill/cmd/quill/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(commands.HandleError(os.Stderr, err))
	}
}
