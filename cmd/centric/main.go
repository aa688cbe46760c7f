// Package main provides the entry point for centric.
//
// centric is a command-line client for the Centric PLM REST API,
// handling authentication, token caching, and response formatting.
package main

import (
	"fmt"
	"os"

	"github.com/plmtools/centric-cli/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(command.ExitCode(err))
	}
}
