// Package main provides the entry point for perf, the load-test and report
// tool for the login API.
package main

import (
	"os"

	"login-api/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		command.PrintError("%v", err)
		os.Exit(1)
	}
}
