// Package main is the entry point for the Number Finder service.
// Its sole responsibility is running the contactsd command tree; wiring
// lives in internal/cli. No business logic belongs here.
package main

import (
	"fmt"
	"os"

	"github.com/pkordes/numberfinder/backend/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
