// SPDX-License-Identifier: MIT

// Command eeio builds and evaluates environmentally extended input-output
// models from csv tables.
package main

import (
	"os"

	"github.com/katalvlaran/eeio/internal/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	// errors are printed by the command tree
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
