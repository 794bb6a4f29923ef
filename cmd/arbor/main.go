// Command arbor edits nested outlines by dragging their items.
package main

import (
	"os"

	"github.com/phanxgames/arbor/internal/cli"
)

// Set by goreleaser.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
