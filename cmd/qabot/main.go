package main

import (
	"os"

	"qabot/internal/cli"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	if err := cli.NewRootCommand(version, commit, date).Execute(); err != nil {
		os.Exit(1)
	}
}
