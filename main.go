package main

import (
	"os"

	"railbook-cli/cmd"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	build := cmd.BuildInfo{Version: version, Commit: commit}
	os.Exit(cmd.Execute(build, os.Args[1:], os.Stdout, os.Stderr))
}
