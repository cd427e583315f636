package main

import (
	"fmt"
	"os"

	"github.com/DeBrosOfficial/indexer-client/pkg/cli"
)

// version metadata populated via -ldflags at build time
var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	cmd := cli.NewDevServerCommand(cli.BuildInfo{Version: version, Commit: commit, Date: date})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "devserver: %v\n", err)
		os.Exit(1)
	}
}
